package transport

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvx/ghichep/internal/service"
)

type echoProcessor struct{}

func (echoProcessor) ProcessMessage(_ context.Context, msg service.InboundMessage) (service.OutboundReply, error) {
	if msg.Text == "boom" {
		return service.OutboundReply{}, errors.New("processing failed")
	}
	return service.OutboundReply{Text: "echo: " + msg.Text}, nil
}

func TestServeRoutesMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mem := NewMemory("local", 4)
	serveDone := make(chan error, 1)
	go func() { serveDone <- Serve(ctx, echoProcessor{}, nil, mem) }()

	require.NoError(t, mem.Inject(ctx, service.InboundMessage{Platform: "telegram", AccountID: "tg-1", Text: "cafe 50"}))

	select {
	case reply := <-mem.Replies():
		assert.Equal(t, "echo: cafe 50", reply.Text)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reply")
	}

	// Processing errors become a friendly reply, not a crash.
	require.NoError(t, mem.Inject(ctx, service.InboundMessage{Platform: "telegram", AccountID: "tg-1", Text: "boom"}))
	select {
	case reply := <-mem.Replies():
		assert.Contains(t, reply.Text, "Có lỗi xảy ra")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for error reply")
	}

	cancel()
	select {
	case err := <-serveDone:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not stop on cancel")
	}
}
