// Package transport holds messaging transports. The in-memory transport
// backs the local chat REPL and tests; platform transports follow the same
// service.Transport contract.
package transport

import (
	"context"
	"fmt"
	"sync"

	"github.com/locvx/ghichep/internal/service"
)

// Memory is an in-process transport: inbound messages are injected with
// Inject and outbound replies are collected on a channel.
type Memory struct {
	inbound  chan service.InboundMessage
	outbound chan service.OutboundReply
	done     chan struct{}
	name     string
	once     sync.Once
}

// NewMemory creates an in-memory transport with the given buffer size.
func NewMemory(name string, buffer int) *Memory {
	if buffer <= 0 {
		buffer = 16
	}
	return &Memory{
		name:     name,
		inbound:  make(chan service.InboundMessage, buffer),
		outbound: make(chan service.OutboundReply, buffer),
		done:     make(chan struct{}),
	}
}

// Name identifies the transport.
func (m *Memory) Name() string {
	return m.name
}

// Receive returns the inbound message stream.
func (m *Memory) Receive(_ context.Context) (<-chan service.InboundMessage, error) {
	return m.inbound, nil
}

// Send collects an outbound reply.
func (m *Memory) Send(ctx context.Context, _ string, reply service.OutboundReply) error {
	select {
	case m.outbound <- reply:
		return nil
	case <-m.done:
		return fmt.Errorf("transport %s is closed", m.name)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close shuts the transport down. Pending Inject calls fail afterwards.
func (m *Memory) Close() error {
	m.once.Do(func() { close(m.done) })
	return nil
}

// Inject delivers an inbound message as if a user had sent it.
func (m *Memory) Inject(ctx context.Context, msg service.InboundMessage) error {
	select {
	case m.inbound <- msg:
		return nil
	case <-m.done:
		return fmt.Errorf("transport %s is closed", m.name)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Replies exposes the outbound reply stream for the REPL and tests.
func (m *Memory) Replies() <-chan service.OutboundReply {
	return m.outbound
}

// Interface check.
var _ service.Transport = (*Memory)(nil)
