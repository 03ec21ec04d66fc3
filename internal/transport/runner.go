package transport

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/locvx/ghichep/internal/service"
)

// Processor turns one inbound message into a reply. Implemented by the
// engine.
type Processor interface {
	ProcessMessage(ctx context.Context, msg service.InboundMessage) (service.OutboundReply, error)
}

// Serve pumps every transport's inbound stream through the processor and
// sends the replies back, one goroutine per transport. It returns when ctx
// is cancelled or a transport's stream closes.
func Serve(ctx context.Context, processor Processor, logger *slog.Logger, transports ...service.Transport) error {
	if logger == nil {
		logger = slog.Default()
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, t := range transports {
		g.Go(func() error {
			inbound, err := t.Receive(ctx)
			if err != nil {
				return err
			}
			logger.Info("transport started", "transport", t.Name())
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case msg, ok := <-inbound:
					if !ok {
						logger.Info("transport stream closed", "transport", t.Name())
						return nil
					}
					reply, perr := processor.ProcessMessage(ctx, msg)
					if perr != nil {
						logger.Error("failed to process message",
							"transport", t.Name(),
							"error", perr)
						reply = service.OutboundReply{Text: "Có lỗi xảy ra, bạn thử lại giúp mình nhé 🙏"}
					}
					if serr := t.Send(ctx, msg.AccountID, reply); serr != nil {
						logger.Error("failed to send reply",
							"transport", t.Name(),
							"error", serr)
					}
				}
			}
		})
	}
	return g.Wait()
}
