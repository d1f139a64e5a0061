package notify

import (
	"context"
	"sync"
	"time"

	"github.com/Abhinavj12/hackfest-2025/internal/model"
	"github.com/Abhinavj12/hackfest-2025/pkg/logger"
	"go.uber.org/zap"
)

const DefaultTimeout = 10 * time.Second

// Dispatcher sends confirmations in the background. Failures are logged and never reach the caller.
type Dispatcher struct {
	sender  Sender
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(sender Sender, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{
		sender:  sender,
		timeout: timeout,
	}
}

func (d *Dispatcher) Notify(ctx context.Context, team *model.Team) {
	l := logger.FromContext(ctx).With(zap.String("team_id", team.ID))

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		// The request may finish before delivery does.
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		if err := d.sender.Send(sendCtx, team); err != nil {
			l.Error("failed to send confirmation email", zap.Error(err))
			return
		}
		l.Debug("confirmation email sent")
	}()
}

// Wait blocks until in-flight deliveries finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
