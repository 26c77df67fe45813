package bot

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"umbrella-bot/internal/domain/gateway/chat"
	"umbrella-bot/pkg/log"
)

// Locker guards polling so a single replica consumes updates for a token
type Locker interface {
	Lock(ctx context.Context) error
	AutoRefresh(ctx context.Context) <-chan error
	Unlock(ctx context.Context) error
}

// PollerOptions tunes the long polling loop
type PollerOptions struct {
	// Timeout is the long-poll duration Telegram holds each getUpdates call open.
	Timeout time.Duration
	// ErrorDelay is the pause after a failed getUpdates call.
	ErrorDelay time.Duration
	// Workers bounds the number of updates handled concurrently.
	Workers int
	// Locker is optional.
	Locker Locker
}

// Poller consumes updates with getUpdates and hands each one to a bounded worker group
type Poller struct {
	telegram chat.TelegramGateway
	handler  UpdateHandler
	opts     PollerOptions
	sleep    func(ctx context.Context, d time.Duration)
}

func NewPoller(telegram chat.TelegramGateway, handler UpdateHandler, opts PollerOptions) *Poller {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.ErrorDelay <= 0 {
		opts.ErrorDelay = 3 * time.Second
	}
	if opts.Workers <= 0 {
		opts.Workers = 16
	}
	return &Poller{
		telegram: telegram,
		handler:  handler,
		opts:     opts,
		sleep:    sleepContext,
	}
}

// Run polls until ctx is cancelled, then waits for in-flight updates.
// With a Locker, polling starts only once the lock is held and stops if it is lost.
func (p *Poller) Run(ctx context.Context) error {
	if p.opts.Locker != nil {
		log.Info("Waiting for poller lock")
		if err := p.opts.Locker.Lock(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		defer func() {
			unlockCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := p.opts.Locker.Unlock(unlockCtx); err != nil {
				log.Warn("Failed to release poller lock", zap.Error(err))
			}
		}()

		var cancel context.CancelCauseFunc
		ctx, cancel = context.WithCancelCause(ctx)
		defer cancel(nil)

		refreshErr := p.opts.Locker.AutoRefresh(ctx)
		go func() {
			if err := <-refreshErr; err != nil && !errors.Is(err, context.Canceled) {
				log.Error("Poller lock lost, stopping", zap.Error(err))
				cancel(err)
			}
		}()
		log.Info("Poller lock acquired")
	}

	if err := p.telegram.DeleteWebhook(ctx); err != nil && ctx.Err() == nil {
		log.Warn("Failed to delete webhook before polling", zap.Error(err))
	}

	err := p.poll(ctx)
	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
		return cause
	}
	return err
}

func (p *Poller) poll(ctx context.Context) error {
	group := new(errgroup.Group)
	group.SetLimit(p.opts.Workers)
	handlerCtx := context.WithoutCancel(ctx)

	timeoutSeconds := int(p.opts.Timeout.Seconds())
	var offset int64

	for ctx.Err() == nil {
		updates, err := p.telegram.GetUpdates(ctx, offset, timeoutSeconds)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			if chat.IsConflict(err) {
				log.Warn("Another consumer or webhook is active for this bot", zap.Int64("offset", offset), zap.Error(err))
			} else {
				log.Error("Failed to get updates", zap.Int64("offset", offset), zap.Error(err))
			}
			p.sleep(ctx, p.errorDelay(err))
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			group.Go(func() error {
				p.handler.HandleUpdate(handlerCtx, update)
				return nil
			})
		}
	}

	log.Info("Polling stopped, waiting for in-flight updates")
	return group.Wait()
}

func (p *Poller) errorDelay(err error) time.Duration {
	var apiErr *chat.APIError
	if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
		return time.Duration(apiErr.RetryAfter) * time.Second
	}
	return p.opts.ErrorDelay
}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
