// Package poller owns the poll-check-notify loop.
//
// One iteration fully completes before the next begins; the only suspension
// point is the sleep between iterations, which happens on every path —
// success, no-op and error alike.
package poller

import (
	"context"
	"sync"
	"time"

	"hwbot/internal/homework"
	"hwbot/internal/schedule"
	"hwbot/pkg/logx"
)

// Fetcher is the narrow view of the API client the loop needs.
type Fetcher interface {
	Fetch(ctx context.Context, from int64) (any, error)
}

// Notifier delivers one text message, best-effort.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Poller holds the two pieces of loop state: the from_date cursor and the
// last successfully delivered text (the dedup key). Both live only for the
// process lifetime; a restart resets them.
type Poller struct {
	fetcher  Fetcher
	notifier Notifier
	log      logx.Logger
	now      func() time.Time

	mu   sync.Mutex
	spec schedule.Spec

	cursor   int64
	lastSent string
}

func New(f Fetcher, n Notifier, spec schedule.Spec, log logx.Logger) *Poller {
	if log.IsZero() {
		log = logx.Nop()
	}
	p := &Poller{
		fetcher:  f,
		notifier: n,
		log:      log,
		now:      time.Now,
		spec:     spec,
	}
	p.cursor = p.now().Unix()
	return p
}

// SetSchedule swaps the poll cadence; it takes effect at the next sleep.
func (p *Poller) SetSchedule(spec schedule.Spec) {
	p.mu.Lock()
	p.spec = spec
	p.mu.Unlock()
}

func (p *Poller) schedule() schedule.Spec {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.spec
}

// Run executes iterations until ctx is cancelled. Runtime errors never stop
// the loop; missing configuration is handled before Run is ever called.
func (p *Poller) Run(ctx context.Context) error {
	p.log.Info("poll loop started",
		logx.Int64("cursor", p.cursor),
		logx.String("schedule", p.schedule().String()),
	)
	for {
		p.runOnce(ctx)

		wake := p.schedule().Next(p.now())
		timer := time.NewTimer(time.Until(wake))
		select {
		case <-ctx.Done():
			timer.Stop()
			p.log.Info("poll loop stopped")
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// runOnce performs a single fetch-validate-extract-notify pass.
func (p *Poller) runOnce(ctx context.Context) {
	msg, resp, err := p.observe(ctx)
	if err != nil {
		p.reportError(ctx, err)
		return
	}

	if msg == p.lastSent {
		p.log.Debug("status unchanged, skipping send")
		return
	}

	if err := p.notifier.Notify(ctx, msg); err != nil {
		// Delivery failures are non-fatal and leave cursor and dedup state
		// untouched, so the same message is retried next iteration.
		p.log.Error("delivery failed, will retry next iteration", logx.Err(err))
		return
	}

	p.lastSent = msg
	p.cursor = resp.CurrentDate
	p.log.Debug("cursor advanced", logx.Int64("cursor", p.cursor))
}

// observe runs the failable part of an iteration: fetch, shape check and
// status extraction. It returns the candidate message.
func (p *Poller) observe(ctx context.Context) (string, homework.Response, error) {
	raw, err := p.fetcher.Fetch(ctx, p.cursor)
	if err != nil {
		return "", homework.Response{}, err
	}

	resp, err := homework.CheckResponse(raw)
	if err != nil {
		return "", homework.Response{}, err
	}

	if len(resp.Homeworks) == 0 {
		return homework.NoNewStatuses, resp, nil
	}

	msg, err := homework.ParseStatus(resp.Homeworks[0])
	if err != nil {
		return "", homework.Response{}, err
	}
	return msg, resp, nil
}

// reportError converts a caught iteration error into a user-facing report
// and sends it at most once per distinct text.
func (p *Poller) reportError(ctx context.Context, cause error) {
	report := "Сбой в работе программы: " + cause.Error()
	p.log.Error("poll iteration failed", logx.Err(cause))

	if report == p.lastSent {
		return
	}
	if err := p.notifier.Notify(ctx, report); err != nil {
		p.log.Error("error report delivery failed", logx.Err(err))
		return
	}
	p.lastSent = report
}
