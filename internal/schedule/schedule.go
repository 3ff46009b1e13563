// Package schedule parses poll-cadence specs.
//
// A spec is either a fixed interval ("600s", "10m", "2h30m") or a cron
// expression ("*/10 * * * *", "@hourly"). Optional prefixes "cron:" and
// "every:" force one interpretation.
package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Default is the poll cadence used when no spec is configured.
const Default = 600 * time.Second

type Kind int

const (
	KindInterval Kind = iota
	KindCron
)

type Spec struct {
	Kind  Kind
	Every time.Duration
	Expr  string

	sched cron.Schedule
}

// Every returns a fixed-interval spec; d must be positive.
func Every(d time.Duration) Spec {
	if d <= 0 {
		d = Default
	}
	return Spec{Kind: KindInterval, Every: d}
}

// Parse normalizes a schedule string into a Spec.
func Parse(raw string) (Spec, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Spec{}, fmt.Errorf("schedule required")
	}

	low := strings.ToLower(s)
	if strings.HasPrefix(low, "cron:") {
		expr := strings.TrimSpace(s[len("cron:"):])
		if expr == "" {
			return Spec{}, fmt.Errorf("cron schedule required after 'cron:'")
		}
		return parseCron(expr)
	}
	if strings.HasPrefix(low, "every:") {
		v := strings.TrimSpace(s[len("every:"):])
		return parseInterval(v)
	}

	// Heuristic: whitespace or a leading '@' means cron.
	if strings.ContainsAny(s, " \t\n\r") || strings.HasPrefix(s, "@") {
		return parseCron(s)
	}

	return parseInterval(s)
}

// Next returns the instant the poller should wake after t.
func (s Spec) Next(t time.Time) time.Time {
	if s.Kind == KindCron && s.sched != nil {
		return s.sched.Next(t)
	}
	d := s.Every
	if d <= 0 {
		d = Default
	}
	return t.Add(d)
}

func (s Spec) String() string {
	if s.Kind == KindCron {
		return "cron:" + s.Expr
	}
	return s.Every.String()
}

func parseCron(expr string) (Spec, error) {
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return Spec{}, fmt.Errorf("invalid cron schedule %q: %w", expr, err)
	}
	return Spec{Kind: KindCron, Expr: expr, sched: sched}, nil
}

func parseInterval(v string) (Spec, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return Spec{}, fmt.Errorf("invalid schedule %q (use cron like '*/10 * * * *' or duration like '10m')", v)
	}
	if d <= 0 {
		return Spec{}, fmt.Errorf("interval must be > 0")
	}
	return Spec{Kind: KindInterval, Every: d}, nil
}
