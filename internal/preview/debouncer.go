package preview

import (
	"context"
	"time"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// Debounce causes reported on a Trigger.
const (
	CauseQuiet    = "quiet"
	CauseMaxDelay = "max_delay"
)

// Trigger is one coalesced rebuild request.
type Trigger struct {
	Reason   string // reason of the last request in the burst
	Requests int
	First    time.Time
	Last     time.Time
	Cause    string
}

// DebouncerConfig tunes the coalescing window.
type DebouncerConfig struct {
	// QuietWindow is how long the source must be silent before a burst fires.
	QuietWindow time.Duration
	// MaxDelay bounds how long a continuous burst can postpone its rebuild.
	MaxDelay time.Duration
}

// Debouncer coalesces bursts of change requests into single triggers.
//
// Fired triggers are delivered on C, which holds at most one trigger. While
// the consumer is busy rebuilding, a second burst parks there as the single
// follow-up; further bursts fold into it. Every request is therefore followed
// by a rebuild that starts after it.
type Debouncer struct {
	cfg      DebouncerConfig
	requests chan request
	out      chan Trigger
	now      func() time.Time
}

type request struct {
	reason string
	at     time.Time
}

// NewDebouncer validates cfg and returns an idle debouncer. Call Run to start it.
func NewDebouncer(cfg DebouncerConfig) (*Debouncer, error) {
	if cfg.QuietWindow <= 0 {
		return nil, ferrors.ValidationError("quiet window must be > 0").Build()
	}
	if cfg.MaxDelay < cfg.QuietWindow {
		cfg.MaxDelay = cfg.QuietWindow
	}
	return &Debouncer{
		cfg:      cfg,
		requests: make(chan request, 64),
		out:      make(chan Trigger, 1),
		now:      time.Now,
	}, nil
}

// C delivers fired triggers.
func (d *Debouncer) C() <-chan Trigger { return d.out }

// Request registers a change. It never blocks; when the request buffer is full
// the dropped request is covered by the burst already pending.
func (d *Debouncer) Request(reason string) {
	select {
	case d.requests <- request{reason: reason, at: d.now()}:
	default:
	}
}

// Run processes requests until ctx is done.
func (d *Debouncer) Run(ctx context.Context) {
	quiet := time.NewTimer(time.Hour)
	quiet.Stop()
	maxDelay := time.NewTimer(time.Hour)
	maxDelay.Stop()
	defer quiet.Stop()
	defer maxDelay.Stop()

	var (
		pending bool
		burst   Trigger
	)
	fire := func(cause string) {
		if !pending {
			return
		}
		quiet.Stop()
		maxDelay.Stop()
		burst.Cause = cause
		pending = false

		select {
		case d.out <- burst:
		case queued := <-d.out:
			// consumer is busy; fold into the follow-up it has not picked up yet
			burst.Requests += queued.Requests
			burst.First = queued.First
			d.out <- burst
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case req := <-d.requests:
			if !pending {
				pending = true
				burst = Trigger{First: req.at}
				maxDelay.Reset(d.cfg.MaxDelay)
			}
			burst.Reason = req.reason
			burst.Last = req.at
			burst.Requests++
			quiet.Reset(d.cfg.QuietWindow)
		case <-quiet.C:
			fire(CauseQuiet)
		case <-maxDelay.C:
			fire(CauseMaxDelay)
		}
	}
}
