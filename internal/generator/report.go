package generator

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/sitemap"
)

// Outcome is the final state of a generation pass.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomePartial  Outcome = "partial"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// RenderFailure records one element/language pair that could not be rendered.
type RenderFailure struct {
	Element string
	Kind    sitemap.Kind
	Lang    string
	Err     error
}

func (f RenderFailure) Error() string {
	return fmt.Sprintf("%s %s [%s]: %v", f.Kind, f.Element, f.Lang, f.Err)
}

// Report captures what a generation pass did.
type Report struct {
	BuildID      string
	BuildNumber  int
	Trigger      string
	Start        time.Time
	End          time.Time
	Languages    []string
	Elements     int
	Workers      int
	Rendered     int
	Failed       []RenderFailure
	IndexWritten bool
	Outcome      Outcome
}

// Duration is the wall time of the pass.
func (r *Report) Duration() time.Duration { return r.End.Sub(r.Start) }

// Summary returns a human-readable single-line summary.
func (r *Report) Summary() string {
	return fmt.Sprintf("build=%d languages=%d elements=%d rendered=%d failed=%d index=%t duration=%s outcome=%s",
		r.BuildNumber, len(r.Languages), r.Elements, r.Rendered, len(r.Failed), r.IndexWritten,
		r.Duration().Truncate(time.Millisecond), r.Outcome)
}

func (r *Report) deriveOutcome(passErr error) {
	switch {
	case passErr != nil && isCanceled(passErr):
		r.Outcome = OutcomeCanceled
	case passErr != nil:
		r.Outcome = OutcomeFailed
	case len(r.Failed) > 0:
		r.Outcome = OutcomePartial
	default:
		r.Outcome = OutcomeSuccess
	}
}
