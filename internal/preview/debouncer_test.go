package preview

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startDebouncer(t *testing.T, cfg DebouncerConfig) *Debouncer {
	t.Helper()
	d, err := NewDebouncer(cfg)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan struct{})
	go func() {
		defer close(done)
		d.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return d
}

func receive(t *testing.T, d *Debouncer, within time.Duration) Trigger {
	t.Helper()
	select {
	case tr := <-d.C():
		return tr
	case <-time.After(within):
		t.Fatal("no trigger fired")
		return Trigger{}
	}
}

func assertSilent(t *testing.T, d *Debouncer, quiet time.Duration) {
	t.Helper()
	select {
	case tr := <-d.C():
		t.Fatalf("unexpected trigger: %+v", tr)
	case <-time.After(quiet):
	}
}

func TestNewDebouncer_RequiresQuietWindow(t *testing.T) {
	_, err := NewDebouncer(DebouncerConfig{})
	require.Error(t, err)
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	d := startDebouncer(t, DebouncerConfig{QuietWindow: 30 * time.Millisecond, MaxDelay: time.Second})

	for range 5 {
		d.Request(ReasonChange)
	}

	tr := receive(t, d, time.Second)
	assert.Equal(t, 5, tr.Requests)
	assert.Equal(t, CauseQuiet, tr.Cause)
	assert.Equal(t, ReasonChange, tr.Reason)
	assertSilent(t, d, 100*time.Millisecond)
}

func TestDebouncer_MaxDelayBoundsContinuousBurst(t *testing.T) {
	d := startDebouncer(t, DebouncerConfig{QuietWindow: 50 * time.Millisecond, MaxDelay: 150 * time.Millisecond})

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				d.Request(ReasonChange)
			}
		}
	}()

	tr := receive(t, d, time.Second)
	assert.Equal(t, CauseMaxDelay, tr.Cause)
}

func TestDebouncer_QueuesSingleFollowUp(t *testing.T) {
	d := startDebouncer(t, DebouncerConfig{QuietWindow: 20 * time.Millisecond, MaxDelay: time.Second})

	// nobody consumes: the first burst parks, later bursts fold into it
	d.Request("a")
	time.Sleep(80 * time.Millisecond)
	d.Request("b")
	d.Request("c")
	time.Sleep(80 * time.Millisecond)

	tr := receive(t, d, time.Second)
	assert.Equal(t, 3, tr.Requests)
	assert.Equal(t, "c", tr.Reason)
	assertSilent(t, d, 80*time.Millisecond)
}

func TestDebouncer_RequestAfterFireTriggersAgain(t *testing.T) {
	d := startDebouncer(t, DebouncerConfig{QuietWindow: 20 * time.Millisecond, MaxDelay: time.Second})

	d.Request(ReasonChange)
	first := receive(t, d, time.Second)

	d.Request(ReasonSchedule)
	second := receive(t, d, time.Second)

	assert.Equal(t, 1, first.Requests)
	assert.Equal(t, ReasonSchedule, second.Reason)
	assert.False(t, second.First.Before(first.Last))
}
