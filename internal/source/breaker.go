package source

import (
	"sync"
	"time"
)

type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

type transition struct {
	from, to State
}

// breaker is a consecutive-failure circuit breaker.
// All state is guarded by mu; callers only see allow/record.
type breaker struct {
	mu        sync.Mutex
	threshold int
	openFor   time.Duration
	now       func() time.Time

	state    State
	failures int
	openedAt time.Time
	// trialInFlight is set while the single half-open probe runs.
	trialInFlight bool
}

func newBreaker(threshold int, openFor time.Duration, now func() time.Time) *breaker {
	return &breaker{
		threshold: threshold,
		openFor:   openFor,
		now:       now,
	}
}

// allow admits or rejects a call. trial is true when the admitted call is
// the half-open probe and must be reported back as such.
func (b *breaker) allow() (trial bool, t *transition, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Closed:
		return false, nil, nil
	case Open:
		if b.now().Sub(b.openedAt) < b.openFor {
			return false, nil, ErrCircuitOpen
		}
		b.state = HalfOpen
		t = &transition{from: Open, to: HalfOpen}
	}

	if b.trialInFlight {
		return false, t, ErrCircuitOpen
	}
	b.trialInFlight = true
	return true, t, nil
}

// record reports the outcome of a call admitted by allow.
// Cancellations are neutral: they neither count as failures nor close the breaker.
func (b *breaker) record(trial bool, err error) *transition {
	b.mu.Lock()
	defer b.mu.Unlock()

	cancelled := err != nil && IsCancellation(err)

	if trial {
		b.trialInFlight = false
		switch {
		case cancelled:
			return nil
		case err == nil:
			b.state = Closed
			b.failures = 0
			return &transition{from: HalfOpen, to: Closed}
		default:
			b.trip()
			return &transition{from: HalfOpen, to: Open}
		}
	}

	// Outcomes of calls admitted before the breaker left Closed are stale.
	if b.state != Closed || cancelled {
		return nil
	}
	if err == nil {
		b.failures = 0
		return nil
	}
	b.failures++
	if b.failures >= b.threshold {
		b.trip()
		return &transition{from: Closed, to: Open}
	}
	return nil
}

func (b *breaker) trip() {
	b.state = Open
	b.openedAt = b.now()
	b.failures = 0
}

func (b *breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
