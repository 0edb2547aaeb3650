// Package reward models the external rewarded-action provider that gates
// continuations and menu coin bonuses.
package reward

import (
	"context"
	"errors"
	"time"
)

// Outcome is the single result of a reward request.
type Outcome int

const (
	Denied      Outcome = iota // Player skipped, provider refused, timed out or failed
	Granted                    // Reward earned
	Unavailable                // No reward can be shown right now
)

func (o Outcome) String() string {
	switch o {
	case Granted:
		return "granted"
	case Denied:
		return "denied"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// ErrUnavailable is returned by providers that have nothing to show.
var ErrUnavailable = errors.New("reward: no reward available")

// Provider requests one rewarded action from the host platform.
// Request blocks until the action resolves or ctx is done.
type Provider interface {
	Request(ctx context.Context) (Outcome, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) (Outcome, error)

// Request calls f(ctx).
func (f ProviderFunc) Request(ctx context.Context) (Outcome, error) {
	return f(ctx)
}

// Resolve performs a single request against p and always returns an outcome.
// A non-positive timeout means only ctx bounds the request. Timeouts resolve
// to Denied; ErrUnavailable resolves to Unavailable; any other error to Denied.
// A nil provider is Unavailable.
func Resolve(ctx context.Context, p Provider, timeout time.Duration) Outcome {
	if p == nil {
		return Unavailable
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type result struct {
		outcome Outcome
		err     error
	}
	done := make(chan result, 1)
	go func() {
		o, err := p.Request(ctx)
		done <- result{outcome: o, err: err}
	}()

	select {
	case <-ctx.Done():
		return Denied
	case r := <-done:
		switch {
		case errors.Is(r.err, ErrUnavailable):
			return Unavailable
		case r.err != nil:
			return Denied
		}
		switch r.outcome {
		case Granted, Denied, Unavailable:
			return r.outcome
		default:
			return Denied
		}
	}
}
