package reward

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		provider Provider
		timeout  time.Duration
		expected Outcome
	}{
		{"granted", ProviderFunc(func(context.Context) (Outcome, error) { return Granted, nil }), time.Second, Granted},
		{"denied", ProviderFunc(func(context.Context) (Outcome, error) { return Denied, nil }), time.Second, Denied},
		{"unavailable", None{}, time.Second, Unavailable},
		{"error is denied", ProviderFunc(func(context.Context) (Outcome, error) { return Granted, errors.New("sdk crashed") }), time.Second, Denied},
		{"bogus outcome is denied", ProviderFunc(func(context.Context) (Outcome, error) { return Outcome(42), nil }), time.Second, Denied},
		{"timeout is denied", Never{}, 10 * time.Millisecond, Denied},
		{"nil provider", nil, time.Second, Unavailable},
		{"simulated", Simulated{Delay: time.Millisecond}, time.Second, Granted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(context.Background(), tt.provider, tt.timeout); got != tt.expected {
				t.Errorf("Resolve() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestResolveProviderIgnoringContext(t *testing.T) {
	// A provider that never looks at ctx must still not hang the caller.
	block := make(chan struct{})
	defer close(block)
	p := ProviderFunc(func(context.Context) (Outcome, error) {
		<-block
		return Granted, nil
	})

	start := time.Now()
	if got := Resolve(context.Background(), p, 20*time.Millisecond); got != Denied {
		t.Errorf("Resolve() = %v, expected denied", got)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Resolve() took %v, expected to return at the timeout", elapsed)
	}
}

func TestResolveCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := Resolve(ctx, Never{}, 0); got != Denied {
		t.Errorf("Resolve() with cancelled ctx = %v, expected denied", got)
	}
}

func TestSimulatedCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o, err := Simulated{Delay: time.Hour}.Request(ctx)
	if o != Denied || err == nil {
		t.Errorf("Cancelled simulated request = (%v, %v), expected denied with error", o, err)
	}
}

func TestScripted(t *testing.T) {
	s := NewScripted(Denied, Granted)
	want := []Outcome{Denied, Granted, Granted}
	for i, w := range want {
		got, err := s.Request(context.Background())
		if err != nil {
			t.Fatalf("Request %d failed: %v", i, err)
		}
		if got != w {
			t.Errorf("Request %d = %v, expected %v", i, got, w)
		}
	}
	if s.Calls() != 3 {
		t.Errorf("Calls() = %d, expected 3", s.Calls())
	}

	if o, err := NewScripted().Request(context.Background()); o != Unavailable || !errors.Is(err, ErrUnavailable) {
		t.Errorf("Empty script = (%v, %v), expected unavailable", o, err)
	}
}

func TestOutcomeString(t *testing.T) {
	if Granted.String() != "granted" || Denied.String() != "denied" || Unavailable.String() != "unavailable" {
		t.Error("Unexpected outcome names")
	}
	if Outcome(9).String() != "unknown" {
		t.Error("Unknown outcome should say so")
	}
}
