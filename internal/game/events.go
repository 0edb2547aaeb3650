package game

import "sync"

// EventKind identifies a presentation event.
type EventKind int

const (
	EventScoreChanged EventKind = iota
	EventStateChanged
	EventRunEnded
	EventContinuationGranted
	EventContinuationDenied
	EventCoinsChanged
	EventRewardDenied // Menu reward not granted
)

func (k EventKind) String() string {
	switch k {
	case EventScoreChanged:
		return "score_changed"
	case EventStateChanged:
		return "state_changed"
	case EventRunEnded:
		return "run_ended"
	case EventContinuationGranted:
		return "continuation_granted"
	case EventContinuationDenied:
		return "continuation_denied"
	case EventCoinsChanged:
		return "coins_changed"
	case EventRewardDenied:
		return "reward_denied"
	default:
		return "unknown"
	}
}

// Event is emitted to the presentation layer. The session never draws.
type Event struct {
	Kind    EventKind
	State   State
	Score   int
	Best    int
	Coins   int
	Reason  EndReason // Set for run_ended
	Message string    // User-visible text for denied rewards
}

// Notifier receives session events. Notify is called with the session lock
// held and must not call back into the session.
type Notifier interface {
	Notify(evt Event)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(evt Event)

// Notify calls f(evt).
func (f NotifierFunc) Notify(evt Event) {
	f(evt)
}

// ChannelNotifier buffers events on a channel for a consumer running
// elsewhere, such as a Bubble Tea command.
type ChannelNotifier struct {
	events   chan Event
	done     chan struct{}
	doneOnce sync.Once
}

// NewChannelNotifier creates a channel notifier.
// bufferSize controls how many events can be buffered before dropping.
func NewChannelNotifier(bufferSize int) *ChannelNotifier {
	if bufferSize < 1 {
		bufferSize = 64
	}
	return &ChannelNotifier{
		events: make(chan Event, bufferSize),
		done:   make(chan struct{}),
	}
}

// Notify enqueues an event without blocking.
// If the buffer is full, the oldest event is dropped.
func (n *ChannelNotifier) Notify(evt Event) {
	select {
	case <-n.done:
		return
	default:
	}

	select {
	case n.events <- evt:
	default:
		select {
		case <-n.events:
		default:
		}
		select {
		case n.events <- evt:
		default:
		}
	}
}

// Events returns the channel to receive events from.
func (n *ChannelNotifier) Events() <-chan Event {
	return n.events
}

// Done returns a channel closed by Close.
func (n *ChannelNotifier) Done() <-chan struct{} {
	return n.done
}

// Close stops accepting events. Safe to call multiple times.
func (n *ChannelNotifier) Close() {
	n.doneOnce.Do(func() {
		close(n.done)
	})
}

// multiNotifier fans events out to several notifiers.
type multiNotifier []Notifier

func (m multiNotifier) Notify(evt Event) {
	for _, n := range m {
		n.Notify(evt)
	}
}
