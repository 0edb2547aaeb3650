// Package game implements the flappy simulation: the flyer body, the gate
// scheduler, collision and scoring, and the session state machine with its
// rewarded continuation protocol.
//
// A Session is driven by ticks from a clock.Stepper and by discrete inputs.
// It never draws; presentation reads Snapshot and listens to events.
package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/clock"
	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// State is the session lifecycle state.
type State int

const (
	StateIdle           State = iota // Waiting for the first flap
	StateRunning                     // Full tick pipeline active
	StateEnded                       // Frozen at the point of failure
	StateAwaitingReward              // Ended, with a continuation request in flight
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateEnded:
		return "ended"
	case StateAwaitingReward:
		return "awaiting_reward"
	default:
		return "unknown"
	}
}

// Ended reports whether the state is Ended or one of its sub-states.
func (s State) Ended() bool {
	return s == StateEnded || s == StateAwaitingReward
}

// BestStore is durable best-score storage.
type BestStore interface {
	LoadBest(ctx context.Context) (int, error)
	PersistBest(ctx context.Context, score int) error
}

// Wallet is durable coin storage.
type Wallet interface {
	LoadCoins(ctx context.Context) (int, error)
	AddCoins(ctx context.Context, delta int) (int, error)
}

// RunRecord describes a finished run.
type RunRecord struct {
	Score     int
	Continues int
	Reason    EndReason
	Ticks     int
}

// RunRecorder stores finished runs.
type RunRecorder interface {
	RecordRun(ctx context.Context, run RunRecord) error
}

// Snapshot is a read-only copy of the session for presentation.
type Snapshot struct {
	State     State
	Score     int
	Best      int
	Coins     int
	Continues int
	Flyer     Flyer
	Gates     []Gate
	Speed     float64
	TopSpeed  float64 // Speed ceiling of the ramp; 0 when speed is fixed
	EndReason EndReason
	Message   string
	Pending   *Ticket
	World     config.World
	MenuBonus int // Coins a menu reward grants
}

// StepResult is returned from Step.
type StepResult struct {
	State  State
	Scored int  // Gates passed during this tick
	Ended  bool // The run ended during this tick
}

// Session is the top-level controller of one player's game.
// All methods are safe for concurrent use; ticks and inputs are serialized.
type Session struct {
	mu sync.Mutex

	cfg       config.Config
	frame     time.Duration
	scheduler *Scheduler
	flyer     Flyer

	state     State
	score     int
	best      int
	coins     int
	continues int
	ticks     int
	reason    EndReason
	message   string

	generation uint64
	pending    *Ticket

	loaded      bool
	spawnWarned bool

	bestStore BestStore
	wallet    Wallet
	recorder  RunRecorder
	notifier  Notifier
	logger    *log.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithRandom sets the gate placement source.
func WithRandom(r Random) Option {
	return func(s *Session) {
		if r != nil {
			s.scheduler.rng = r
		}
	}
}

// WithBestStore sets durable best-score storage.
func WithBestStore(b BestStore) Option {
	return func(s *Session) { s.bestStore = b }
}

// WithWallet sets durable coin storage.
func WithWallet(w Wallet) Option {
	return func(s *Session) { s.wallet = w }
}

// WithRunRecorder sets run history storage.
func WithRunRecorder(r RunRecorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithNotifier adds an event listener. May be given more than once.
func WithNotifier(n Notifier) Option {
	return func(s *Session) {
		if n == nil {
			return
		}
		if s.notifier == nil {
			s.notifier = n
			return
		}
		if m, ok := s.notifier.(multiNotifier); ok {
			s.notifier = append(m, n)
			return
		}
		s.notifier = multiNotifier{s.notifier, n}
	}
}

// WithLogger sets the logger used for absorbed failures.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSession creates an idle session. Unless WithRandom is given, gates are
// placed from a source seeded with the current time. The config is
// normalized first; every replaced constant is logged as a warning.
func NewSession(cfg config.Config, opts ...Option) *Session {
	warnings := cfg.Normalize()
	s := &Session{
		cfg:       cfg,
		frame:     cfg.Clock.FrameDuration(),
		scheduler: NewScheduler(cfg, NewRandom(time.Now().UnixNano())),
		flyer:     SpawnFlyer(cfg),
		state:     StateIdle,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, w := range warnings {
		s.logger.Warn("config", "warning", w)
	}
	return s
}

// Load reads the best score and the coin balance once. Failures are logged
// and returned; the session stays usable with zero values.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return nil
	}
	s.loaded = true

	var errs []error
	if s.bestStore != nil {
		best, err := s.bestStore.LoadBest(ctx)
		if err != nil {
			s.logger.Warn("could not load best score", "error", err)
			errs = append(errs, fmt.Errorf("load best: %w", err))
		} else {
			s.best = best
		}
	}
	if s.wallet != nil {
		coins, err := s.wallet.LoadCoins(ctx)
		if err != nil {
			s.logger.Warn("could not load coins", "error", err)
			errs = append(errs, fmt.Errorf("load coins: %w", err))
		} else {
			s.coins = coins
		}
	}
	return errors.Join(errs...)
}

// Start begins a run from Idle. Returns false in any other state.
func (s *Session) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return false
	}
	s.beginRun()
	return true
}

// Flap applies the upward impulse while running. In Idle it starts the run
// and applies the impulse on the same input. Elsewhere it is ignored.
func (s *Session) Flap() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flap()
}

func (s *Session) flap() bool {
	switch s.state {
	case StateIdle:
		s.beginRun()
	case StateRunning:
	default:
		return false
	}
	s.flyer.Flap(s.cfg.Physics.Impulse)
	return true
}

// Restart starts a fresh run from Ended. Restarting while a continuation is
// in flight cancels it; a late outcome for that request is ignored.
// From Idle it behaves like Start.
func (s *Session) Restart() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restart()
}

func (s *Session) restart() bool {
	switch s.state {
	case StateIdle, StateEnded:
	case StateAwaitingReward:
		s.logger.Debug("restart cancels pending continuation", "ticket", s.pending.ID)
		s.pending = nil
	default:
		return false
	}
	s.beginRun()
	return true
}

// beginRun resets the run: score zeroed, gates cleared, flyer at spawn pose.
func (s *Session) beginRun() {
	s.generation++
	s.score = 0
	s.continues = 0
	s.ticks = 0
	s.reason = EndNone
	s.message = ""
	s.spawnWarned = false
	s.flyer = SpawnFlyer(s.cfg)
	s.scheduler.Reset()
	if s.pending != nil && s.pending.Kind == RewardContinue {
		s.pending = nil
	}
	s.setState(StateRunning)
	s.emit(EventScoreChanged)
}

// Step applies the actions queued since the last tick, then runs one tick.
// Only flap and restart are handled here; reward requests are asynchronous.
func (s *Session) Step(in core.InputFrame, dt time.Duration) StepResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if in.Has(core.ActionRestart) {
		s.restart()
	}
	if in.Has(core.ActionFlap) {
		s.flap()
	}
	return s.tick(dt)
}

// Tick runs one simulation update with the given dt. It does nothing
// unless the session is running.
func (s *Session) Tick(dt time.Duration) StepResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick(dt)
}

func (s *Session) tick(dt time.Duration) StepResult {
	if s.state != StateRunning || dt <= 0 {
		return StepResult{State: s.state}
	}
	units := clock.Units(dt, s.frame)
	s.ticks++

	s.flyer.Integrate(s.cfg.Physics, units)
	if reason := CheckBounds(&s.flyer, s.cfg.World, s.cfg.Rules.Ceiling); reason != EndNone {
		s.end(reason)
		return StepResult{State: s.state, Ended: true}
	}

	if err := s.scheduler.Advance(dt, units, s.cfg.Speed.At(s.score)); err != nil && !s.spawnWarned {
		s.spawnWarned = true
		s.logger.Warn("gate spawn refused", "error", err)
	}

	if AnyCollision(s.flyer.Circle(), s.scheduler.gates, s.cfg.World.Height) {
		s.end(EndGate)
		return StepResult{State: s.state, Ended: true}
	}

	scored := ScorePassed(s.scheduler.gates, s.flyer.X)
	if scored > 0 {
		s.score += scored
		s.emit(EventScoreChanged)
	}
	return StepResult{State: s.state, Scored: scored}
}

// end performs the Running -> Ended transition.
func (s *Session) end(reason EndReason) {
	s.reason = reason
	s.setState(StateEnded)

	if s.score > s.best {
		s.best = s.score
		if s.bestStore != nil {
			if err := s.bestStore.PersistBest(context.Background(), s.best); err != nil {
				s.logger.Warn("could not persist best score", "score", s.best, "error", err)
			}
		}
	}
	if s.recorder != nil {
		run := RunRecord{Score: s.score, Continues: s.continues, Reason: reason, Ticks: s.ticks}
		if err := s.recorder.RecordRun(context.Background(), run); err != nil {
			s.logger.Warn("could not record run", "error", err)
		}
	}
	s.logger.Debug("run ended", "score", s.score, "best", s.best, "reason", reason)
	s.emit(EventRunEnded)
}

func (s *Session) setState(st State) {
	if s.state == st {
		return
	}
	s.state = st
	s.emit(EventStateChanged)
}

func (s *Session) emit(kind EventKind) {
	if s.notifier == nil {
		return
	}
	evt := Event{
		Kind:  kind,
		State: s.state,
		Score: s.score,
		Best:  s.best,
		Coins: s.coins,
	}
	switch kind {
	case EventRunEnded:
		evt.Reason = s.reason
	case EventContinuationDenied, EventRewardDenied:
		evt.Message = s.message
	}
	s.notifier.Notify(evt)
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns a copy of the session for rendering.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		State:     s.state,
		Score:     s.score,
		Best:      s.best,
		Coins:     s.coins,
		Continues: s.continues,
		Flyer:     s.flyer,
		Gates:     s.scheduler.Gates(),
		Speed:     s.cfg.Speed.At(s.score),
		EndReason: s.reason,
		Message:   s.message,
		World:     s.cfg.World,
		MenuBonus: s.cfg.Continue.MenuBonusCoins,
	}
	if s.cfg.Speed.Enabled() {
		snap.TopSpeed = s.cfg.Speed.Max()
	}
	if s.pending != nil {
		t := *s.pending
		snap.Pending = &t
	}
	return snap
}

// Config returns the configuration the session runs with.
func (s *Session) Config() config.Config {
	return s.cfg
}
