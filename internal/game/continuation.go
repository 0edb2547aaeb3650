package game

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/reward"
)

// RewardKind tells what a reward request is for.
type RewardKind int

const (
	RewardContinue RewardKind = iota // Resume the ended run
	RewardMenu                       // Bonus coins, no run change
)

func (k RewardKind) String() string {
	if k == RewardMenu {
		return "menu"
	}
	return "continue"
}

// Ticket identifies one outstanding reward request. Only the most recently
// issued ticket can complete, and a continue ticket only for the run it was
// issued in.
type Ticket struct {
	ID         uuid.UUID
	Generation uint64
	Kind       RewardKind
}

// BeginContinue issues a continuation request from Ended and moves the session
// to AwaitingReward. The caller resolves the request and hands the outcome to
// CompleteReward.
func (s *Session) BeginContinue() (Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		return Ticket{}, ErrRewardPending
	}
	if s.state != StateEnded {
		return Ticket{}, ErrNotEnded
	}
	if limit := s.cfg.Continue.MaxPerRun; limit > 0 && s.continues >= limit {
		return Ticket{}, ErrContinueLimit
	}

	t := Ticket{ID: uuid.New(), Generation: s.generation, Kind: RewardContinue}
	s.pending = &t
	s.message = ""
	s.setState(StateAwaitingReward)
	s.logger.Debug("continuation requested", "ticket", t.ID, "score", s.score)
	return t, nil
}

// BeginMenuReward issues a coin-bonus request. Allowed in Idle and Ended;
// the session state does not change.
func (s *Session) BeginMenuReward() (Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		return Ticket{}, ErrRewardPending
	}
	if s.state != StateIdle && s.state != StateEnded {
		return Ticket{}, ErrRewardUnavailableState
	}

	t := Ticket{ID: uuid.New(), Generation: s.generation, Kind: RewardMenu}
	s.pending = &t
	s.message = ""
	s.logger.Debug("menu reward requested", "ticket", t.ID)
	return t, nil
}

// CompleteReward applies the outcome of a request. Stale tickets (superseded,
// or issued for a run that has since been restarted) are ignored and false is
// returned. Each ticket completes at most once.
func (s *Session) CompleteReward(t Ticket, outcome reward.Outcome) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil || s.pending.ID != t.ID {
		s.logger.Debug("ignoring stale reward outcome", "ticket", t.ID, "outcome", outcome)
		return false
	}
	if t.Kind == RewardContinue && (t.Generation != s.generation || s.state != StateAwaitingReward) {
		s.logger.Debug("ignoring reward outcome for a finished run", "ticket", t.ID, "outcome", outcome)
		s.pending = nil
		return false
	}
	s.pending = nil

	switch t.Kind {
	case RewardMenu:
		if outcome != reward.Granted {
			s.message = deniedMessage(outcome)
			s.emit(EventRewardDenied)
			return true
		}
		s.credit(s.cfg.Continue.MenuBonusCoins)
	default:
		if outcome != reward.Granted {
			s.message = deniedMessage(outcome)
			s.setState(StateEnded)
			s.emit(EventContinuationDenied)
			return true
		}
		s.credit(s.cfg.Continue.BonusCoins)
		s.resume()
	}
	return true
}

// Redeem resolves t against the provider and applies the outcome. Blocks
// until the provider answers or the timeout passes; run it off the UI thread.
func (s *Session) Redeem(ctx context.Context, t Ticket, p reward.Provider, timeout time.Duration) (reward.Outcome, bool) {
	outcome := reward.Resolve(ctx, p, timeout)
	return outcome, s.CompleteReward(t, outcome)
}

// resume performs the Ended -> Running continuation: score kept, flyer back
// at the spawn pose at rest, live gates handled per the gate policy.
func (s *Session) resume() {
	s.continues++
	s.flyer = SpawnFlyer(s.cfg)
	s.reason = EndNone

	cleared := 0
	switch s.cfg.Continue.GatePolicy {
	case config.GatesKeep:
	case config.GatesClearAll:
		cleared = s.scheduler.Clear()
	default:
		cleared = s.scheduler.ClearNear(s.flyer.X, s.cfg.Continue.SafetyMargin)
	}
	s.logger.Debug("continuation granted", "score", s.score, "continues", s.continues, "cleared", cleared)

	s.setState(StateRunning)
	s.emit(EventContinuationGranted)
}

// credit adds coins to the balance and persists them when a wallet is set.
func (s *Session) credit(amount int) {
	if amount <= 0 {
		return
	}
	s.coins += amount
	if s.wallet != nil {
		total, err := s.wallet.AddCoins(context.Background(), amount)
		if err != nil {
			s.logger.Warn("could not persist coins", "amount", amount, "error", err)
		} else {
			s.coins = total
		}
	}
	s.emit(EventCoinsChanged)
}

func deniedMessage(o reward.Outcome) string {
	if o == reward.Unavailable {
		return "No reward available right now"
	}
	return "Reward not completed"
}
