package game

import "errors"

var (
	// ErrNotEnded is returned when a continuation is requested outside the ended state.
	ErrNotEnded = errors.New("game: run has not ended")
	// ErrRewardPending is returned while another reward request is outstanding.
	ErrRewardPending = errors.New("game: reward request already pending")
	// ErrContinueLimit is returned when the run used all its continuations.
	ErrContinueLimit = errors.New("game: no continuations left for this run")
	// ErrRewardUnavailableState is returned for menu rewards requested mid-run.
	ErrRewardUnavailableState = errors.New("game: rewards are not offered while running")
	// ErrDegenerateGap is returned when the gap cannot fit the viewport.
	ErrDegenerateGap = errors.New("game: gap does not fit the viewport")
	// ErrInvalidSpawnInterval is returned when the time rule has no positive interval.
	ErrInvalidSpawnInterval = errors.New("game: spawn interval must be positive")
)
