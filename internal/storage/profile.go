package storage

import (
	"context"

	"github.com/vovakirdan/tui-flappy/internal/game"
)

// Profile binds a Store to one player so it can back a game.Session.
type Profile struct {
	store  *Store
	player string
}

// Profile returns the per-player adapter. An empty name maps to DefaultPlayer.
func (s *Store) Profile(player string) *Profile {
	if player == "" {
		player = DefaultPlayer
	}
	return &Profile{store: s, player: player}
}

// Player returns the player name.
func (p *Profile) Player() string {
	return p.player
}

// LoadBest implements game.BestStore.
func (p *Profile) LoadBest(ctx context.Context) (int, error) {
	return p.store.BestScore(ctx, p.player)
}

// PersistBest implements game.BestStore.
func (p *Profile) PersistBest(ctx context.Context, score int) error {
	_, err := p.store.SetBestScore(ctx, p.player, score)
	return err
}

// LoadCoins implements game.Wallet.
func (p *Profile) LoadCoins(ctx context.Context) (int, error) {
	return p.store.Coins(ctx, p.player)
}

// AddCoins implements game.Wallet.
func (p *Profile) AddCoins(ctx context.Context, delta int) (int, error) {
	return p.store.AddCoins(ctx, p.player, delta)
}

// RecordRun implements game.RunRecorder.
func (p *Profile) RecordRun(ctx context.Context, run game.RunRecord) error {
	_, err := p.store.SaveRun(ctx, ScoreEntry{
		Player:    p.player,
		Score:     run.Score,
		Continues: run.Continues,
		EndReason: run.Reason.String(),
		Ticks:     run.Ticks,
	})
	return err
}

// Options returns the session options that wire this profile in.
func (p *Profile) Options() []game.Option {
	return []game.Option{
		game.WithBestStore(p),
		game.WithWallet(p),
		game.WithRunRecorder(p),
	}
}

var (
	_ game.BestStore   = (*Profile)(nil)
	_ game.Wallet      = (*Profile)(nil)
	_ game.RunRecorder = (*Profile)(nil)
)
