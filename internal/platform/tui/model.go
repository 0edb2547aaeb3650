package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/clock"
	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/game"
	"github.com/vovakirdan/tui-flappy/internal/reward"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

// flashDuration is how long a transient message stays on screen.
const flashDuration = 2 * time.Second

// Options configures a game Model.
type Options struct {
	// Store persists best score, coins and runs. May be nil.
	Store *storage.Store
	// Player names the storage profile. Empty means storage.DefaultPlayer.
	Player string
	// Provider answers reward requests. Nil means rewards are unavailable.
	Provider reward.Provider
	// Seed for gate placement. Zero picks a time-based seed.
	Seed int64
	// FPS is the redraw rate. Zero uses the nominal frame rate. Physics
	// speed does not depend on it.
	FPS int
	// Width and Height are the initial terminal size.
	Width, Height int
	// ScreenshotDir receives ctrl+s dumps. Empty disables screenshots.
	ScreenshotDir string
	// Logger receives session diagnostics. Nil discards them.
	Logger *log.Logger
	// Clock times flash messages. Nil uses the system clock.
	Clock clock.Clock
}

// rewardMsg carries the result of an asynchronous reward request.
type rewardMsg struct {
	ticket  game.Ticket
	outcome reward.Outcome
	applied bool
}

// Model is the Bubble Tea model for one player's game.
type Model struct {
	session       *game.Session
	events        *game.ChannelNotifier
	stepper       *clock.Stepper
	screen        *core.Screen
	keys          GameKeyMap
	help          help.Model
	store         *storage.Store
	player        string
	provider      reward.Provider
	rewardTimeout time.Duration
	tickInterval  time.Duration
	screenshotDir string
	logger        *log.Logger
	clock         clock.Clock

	pending    core.InputFrame
	lastState  game.State
	lastCoins  int
	flash      string
	flashUntil time.Time

	scores   *ScoreboardModel
	width    int
	height   int
	quitting bool
}

// NewModel creates a game model and the session it drives. Stored best score
// and coins are loaded before the first frame; a storage failure is logged and
// the game starts from zero.
func NewModel(cfg config.Config, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.System{}
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	events := game.NewChannelNotifier(0)
	sessionOpts := []game.Option{
		game.WithRandom(game.NewRandom(seed)),
		game.WithNotifier(events),
		game.WithLogger(logger),
	}
	player := opts.Player
	if opts.Store != nil {
		profile := opts.Store.Profile(player)
		player = profile.Player()
		sessionOpts = append(sessionOpts, profile.Options()...)
	}

	session := game.NewSession(cfg, sessionOpts...)
	cfg = session.Config()
	//nolint:errcheck // Logged by the session, the game runs without storage
	session.Load(context.Background())

	h := help.New()
	h.ShowAll = false
	h.Width = opts.Width

	stepper := clock.NewStepper(cfg.Clock)
	interval := stepper.FrameDuration()
	if opts.FPS > 0 {
		interval = time.Second / time.Duration(opts.FPS)
	}

	m := Model{
		session:       session,
		events:        events,
		stepper:       stepper,
		screen:        core.NewScreen(opts.Width, max(opts.Height-1, 0)),
		keys:          DefaultGameKeyMap(),
		help:          h,
		store:         opts.Store,
		player:        player,
		provider:      opts.Provider,
		rewardTimeout: cfg.Continue.RewardTimeout,
		tickInterval:  interval,
		screenshotDir: opts.ScreenshotDir,
		logger:        logger,
		clock:         clk,
		pending:       core.NewInputFrame(),
		lastState:     session.State(),
		lastCoins:     session.Snapshot().Coins,
		width:         opts.Width,
		height:        opts.Height,
	}
	return m
}

// Session returns the session the model drives.
func (m Model) Session() *game.Session {
	return m.session
}

// Init starts the frame ticker.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.tickInterval)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))

	case rewardMsg:
		m.handleReward(msg)
		return m, nil

	case tea.KeyMsg:
		if m.scores != nil {
			return m.updateScores(msg)
		}
		return m.handleKey(msg)
	}

	if m.scores != nil {
		return m.updateScores(msg)
	}
	return m, nil
}

// handleKey processes keyboard input. Flap and restart are queued for the
// next tick; reward requests start immediately and resolve off the UI loop.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, m.keys.Scores):
		return m.openScores()
	}

	switch m.keys.Action(msg) {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionFlap:
		m.pending.Set(core.ActionFlap)
	case core.ActionRestart:
		if m.session.State() == game.StateAwaitingReward {
			// Applied at once so a slow provider cannot hold the player.
			m.session.Restart()
			return m, nil
		}
		m.pending.Set(core.ActionRestart)
	case core.ActionContinue:
		t, err := m.session.BeginContinue()
		if err != nil {
			m.setFlash(continueRefusal(err))
			return m, nil
		}
		return m, m.redeemCmd(t)
	case core.ActionReward:
		t, err := m.session.BeginMenuReward()
		if err != nil {
			if errors.Is(err, game.ErrRewardPending) {
				m.setFlash("Reward already requested")
			}
			return m, nil
		}
		return m, m.redeemCmd(t)
	}
	return m, nil
}

// redeemCmd resolves a reward ticket in a command goroutine.
func (m Model) redeemCmd(t game.Ticket) tea.Cmd {
	session, provider, timeout := m.session, m.provider, m.rewardTimeout
	return func() tea.Msg {
		outcome, applied := session.Redeem(context.Background(), t, provider, timeout)
		return rewardMsg{ticket: t, outcome: outcome, applied: applied}
	}
}

func (m *Model) handleReward(msg rewardMsg) {
	m.logger.Debug("reward resolved",
		"kind", msg.ticket.Kind,
		"outcome", msg.outcome,
		"applied", msg.applied,
	)
	m.drainEvents()
}

// handleTick runs the simulation for one host frame.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.session.State() != game.StateRunning {
		// Inputs outside a run (first flap, restart) apply without a dt.
		m.session.Step(m.pending, 0)
		m.pending.Clear()
	}

	state := m.session.State()
	switch {
	case state == game.StateRunning && m.lastState != game.StateRunning:
		m.stepper.Reset(now)
	case state == game.StateRunning:
		m.stepper.Frame(now, func(dt time.Duration) {
			m.session.Step(m.pending, dt)
			m.pending.Clear()
		})
	}
	m.lastState = m.session.State()

	m.drainEvents()
	return m, tickCmd(m.tickInterval)
}

// drainEvents turns queued session events into flash messages.
func (m *Model) drainEvents() {
	for {
		select {
		case evt := <-m.events.Events():
			m.handleEvent(evt)
		default:
			return
		}
	}
}

func (m *Model) handleEvent(evt game.Event) {
	switch evt.Kind {
	case game.EventCoinsChanged:
		if gained := evt.Coins - m.lastCoins; gained > 0 {
			m.setFlash(fmt.Sprintf("+%d coins", gained))
		}
		m.lastCoins = evt.Coins
	case game.EventContinuationGranted:
		m.setFlash("Continue! Score kept")
	case game.EventRunEnded:
		if evt.Score > 0 && evt.Score == evt.Best {
			m.setFlash("New best!")
		}
	}
}

func (m *Model) setFlash(text string) {
	m.flash = text
	m.flashUntil = m.clock.Now().Add(flashDuration)
}

func continueRefusal(err error) string {
	switch {
	case errors.Is(err, game.ErrContinueLimit):
		return "No continues left this run"
	case errors.Is(err, game.ErrRewardPending):
		return "Reward already requested"
	default:
		return ""
	}
}

// handleResize processes window resize events.
// The world is scaled to the screen, so the run is not reset.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.screen.Resize(msg.Width, max(msg.Height-1, 0))
	m.help.Width = msg.Width

	if m.scores != nil {
		return m.updateScores(msg)
	}
	return m, nil
}

// openScores shows the scoreboard unless a run is in progress.
func (m Model) openScores() (tea.Model, tea.Cmd) {
	if m.store == nil || m.session.State() == game.StateRunning {
		return m, nil
	}
	sb := NewScoreboardModel(m.store, m.width, m.height)
	sb.embedded = true
	sb.selectPlayer(m.player)
	m.scores = &sb
	return m, nil
}

func (m Model) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scores.Update(msg)
	sb, ok := next.(ScoreboardModel)
	if !ok {
		return m, cmd
	}
	switch {
	case sb.IsQuitting():
		m.quitting = true
		m.scores = nil
		return m, tea.Quit
	case sb.IsGoingBack():
		m.scores = nil
		return m, nil
	}
	m.scores = &sb
	return m, cmd
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	if m.screenshotDir == "" {
		return
	}
	Draw(m.screen, m.session.Snapshot())

	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(m.screenshotDir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(m.screenshotDir, fmt.Sprintf("flappy_%s.txt", timestamp))

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "path", path, "error", err)
		return
	}
	m.setFlash("Screenshot saved")
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.scores != nil {
		return m.scores.View()
	}

	Draw(m.screen, m.session.Snapshot())
	if m.flash != "" && m.clock.Now().Before(m.flashUntil) {
		x := (m.screen.Width() - len([]rune(m.flash))) / 2
		m.screen.DrawTextColored(x, 2, m.flash, core.ColorCoins)
	}

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// Run starts the Bubble Tea program for a local game.
func Run(cfg config.Config, opts Options) error {
	model := NewModel(cfg, opts)
	defer model.events.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
