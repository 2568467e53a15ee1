// Package daemon runs the per-window tray daemon: one process per minimized
// window, alive until the window is restored, closed, or found gone.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/hyprmin-io/hyprmin/internal/config"
	"github.com/hyprmin-io/hyprmin/internal/daemon/tray"
	"github.com/hyprmin-io/hyprmin/internal/hypr"
	"github.com/hyprmin-io/hyprmin/internal/stack"
)

// State of the per-window lifecycle.
type State int

const (
	StateRegistering State = iota
	StateActive
	StateRestoring
	StateClosing
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateRegistering:
		return "registering"
	case StateActive:
		return "active"
	case StateRestoring:
		return "restoring"
	case StateClosing:
		return "closing"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Notifier is the tray registration the daemon listens on.
type Notifier interface {
	Events() <-chan tray.Event
	Close()
}

// RegisterFunc publishes the notifier item. Injected so tests can run the
// state machine without a session bus.
type RegisterFunc func(ctx context.Context, title, class string, workspaceID int) (Notifier, error)

// Daemon drives the state machine for one minimized window.
type Daemon struct {
	cfg    *config.Config
	store  *stack.Store
	client *hypr.Client
	rec    stack.Record
	log    zerolog.Logger

	register     RegisterFunc
	pollInterval time.Duration

	state         State
	recordRemoved bool
}

// New creates a daemon for the given record.
func New(cfg *config.Config, store *stack.Store, client *hypr.Client, rec stack.Record, log zerolog.Logger) *Daemon {
	return &Daemon{
		cfg:    cfg,
		store:  store,
		client: client,
		rec:    rec,
		log:    log.With().Str("address", rec.Address).Logger(),
		register: func(ctx context.Context, title, class string, workspaceID int) (Notifier, error) {
			return tray.Register(ctx, title, class, workspaceID)
		},
		pollInterval: time.Duration(cfg.PollIntervalSeconds) * time.Second,
		state:        StateRegistering,
	}
}

// Run executes the lifecycle until a terminal transition. The context
// carries the signal-triggered shutdown: cancellation restores the window to
// its original workspace before exiting.
func (d *Daemon) Run(ctx context.Context) error {
	d.claimRecord()

	notifier, err := d.register(ctx, d.rec.Title, d.rec.Class, d.rec.Workspace)
	if err != nil {
		// The minimize operation must not leave an orphaned record when the
		// tray cannot be created: put the window back and clean up.
		d.log.Error().Err(err).Msg("tray registration failed, restoring window")
		if moveErr := d.client.MoveToWorkspace(ctx, d.rec.Workspace, d.rec.Address); moveErr != nil {
			d.log.Error().Err(moveErr).Msg("failed to restore window after registration failure")
		}
		d.removeRecord()
		d.setState(StateTerminated)
		return err
	}
	defer notifier.Close()

	d.setState(StateActive)
	d.log.Info().Str("title", d.rec.Title).Int("workspace", d.rec.Workspace).
		Msg("window minimized to tray")

	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	stackEvents, stopWatch := d.watchStackFile()
	defer stopWatch()

	for d.state == StateActive {
		select {
		case <-ctx.Done():
			d.log.Info().Msg("shutdown requested, restoring window")
			d.restore(context.Background(), d.rec.Workspace)

		case ev, ok := <-notifier.Events():
			if !ok {
				d.setState(StateTerminated)
				break
			}
			d.handleTrayEvent(ctx, ev)

		case <-ticker.C:
			d.handleTick(ctx)

		case <-stackEvents:
			if d.recordGone() {
				// A restore invocation already popped the record and owns
				// the window move; just withdraw the icon.
				d.log.Info().Msg("record removed by another process")
				d.recordRemoved = true
				d.setState(StateTerminated)
			}
		}
	}

	d.log.Info().Msg("exiting")
	return nil
}

// claimRecord takes ownership of the record the minimize invocation pushed.
// A missing record means another process already restored the window; the
// reconciliation loop will notice and exit.
func (d *Daemon) claimRecord() {
	d.rec.OwnerPID = os.Getpid()
	claimed, err := d.store.Claim(d.rec.Address, d.rec.OwnerPID)
	if err != nil {
		d.log.Error().Err(err).Msg("failed to claim stack record")
		return
	}
	if !claimed {
		d.log.Warn().Msg("stack record missing at startup")
	}
}

func (d *Daemon) handleTrayEvent(ctx context.Context, ev tray.Event) {
	d.log.Debug().Stringer("event", ev).Msg("tray event")

	switch ev {
	case tray.EventActivate:
		target, err := d.resolveTarget(ctx)
		if err != nil {
			d.log.Warn().Err(err).Msg("cannot resolve restore target, staying active")
			return
		}
		d.restore(ctx, target)

	case tray.EventRestoreOriginal:
		d.restore(ctx, d.rec.Workspace)

	case tray.EventClose:
		d.closeWindow(ctx)
	}
}

// handleTick reconciles against live compositor state. Transient failures
// are logged and retried on the next tick.
func (d *Daemon) handleTick(ctx context.Context) {
	if d.recordGone() {
		d.log.Info().Msg("record removed by another process")
		d.recordRemoved = true
		d.setState(StateTerminated)
		return
	}

	obs, err := d.observe(ctx)
	if err != nil {
		d.log.Warn().Err(err).Msg("poll failed, retrying next tick")
		return
	}

	switch Reconcile(obs, Policy{AutoUnminimizeOnFocus: d.cfg.AutoUnminimizeOnFocus}) {
	case ActionTerminate:
		d.log.Info().Bool("exists", obs.Exists).Msg("window left our control")
		d.removeRecord()
		d.setState(StateTerminated)

	case ActionRestore:
		target, err := d.resolveTarget(ctx)
		if err != nil {
			d.log.Warn().Err(err).Msg("cannot resolve restore target, staying active")
			return
		}
		d.restore(ctx, target)
	}
}

// observe gathers the reconciliation inputs in one pass over the client list.
func (d *Daemon) observe(ctx context.Context) (Observation, error) {
	ws, err := d.client.WindowWorkspace(ctx, d.rec.Address)
	if err != nil {
		return Observation{}, err
	}
	if ws == nil {
		return Observation{Exists: false}, nil
	}

	obs := Observation{Exists: true, OnHiddenWorkspace: ws.IsSpecial()}

	active, err := d.client.ActiveWindow(ctx)
	if err != nil && !errors.Is(err, hypr.ErrWindowNotFound) {
		return Observation{}, err
	}
	obs.Focused = active != nil && active.Address == d.rec.Address
	return obs, nil
}

// resolveTarget maps the restore_to policy to a workspace ID.
func (d *Daemon) resolveTarget(ctx context.Context) (int, error) {
	if d.cfg.RestoreTo == config.RestoreToOriginal {
		return d.rec.Workspace, nil
	}
	ws, err := d.client.ActiveWorkspace(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to query active workspace: %w", err)
	}
	return ws.ID, nil
}

// restore moves the window to the target workspace, focuses it, removes the
// record, and terminates.
func (d *Daemon) restore(ctx context.Context, workspaceID int) {
	d.setState(StateRestoring)

	if err := d.client.MoveToWorkspace(ctx, workspaceID, d.rec.Address); err != nil {
		d.log.Error().Err(err).Int("workspace", workspaceID).Msg("failed to move window")
	} else if err := d.client.FocusWindow(ctx, d.rec.Address); err != nil {
		d.log.Warn().Err(err).Msg("failed to focus restored window")
	}

	d.removeRecord()
	d.setState(StateTerminated)
}

// closeWindow asks the compositor to close the window, then cleans up.
func (d *Daemon) closeWindow(ctx context.Context) {
	d.setState(StateClosing)

	if err := d.client.CloseWindow(ctx, d.rec.Address); err != nil {
		d.log.Error().Err(err).Msg("failed to close window")
	}

	d.removeRecord()
	d.setState(StateTerminated)
}

// removeRecord removes this daemon's stack record exactly once. A record
// already removed by another path is success, not an error.
func (d *Daemon) removeRecord() {
	if d.recordRemoved {
		return
	}
	d.recordRemoved = true

	removed, err := d.store.Remove(d.rec.Address)
	if err != nil {
		d.log.Error().Err(err).Msg("failed to remove stack record")
		return
	}
	if !removed {
		d.log.Debug().Msg("record was already removed")
	}
}

func (d *Daemon) recordGone() bool {
	records, err := d.store.Snapshot()
	if err != nil {
		d.log.Warn().Err(err).Msg("failed to read stack")
		return false
	}
	for _, r := range records {
		if r.Address == d.rec.Address {
			return false
		}
	}
	return true
}

func (d *Daemon) setState(s State) {
	d.log.Debug().Stringer("from", d.state).Stringer("to", s).Msg("state transition")
	d.state = s
}

// watchStackFile delivers a signal whenever the stack file changes, so a CLI
// restore is noticed before the next poll tick. The parent directory is
// watched because the store replaces the file by rename.
func (d *Daemon) watchStackFile() (<-chan struct{}, func()) {
	events := make(chan struct{}, 1)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		d.log.Warn().Err(err).Msg("stack watch unavailable, relying on polling")
		return events, func() {}
	}
	if err := watcher.Add(filepath.Dir(d.store.Path())); err != nil {
		d.log.Warn().Err(err).Msg("stack watch unavailable, relying on polling")
		watcher.Close()
		return events, func() {}
	}

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Name != d.store.Path() {
					continue
				}
				select {
				case events <- struct{}{}:
				default:
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return events, func() { watcher.Close() }
}
