// Package tray publishes one StatusNotifierItem per minimized window on the
// session bus, with a com.canonical.dbusmenu context menu. The host (waybar
// or a desktop tray) calls back into the exported objects; everything the
// daemon needs to react to arrives on the Events channel.
package tray

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
)

// ErrRegistration means the notifier item could not be published or the
// StatusNotifierWatcher refused it. Fatal to the owning daemon only.
var ErrRegistration = errors.New("tray registration failed")

// Event is a user interaction delivered by the tray host.
type Event int

const (
	// EventActivate is the primary click or the "Open" menu entry; the
	// restore target follows the restore_to policy.
	EventActivate Event = iota

	// EventRestoreOriginal is the "Open on original workspace" menu entry.
	EventRestoreOriginal

	// EventClose is the "Close" menu entry or a middle click.
	EventClose
)

func (e Event) String() string {
	switch e {
	case EventActivate:
		return "activate"
	case EventRestoreOriginal:
		return "restore-original"
	case EventClose:
		return "close"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// Item is a live notifier-item registration for one window.
type Item struct {
	conn    *dbus.Conn
	busName string
	events  chan Event
	done    chan struct{}
}

// Register connects to the session bus, exports the notifier item and its
// menu, and registers with the StatusNotifierWatcher. The title and class
// come from the minimized window; workspaceID labels the
// "open on original workspace" menu entry.
func Register(ctx context.Context, title, class string, workspaceID int) (*Item, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("%w: session bus: %v", ErrRegistration, err)
	}

	item := &Item{
		conn:    conn,
		busName: fmt.Sprintf("org.kde.StatusNotifierItem.hyprmin.p%d", os.Getpid()),
		events:  make(chan Event, 4),
		done:    make(chan struct{}),
	}

	if err := item.export(title, class, workspaceID); err != nil {
		conn.Close()
		return nil, err
	}

	reply, err := conn.RequestName(item.busName, dbus.NameFlagDoNotQueue)
	if err != nil || reply != dbus.RequestNameReplyPrimaryOwner {
		conn.Close()
		return nil, fmt.Errorf("%w: could not own %s: %v", ErrRegistration, item.busName, err)
	}

	if err := item.registerWithWatcher(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	go item.watchForTrayRestarts()

	return item, nil
}

// Events returns the channel of host interactions.
func (i *Item) Events() <-chan Event {
	return i.events
}

// Close withdraws the registration and disconnects from the bus.
func (i *Item) Close() {
	close(i.done)
	i.conn.ReleaseName(i.busName)
	i.conn.Close()
}

func (i *Item) export(title, class string, workspaceID int) error {
	sni := &notifierItem{events: i.events}
	if err := i.conn.Export(sni, sniPath, sniInterface); err != nil {
		return fmt.Errorf("%w: export item: %v", ErrRegistration, err)
	}
	if _, err := prop.Export(i.conn, sniPath, itemProperties(title, class)); err != nil {
		return fmt.Errorf("%w: export item properties: %v", ErrRegistration, err)
	}

	menu := &dbusMenu{title: title, workspaceID: workspaceID, events: i.events}
	if err := i.conn.Export(menu, menuPath, menuInterface); err != nil {
		return fmt.Errorf("%w: export menu: %v", ErrRegistration, err)
	}
	if _, err := prop.Export(i.conn, menuPath, menuProperties()); err != nil {
		return fmt.Errorf("%w: export menu properties: %v", ErrRegistration, err)
	}

	// Some hosts introspect items before talking to them.
	i.conn.Export(introspect.Introspectable(sniIntrospectXML), sniPath,
		"org.freedesktop.DBus.Introspectable")
	i.conn.Export(introspect.Introspectable(menuIntrospectXML), menuPath,
		"org.freedesktop.DBus.Introspectable")

	return nil
}

// registerWithWatcher announces the item to the StatusNotifierWatcher so a
// host picks it up.
func (i *Item) registerWithWatcher(ctx context.Context) error {
	obj := i.conn.Object(watcherName, watcherPath)
	call := obj.CallWithContext(ctx, watcherInterface+".RegisterStatusNotifierItem", 0, i.busName)
	if call.Err != nil {
		return fmt.Errorf("%w: watcher: %v", ErrRegistration, call.Err)
	}
	return nil
}

// watchForTrayRestarts re-registers the item when the watcher name changes
// owner, which happens when the tray host restarts.
func (i *Item) watchForTrayRestarts() {
	err := i.conn.AddMatchSignal(
		dbus.WithMatchSender("org.freedesktop.DBus"),
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
		dbus.WithMatchArg(0, watcherName),
	)
	if err != nil {
		return
	}

	signals := make(chan *dbus.Signal, 8)
	i.conn.Signal(signals)

	for {
		select {
		case <-i.done:
			return
		case sig, ok := <-signals:
			if !ok {
				return
			}
			if len(sig.Body) != 3 {
				continue
			}
			newOwner, _ := sig.Body[2].(string)
			if newOwner == "" {
				continue
			}
			// Give the fresh host a moment to finish starting up.
			time.Sleep(100 * time.Millisecond)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = i.registerWithWatcher(ctx)
			cancel()
		}
	}
}
