package tray

import (
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/prop"
)

const (
	sniInterface = "org.kde.StatusNotifierItem"
	sniPath      = "/StatusNotifierItem"
	menuPath     = "/Menu"

	watcherName      = "org.kde.StatusNotifierWatcher"
	watcherPath      = "/StatusNotifierWatcher"
	watcherInterface = "org.kde.StatusNotifierWatcher"
)

// pixmap is the a(iiay) element of the SNI ToolTip property.
type pixmap struct {
	Width  int32
	Height int32
	Data   []byte
}

// toolTip is the (sa(iiay)ss) SNI ToolTip property.
type toolTip struct {
	IconName string
	Pixmaps  []pixmap
	Title    string
	Text     string
}

// notifierItem exports the org.kde.StatusNotifierItem methods. Hosts drive it
// entirely through method calls and the Properties interface.
type notifierItem struct {
	events chan<- Event
}

// Activate handles the primary tray-icon click: restore the window.
func (n *notifierItem) Activate(x, y int32) *dbus.Error {
	sendEvent(n.events, EventActivate)
	return nil
}

// SecondaryActivate handles the middle click: close the window.
func (n *notifierItem) SecondaryActivate(x, y int32) *dbus.Error {
	sendEvent(n.events, EventClose)
	return nil
}

// ContextMenu is a no-op; hosts that honor the Menu property render the
// dbusmenu themselves.
func (n *notifierItem) ContextMenu(x, y int32) *dbus.Error {
	return nil
}

// Scroll is part of the interface but has no meaning for a minimized window.
func (n *notifierItem) Scroll(delta int32, orientation string) *dbus.Error {
	return nil
}

// itemProperties builds the SNI property table. The icon and id are derived
// from the window class so desktop themes resolve the application icon.
func itemProperties(title, class string) map[string]map[string]*prop.Prop {
	return map[string]map[string]*prop.Prop{
		sniInterface: {
			"Category":   constProp("ApplicationStatus"),
			"Id":         constProp(class),
			"Title":      constProp(title),
			"Status":     constProp("Active"),
			"IconName":   constProp(class),
			"ItemIsMenu": constProp(false),
			"Menu":       constProp(dbus.ObjectPath(menuPath)),
			"ToolTip":    constProp(toolTip{Title: title}),
		},
	}
}

func constProp(v interface{}) *prop.Prop {
	return &prop.Prop{Value: v, Writable: false, Emit: prop.EmitFalse}
}

// sendEvent never blocks a D-Bus handler; a full channel means an event of
// the same batch is already pending and the daemon is about to exit anyway.
func sendEvent(ch chan<- Event, ev Event) {
	select {
	case ch <- ev:
	default:
	}
}
