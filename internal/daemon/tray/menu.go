package tray

import (
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/prop"
)

const menuInterface = "com.canonical.dbusmenu"

// Menu item ids. Hosts click these back through Event.
const (
	menuIDRestore         = 1
	menuIDRestoreOriginal = 2
	menuIDClose           = 3
)

// layoutNode is the (ia{sv}av) node of com.canonical.dbusmenu.
type layoutNode struct {
	ID       int32
	Props    map[string]dbus.Variant
	Children []dbus.Variant
}

// idProps pairs an item id with its properties for GetGroupProperties.
type idProps struct {
	ID    int32
	Props map[string]dbus.Variant
}

// menuEvent is one element of an EventGroup batch.
type menuEvent struct {
	ID        int32
	EventID   string
	Data      dbus.Variant
	Timestamp uint32
}

// dbusMenu exports the context menu of one minimized window.
type dbusMenu struct {
	title       string
	workspaceID int
	events      chan<- Event
}

func (m *dbusMenu) label(id int32) (string, bool) {
	switch id {
	case menuIDRestore:
		return fmt.Sprintf("Open %s", m.title), true
	case menuIDRestoreOriginal:
		return fmt.Sprintf("Open on original workspace (%d)", m.workspaceID), true
	case menuIDClose:
		return fmt.Sprintf("Close %s", m.title), true
	default:
		return "", false
	}
}

func (m *dbusMenu) itemProps(id int32) map[string]dbus.Variant {
	label, _ := m.label(id)
	return map[string]dbus.Variant{
		"type":    dbus.MakeVariant("standard"),
		"label":   dbus.MakeVariant(label),
		"enabled": dbus.MakeVariant(true),
		"visible": dbus.MakeVariant(true),
	}
}

// GetLayout returns the full menu tree: a root with the three actions.
func (m *dbusMenu) GetLayout(parentID, recursionDepth int32, propertyNames []string) (uint32, layoutNode, *dbus.Error) {
	children := make([]dbus.Variant, 0, 3)
	for _, id := range []int32{menuIDRestore, menuIDRestoreOriginal, menuIDClose} {
		children = append(children, dbus.MakeVariant(layoutNode{
			ID:    id,
			Props: m.itemProps(id),
		}))
	}

	root := layoutNode{
		ID: 0,
		Props: map[string]dbus.Variant{
			"children-display": dbus.MakeVariant("submenu"),
		},
		Children: children,
	}
	return 2, root, nil
}

// GetGroupProperties returns properties for the requested item ids.
func (m *dbusMenu) GetGroupProperties(ids []int32, propertyNames []string) ([]idProps, *dbus.Error) {
	result := make([]idProps, 0, len(ids))
	for _, id := range ids {
		if _, ok := m.label(id); !ok {
			continue
		}
		result = append(result, idProps{ID: id, Props: m.itemProps(id)})
	}
	return result, nil
}

// GetProperty returns a single property of a single item.
func (m *dbusMenu) GetProperty(id int32, name string) (dbus.Variant, *dbus.Error) {
	props := m.itemProps(id)
	v, ok := props[name]
	if !ok {
		return dbus.Variant{}, dbus.MakeFailedError(fmt.Errorf("unknown property %q", name))
	}
	return v, nil
}

// Event handles a single click on a menu item.
func (m *dbusMenu) Event(id int32, eventID string, data dbus.Variant, timestamp uint32) *dbus.Error {
	if eventID != "clicked" {
		return nil
	}

	switch id {
	case menuIDRestore:
		sendEvent(m.events, EventActivate)
	case menuIDRestoreOriginal:
		sendEvent(m.events, EventRestoreOriginal)
	case menuIDClose:
		sendEvent(m.events, EventClose)
	}
	return nil
}

// EventGroup handles a batch of click events; it returns the ids it did not
// recognize, per the dbusmenu contract.
func (m *dbusMenu) EventGroup(events []menuEvent) ([]int32, *dbus.Error) {
	var unknown []int32
	for _, ev := range events {
		if _, ok := m.label(ev.ID); !ok && ev.ID != 0 {
			unknown = append(unknown, ev.ID)
			continue
		}
		m.Event(ev.ID, ev.EventID, ev.Data, ev.Timestamp)
	}
	return unknown, nil
}

// AboutToShow reports whether the layout needs refreshing; it never does.
func (m *dbusMenu) AboutToShow(id int32) (bool, *dbus.Error) {
	return false, nil
}

// AboutToShowGroup is the batched AboutToShow.
func (m *dbusMenu) AboutToShowGroup(ids []int32) ([]int32, []int32, *dbus.Error) {
	return nil, nil, nil
}

func menuProperties() map[string]map[string]*prop.Prop {
	return map[string]map[string]*prop.Prop{
		menuInterface: {
			"Version":       constProp(uint32(3)),
			"TextDirection": constProp("ltr"),
			"Status":        constProp("normal"),
			"IconThemePath": constProp([]string{}),
		},
	}
}
