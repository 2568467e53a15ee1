package tray

import (
	"testing"

	"github.com/godbus/dbus/v5"
)

func newTestMenu() (*dbusMenu, chan Event) {
	events := make(chan Event, 4)
	m := &dbusMenu{title: "Test Window", workspaceID: 7, events: events}
	return m, events
}

func TestMenuClickEvents(t *testing.T) {
	tests := []struct {
		name string
		id   int32
		want Event
	}{
		{name: "open", id: menuIDRestore, want: EventActivate},
		{name: "open on original workspace", id: menuIDRestoreOriginal, want: EventRestoreOriginal},
		{name: "close", id: menuIDClose, want: EventClose},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, events := newTestMenu()
			if derr := m.Event(tt.id, "clicked", dbus.MakeVariant(0), 0); derr != nil {
				t.Fatalf("Event: %v", derr)
			}
			select {
			case got := <-events:
				if got != tt.want {
					t.Errorf("event = %v, want %v", got, tt.want)
				}
			default:
				t.Fatal("no event delivered")
			}
		})
	}
}

func TestMenuIgnoresNonClickEvents(t *testing.T) {
	m, events := newTestMenu()
	if derr := m.Event(menuIDClose, "hovered", dbus.MakeVariant(0), 0); derr != nil {
		t.Fatalf("Event: %v", derr)
	}
	select {
	case got := <-events:
		t.Errorf("unexpected event %v for hover", got)
	default:
	}
}

func TestMenuLayout(t *testing.T) {
	m, _ := newTestMenu()

	revision, root, derr := m.GetLayout(0, -1, nil)
	if derr != nil {
		t.Fatalf("GetLayout: %v", derr)
	}
	if revision == 0 {
		t.Error("revision must be non-zero")
	}
	if root.ID != 0 || len(root.Children) != 3 {
		t.Fatalf("root = id %d with %d children, want id 0 with 3", root.ID, len(root.Children))
	}

	node, ok := root.Children[1].Value().(layoutNode)
	if !ok {
		t.Fatalf("child is %T, want layoutNode", root.Children[1].Value())
	}
	label, _ := node.Props["label"].Value().(string)
	if label != "Open on original workspace (7)" {
		t.Errorf("label = %q", label)
	}
}

func TestMenuGroupProperties(t *testing.T) {
	m, _ := newTestMenu()

	props, derr := m.GetGroupProperties([]int32{menuIDRestore, 99, menuIDClose}, nil)
	if derr != nil {
		t.Fatalf("GetGroupProperties: %v", derr)
	}
	if len(props) != 2 {
		t.Fatalf("returned %d items, want 2 (unknown id skipped)", len(props))
	}
	if props[0].ID != menuIDRestore || props[1].ID != menuIDClose {
		t.Errorf("ids = %d, %d", props[0].ID, props[1].ID)
	}
}

func TestEventGroupReportsUnknownIDs(t *testing.T) {
	m, events := newTestMenu()

	unknown, derr := m.EventGroup([]menuEvent{
		{ID: menuIDClose, EventID: "clicked"},
		{ID: 42, EventID: "clicked"},
	})
	if derr != nil {
		t.Fatalf("EventGroup: %v", derr)
	}
	if len(unknown) != 1 || unknown[0] != 42 {
		t.Errorf("unknown = %v, want [42]", unknown)
	}
	if len(events) != 1 {
		t.Errorf("%d events delivered, want 1", len(events))
	}
}
