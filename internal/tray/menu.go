package tray

import (
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
)

// Menu item IDs. ID 0 is the dbusmenu root.
const (
	rootID      int32 = 0
	toggleID    int32 = 1
	separatorID int32 = 2
	quitID      int32 = 3
)

// menuLayout is the dbusmenu (ia{sv}av) layout node.
type menuLayout struct {
	ID         int32
	Properties map[string]dbus.Variant
	Children   []dbus.Variant
}

// menuItemProperties is one entry of GetGroupProperties' a(ia{sv}).
type menuItemProperties struct {
	ID         int32
	Properties map[string]dbus.Variant
}

// menu holds the menu state. It is guarded by the owning Tray's mutex.
type menu struct {
	label    string
	revision uint32
}

func newMenu(label string) *menu {
	return &menu{label: label, revision: 1}
}

func (m *menu) toggleLabel() string {
	return m.label
}

// setToggleLabel reports whether the label changed; a change bumps the
// layout revision.
func (m *menu) setToggleLabel(label string) bool {
	if label == m.label {
		return false
	}
	m.label = label
	m.revision++
	return true
}

// itemProperties returns the dbusmenu properties for id, or nil if no
// such item exists.
func (m *menu) itemProperties(id int32) map[string]dbus.Variant {
	switch id {
	case rootID:
		return map[string]dbus.Variant{
			"children-display": dbus.MakeVariant("submenu"),
		}
	case toggleID:
		return map[string]dbus.Variant{
			"label":   dbus.MakeVariant(m.label),
			"enabled": dbus.MakeVariant(true),
			"visible": dbus.MakeVariant(true),
		}
	case separatorID:
		return map[string]dbus.Variant{
			"type":    dbus.MakeVariant("separator"),
			"visible": dbus.MakeVariant(true),
		}
	case quitID:
		return map[string]dbus.Variant{
			"label":   dbus.MakeVariant("Exit"),
			"enabled": dbus.MakeVariant(true),
			"visible": dbus.MakeVariant(true),
		}
	default:
		return nil
	}
}

// layout builds the tree rooted at parentID. A depth of -1 means all
// levels; 0 means the node alone.
func (m *menu) layout(parentID, depth int32, names []string) (menuLayout, bool) {
	props := m.itemProperties(parentID)
	if props == nil {
		return menuLayout{}, false
	}

	node := menuLayout{
		ID:         parentID,
		Properties: filterProperties(props, names),
		Children:   []dbus.Variant{},
	}
	if parentID != rootID || depth == 0 {
		return node, true
	}

	for _, id := range []int32{toggleID, separatorID, quitID} {
		child, _ := m.layout(id, depth-1, names)
		node.Children = append(node.Children, dbus.MakeVariant(child))
	}
	return node, true
}

// filterProperties keeps only the requested names; an empty request
// keeps everything.
func filterProperties(props map[string]dbus.Variant, names []string) map[string]dbus.Variant {
	if len(names) == 0 {
		return props
	}
	out := make(map[string]dbus.Variant, len(names))
	for _, name := range names {
		if v, ok := props[name]; ok {
			out[name] = v
		}
	}
	return out
}

// menuAction is what a dbusmenu event resolves to.
type menuAction int

const (
	actionNone menuAction = iota
	actionTogglePause
	actionQuit
)

// actionFor maps a clicked item to its action. Only "clicked" events act.
func actionFor(id int32, eventID string) menuAction {
	if eventID != "clicked" {
		return actionNone
	}
	switch id {
	case toggleID:
		return actionTogglePause
	case quitID:
		return actionQuit
	default:
		return actionNone
	}
}

// menuObject carries the com.canonical.dbusmenu methods.
type menuObject struct {
	tray *Tray
}

// GetLayout returns the menu tree.
// D-Bus method: GetLayout(iias) -> (u(ia{sv}av))
func (o *menuObject) GetLayout(parentID, recursionDepth int32, propertyNames []string) (uint32, menuLayout, *dbus.Error) {
	o.tray.mu.Lock()
	defer o.tray.mu.Unlock()

	node, ok := o.tray.menu.layout(parentID, recursionDepth, propertyNames)
	if !ok {
		return 0, menuLayout{}, dbus.MakeFailedError(errUnknownItem(parentID))
	}
	return o.tray.menu.revision, node, nil
}

// GetGroupProperties returns properties for several items.
// D-Bus method: GetGroupProperties(aias) -> a(ia{sv})
func (o *menuObject) GetGroupProperties(ids []int32, propertyNames []string) ([]menuItemProperties, *dbus.Error) {
	o.tray.mu.Lock()
	defer o.tray.mu.Unlock()

	if len(ids) == 0 {
		ids = []int32{rootID, toggleID, separatorID, quitID}
	}
	out := make([]menuItemProperties, 0, len(ids))
	for _, id := range ids {
		props := o.tray.menu.itemProperties(id)
		if props == nil {
			continue
		}
		out = append(out, menuItemProperties{ID: id, Properties: filterProperties(props, propertyNames)})
	}
	return out, nil
}

// GetProperty returns one property of one item.
// D-Bus method: GetProperty(is) -> v
func (o *menuObject) GetProperty(id int32, name string) (dbus.Variant, *dbus.Error) {
	o.tray.mu.Lock()
	defer o.tray.mu.Unlock()

	props := o.tray.menu.itemProperties(id)
	if props == nil {
		return dbus.Variant{}, dbus.MakeFailedError(errUnknownItem(id))
	}
	v, ok := props[name]
	if !ok {
		return dbus.Variant{}, dbus.MakeFailedError(errUnknownProperty(name))
	}
	return v, nil
}

// Event handles a user interaction with an item.
// D-Bus method: Event(isvu)
func (o *menuObject) Event(id int32, eventID string, data dbus.Variant, timestamp uint32) *dbus.Error {
	o.tray.logger.Debug("menu event", "id", id, "event", eventID)
	o.tray.dispatch(actionFor(id, eventID))
	return nil
}

// EventGroup handles several events at once.
// D-Bus method: EventGroup(a(isvu)) -> ai
func (o *menuObject) EventGroup(events []menuEvent) ([]int32, *dbus.Error) {
	var unknown []int32
	for _, ev := range events {
		o.tray.mu.Lock()
		known := o.tray.menu.itemProperties(ev.ID) != nil
		o.tray.mu.Unlock()
		if !known {
			unknown = append(unknown, ev.ID)
			continue
		}
		o.tray.dispatch(actionFor(ev.ID, ev.EventID))
	}
	return unknown, nil
}

// AboutToShow reports whether the host must refetch the layout.
// D-Bus method: AboutToShow(i) -> b
func (o *menuObject) AboutToShow(id int32) (bool, *dbus.Error) {
	return false, nil
}

// AboutToShowGroup is the batched AboutToShow.
// D-Bus method: AboutToShowGroup(ai) -> (aiai)
func (o *menuObject) AboutToShowGroup(ids []int32) ([]int32, []int32, *dbus.Error) {
	return []int32{}, []int32{}, nil
}

// menuEvent is one entry of EventGroup's a(isvu).
type menuEvent struct {
	ID        int32
	EventID   string
	Data      dbus.Variant
	Timestamp uint32
}

func (t *Tray) dispatch(action menuAction) {
	switch action {
	case actionTogglePause:
		t.togglePause()
	case actionQuit:
		t.quit()
	}
}

func menuProperties() map[string]*prop.Prop {
	ro := func(v any) *prop.Prop {
		return &prop.Prop{Value: v, Writable: false, Emit: prop.EmitTrue}
	}
	return map[string]*prop.Prop{
		"Version":       ro(uint32(3)),
		"TextDirection": ro("ltr"),
		"Status":        ro("normal"),
		"IconThemePath": ro([]string{}),
	}
}

// menuMethods returns the dbusmenu method introspection data.
func menuMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "GetLayout",
			Args: []introspect.Arg{
				{Name: "parentId", Type: "i", Direction: "in"},
				{Name: "recursionDepth", Type: "i", Direction: "in"},
				{Name: "propertyNames", Type: "as", Direction: "in"},
				{Name: "revision", Type: "u", Direction: "out"},
				{Name: "layout", Type: "(ia{sv}av)", Direction: "out"},
			},
		},
		{
			Name: "GetGroupProperties",
			Args: []introspect.Arg{
				{Name: "ids", Type: "ai", Direction: "in"},
				{Name: "propertyNames", Type: "as", Direction: "in"},
				{Name: "properties", Type: "a(ia{sv})", Direction: "out"},
			},
		},
		{
			Name: "GetProperty",
			Args: []introspect.Arg{
				{Name: "id", Type: "i", Direction: "in"},
				{Name: "name", Type: "s", Direction: "in"},
				{Name: "value", Type: "v", Direction: "out"},
			},
		},
		{
			Name: "Event",
			Args: []introspect.Arg{
				{Name: "id", Type: "i", Direction: "in"},
				{Name: "eventId", Type: "s", Direction: "in"},
				{Name: "data", Type: "v", Direction: "in"},
				{Name: "timestamp", Type: "u", Direction: "in"},
			},
		},
		{
			Name: "EventGroup",
			Args: []introspect.Arg{
				{Name: "events", Type: "a(isvu)", Direction: "in"},
				{Name: "idErrors", Type: "ai", Direction: "out"},
			},
		},
		{
			Name: "AboutToShow",
			Args: []introspect.Arg{
				{Name: "id", Type: "i", Direction: "in"},
				{Name: "needUpdate", Type: "b", Direction: "out"},
			},
		},
		{
			Name: "AboutToShowGroup",
			Args: []introspect.Arg{
				{Name: "ids", Type: "ai", Direction: "in"},
				{Name: "updatesNeeded", Type: "ai", Direction: "out"},
				{Name: "idErrors", Type: "ai", Direction: "out"},
			},
		},
	}
}

// menuSignals returns the dbusmenu signal introspection data.
func menuSignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: "LayoutUpdated",
			Args: []introspect.Arg{
				{Name: "revision", Type: "u"},
				{Name: "parent", Type: "i"},
			},
		},
		{
			Name: "ItemsPropertiesUpdated",
			Args: []introspect.Arg{
				{Name: "updatedProps", Type: "a(ia{sv})"},
				{Name: "removedProps", Type: "a(ias)"},
			},
		},
	}
}
