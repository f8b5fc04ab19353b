package tray

import (
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
)

// pixmap is one icon size in the StatusNotifierItem a(iiay) format.
// Data is ARGB32 in network byte order.
type pixmap struct {
	Width  int32
	Height int32
	Data   []byte
}

// tooltip is the StatusNotifierItem (sa(iiay)ss) tooltip.
type tooltip struct {
	IconName string
	Icon     []pixmap
	Title    string
	Body     string
}

// itemObject carries the StatusNotifierItem methods so they are not
// mixed into the Tray's exported method set.
type itemObject struct {
	tray *Tray
}

// Activate is a primary click on the icon.
// D-Bus method: Activate(ii)
func (o *itemObject) Activate(x, y int32) *dbus.Error {
	o.tray.logger.Debug("tray activated", "x", x, "y", y)
	o.tray.togglePause()
	return nil
}

// SecondaryActivate is a middle click on the icon.
// D-Bus method: SecondaryActivate(ii)
func (o *itemObject) SecondaryActivate(x, y int32) *dbus.Error {
	return nil
}

// ContextMenu is only called by hosts that ignore the Menu property.
// D-Bus method: ContextMenu(ii)
func (o *itemObject) ContextMenu(x, y int32) *dbus.Error {
	return nil
}

// Scroll is ignored.
// D-Bus method: Scroll(is)
func (o *itemObject) Scroll(delta int32, orientation string) *dbus.Error {
	return nil
}

func statusFor(paused bool) string {
	if paused {
		return "Passive"
	}
	return "Active"
}

func (t *Tray) itemProperties() map[string]*prop.Prop {
	ro := func(v any) *prop.Prop {
		return &prop.Prop{Value: v, Writable: false, Emit: prop.EmitTrue}
	}
	return map[string]*prop.Prop{
		"Category":            ro("ApplicationStatus"),
		"Id":                  ro("blinkr"),
		"Title":               ro(t.opts.Title),
		"Status":              ro(statusFor(false)),
		"WindowId":            ro(int32(0)),
		"IconName":            ro(""),
		"IconPixmap":          ro(iconPixmaps(false)),
		"OverlayIconName":     ro(""),
		"AttentionIconName":   ro(""),
		"AttentionMovieName":  ro(""),
		"ToolTip":             ro(tooltip{Title: t.opts.Title, Icon: []pixmap{}}),
		"ItemIsMenu":          ro(false),
		"Menu":                ro(MenuPath),
		"IconThemePath":       ro(""),
		"OverlayIconPixmap":   ro([]pixmap{}),
		"AttentionIconPixmap": ro([]pixmap{}),
	}
}

// itemMethods returns the StatusNotifierItem method introspection data.
func itemMethods() []introspect.Method {
	xy := []introspect.Arg{
		{Name: "x", Type: "i", Direction: "in"},
		{Name: "y", Type: "i", Direction: "in"},
	}
	return []introspect.Method{
		{Name: "Activate", Args: xy},
		{Name: "SecondaryActivate", Args: xy},
		{Name: "ContextMenu", Args: xy},
		{
			Name: "Scroll",
			Args: []introspect.Arg{
				{Name: "delta", Type: "i", Direction: "in"},
				{Name: "orientation", Type: "s", Direction: "in"},
			},
		},
	}
}

// itemSignals returns the StatusNotifierItem signal introspection data.
func itemSignals() []introspect.Signal {
	return []introspect.Signal{
		{Name: "NewTitle"},
		{Name: "NewIcon"},
		{Name: "NewAttentionIcon"},
		{Name: "NewOverlayIcon"},
		{Name: "NewToolTip"},
		{
			Name: "NewStatus",
			Args: []introspect.Arg{
				{Name: "status", Type: "s"},
			},
		},
	}
}
