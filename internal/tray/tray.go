package tray

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"

	"github.com/jmylchreest/blinkr/internal/daemon"
)

const (
	// ItemInterface is the StatusNotifierItem interface name.
	ItemInterface = "org.kde.StatusNotifierItem"
	// ItemPath is the object path of the item.
	ItemPath = dbus.ObjectPath("/StatusNotifierItem")
	// MenuInterface is the dbusmenu interface name.
	MenuInterface = "com.canonical.dbusmenu"
	// MenuPath is the object path of the menu.
	MenuPath = dbus.ObjectPath("/MenuBar")

	watcherName      = "org.kde.StatusNotifierWatcher"
	watcherPath      = dbus.ObjectPath("/StatusNotifierWatcher")
	watcherInterface = "org.kde.StatusNotifierWatcher"
)

// Options configures the tray.
type Options struct {
	// Title is shown as the item title and tooltip.
	Title string
	// OnTogglePause is called when the user asks to pause or resume.
	OnTogglePause func()
	// OnQuit is called when the user picks Exit.
	OnQuit func()
}

// Tray is a StatusNotifierItem with a pause/resume and exit menu.
// D-Bus calls arrive on godbus goroutines; callbacks in Options are
// invoked from there, so callers must hop to their own executor.
type Tray struct {
	opts    Options
	logger  *slog.Logger
	conn    *dbus.Conn
	props   *prop.Properties
	busName string

	mu      sync.Mutex
	menu    *menu
	running bool
}

// New creates a tray that is not yet on the bus.
func New(opts Options, logger *slog.Logger) *Tray {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Title == "" {
		opts.Title = "blinkr"
	}
	return &Tray{
		opts:    opts,
		logger:  logger,
		menu:    newMenu(daemon.LabelPause),
		busName: fmt.Sprintf("%s-%d-1", ItemInterface, os.Getpid()),
	}
}

// Start connects to the session bus, exports the item and its menu, and
// registers with the StatusNotifierWatcher. A missing watcher is logged
// and tolerated; the item is registered when one appears.
func (t *Tray) Start() error {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return fmt.Errorf("tray already running")
	}
	t.mu.Unlock()

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	if err := t.export(conn); err != nil {
		_ = conn.Close()
		return err
	}

	reply, err := conn.RequestName(t.busName, dbus.NameFlagDoNotQueue)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		_ = conn.Close()
		return fmt.Errorf("bus name %s already taken", t.busName)
	}

	t.mu.Lock()
	t.conn = conn
	t.running = true
	t.mu.Unlock()

	t.watchWatcher()
	if err := t.register(); err != nil {
		t.logger.Warn("no status notifier watcher, tray icon hidden until one appears", "error", err)
	}

	t.logger.Info("tray started", "bus_name", t.busName, "path", ItemPath)
	return nil
}

// Stop releases the bus name and closes the connection. Safe to call
// more than once.
func (t *Tray) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return nil
	}
	t.running = false

	if _, err := t.conn.ReleaseName(t.busName); err != nil {
		t.logger.Warn("failed to release bus name", "error", err)
	}
	err := t.conn.Close()
	t.conn = nil
	t.props = nil

	t.logger.Info("tray stopped")
	if err != nil {
		return fmt.Errorf("failed to close session bus connection: %w", err)
	}
	return nil
}

// SetPauseLabel updates the toggle entry's label and the item status.
// "Resume" marks the item passive with a closed-eye icon.
func (t *Tray) SetPauseLabel(label string) {
	t.mu.Lock()
	changed := t.menu.setToggleLabel(label)
	revision := t.menu.revision
	conn := t.conn
	props := t.props
	t.mu.Unlock()

	if !changed || conn == nil {
		return
	}

	paused := label == daemon.LabelResume
	if props != nil {
		props.SetMust(ItemInterface, "Status", statusFor(paused))
		props.SetMust(ItemInterface, "IconPixmap", iconPixmaps(paused))
	}
	t.emit(conn, ItemPath, ItemInterface+".NewStatus", statusFor(paused))
	t.emit(conn, ItemPath, ItemInterface+".NewIcon")
	t.emit(conn, MenuPath, MenuInterface+".LayoutUpdated", revision, int32(0))

	t.logger.Debug("tray label updated", "label", label, "revision", revision)
}

// Label returns the current toggle label.
func (t *Tray) Label() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.menu.toggleLabel()
}

func (t *Tray) export(conn *dbus.Conn) error {
	item := &itemObject{tray: t}
	if err := conn.Export(item, ItemPath, ItemInterface); err != nil {
		return fmt.Errorf("failed to export status notifier item: %w", err)
	}

	menuObj := &menuObject{tray: t}
	if err := conn.Export(menuObj, MenuPath, MenuInterface); err != nil {
		return fmt.Errorf("failed to export menu: %w", err)
	}

	props, err := prop.Export(conn, ItemPath, prop.Map{
		ItemInterface: t.itemProperties(),
	})
	if err != nil {
		return fmt.Errorf("failed to export item properties: %w", err)
	}
	t.props = props

	if _, err := prop.Export(conn, MenuPath, prop.Map{
		MenuInterface: menuProperties(),
	}); err != nil {
		return fmt.Errorf("failed to export menu properties: %w", err)
	}

	itemNode := &introspect.Node{
		Name: string(ItemPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{
				Name:       ItemInterface,
				Methods:    itemMethods(),
				Signals:    itemSignals(),
				Properties: props.Introspection(ItemInterface),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(itemNode), ItemPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export item introspectable: %w", err)
	}

	menuNode := &introspect.Node{
		Name: string(MenuPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{
				Name:    MenuInterface,
				Methods: menuMethods(),
				Signals: menuSignals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(menuNode), MenuPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export menu introspectable: %w", err)
	}

	return nil
}

// register announces the item to the StatusNotifierWatcher.
func (t *Tray) register() error {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	call := conn.Object(watcherName, watcherPath).Call(
		watcherInterface+".RegisterStatusNotifierItem", 0, t.busName)
	if call.Err != nil {
		return fmt.Errorf("failed to register status notifier item: %w", call.Err)
	}
	t.logger.Debug("registered with status notifier watcher")
	return nil
}

// watchWatcher re-registers whenever a StatusNotifierWatcher takes the
// well-known name, e.g. after a panel restart.
func (t *Tray) watchWatcher() {
	err := t.conn.AddMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
		dbus.WithMatchArg(0, watcherName),
	)
	if err != nil {
		t.logger.Warn("failed to watch for status notifier watcher", "error", err)
		return
	}

	ch := make(chan *dbus.Signal, 8)
	t.conn.Signal(ch)

	go func() {
		// The channel is closed when the connection is.
		for sig := range ch {
			if !watcherAppeared(sig) {
				continue
			}
			t.logger.Info("status notifier watcher appeared, registering")
			if err := t.register(); err != nil {
				t.logger.Warn("failed to register tray", "error", err)
			}
		}
	}()
}

// watcherAppeared reports whether sig is a NameOwnerChanged for the
// watcher name with a non-empty new owner.
func watcherAppeared(sig *dbus.Signal) bool {
	if sig == nil || sig.Name != "org.freedesktop.DBus.NameOwnerChanged" || len(sig.Body) != 3 {
		return false
	}
	name, _ := sig.Body[0].(string)
	newOwner, _ := sig.Body[2].(string)
	return name == watcherName && newOwner != ""
}

func (t *Tray) emit(conn *dbus.Conn, path dbus.ObjectPath, name string, values ...any) {
	if err := conn.Emit(path, name, values...); err != nil {
		t.logger.Warn("failed to emit signal", "signal", name, "error", err)
	}
}

func (t *Tray) togglePause() {
	if t.opts.OnTogglePause != nil {
		t.opts.OnTogglePause()
	}
}

func (t *Tray) quit() {
	if t.opts.OnQuit != nil {
		t.opts.OnQuit()
	}
}
