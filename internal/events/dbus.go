package events

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

// D-Bus identifiers for the launcher service.
const (
	DBusBusName   = "io.github.coco.Launcher"
	DBusPath      = dbus.ObjectPath("/io/github/coco/Launcher")
	DBusInterface = "io.github.coco.Launcher"
)

// Handlers are invoked by remote D-Bus method calls.
type Handlers struct {
	Show   func() error
	Hide   func() error
	Toggle func() error
}

// DBusService exports Show/Hide/Toggle methods on the session bus and
// broadcasts events as the Event(name) signal.
type DBusService struct {
	mu       sync.Mutex
	conn     *dbus.Conn
	handlers Handlers
	logger   *slog.Logger
}

var _ Emitter = (*DBusService)(nil)

// NewDBusService creates an unstarted service.
func NewDBusService(handlers Handlers, logger *slog.Logger) *DBusService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DBusService{handlers: handlers, logger: logger}
}

// Start connects to the session bus, exports the launcher object and claims
// the bus name.
func (s *DBusService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return fmt.Errorf("dbus service already running")
	}

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	if err := conn.Export(dbusObject{s}, DBusPath, DBusInterface); err != nil {
		conn.Close()
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: string(DBusPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name: DBusInterface,
				Methods: []introspect.Method{
					{Name: "Show"},
					{Name: "Hide"},
					{Name: "Toggle"},
				},
				Signals: []introspect.Signal{
					{Name: "Event", Args: []introspect.Arg{{Name: "name", Type: "s"}}},
				},
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), DBusPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(DBusBusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		conn.Close()
		return fmt.Errorf("bus name %s already taken", DBusBusName)
	}

	s.conn = conn
	s.logger.Info("D-Bus launcher service started", "name", DBusBusName, "path", DBusPath)
	return nil
}

// Emit sends the Event signal. It is a no-op before Start.
func (s *DBusService) Emit(name string) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return nil
	}

	if err := conn.Emit(DBusPath, DBusInterface+".Event", name); err != nil {
		return fmt.Errorf("failed to emit Event signal: %w", err)
	}
	s.logger.Debug("emitted Event signal", "name", name)
	return nil
}

// Stop releases the bus name and closes the connection.
func (s *DBusService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return
	}
	_, _ = s.conn.ReleaseName(DBusBusName)
	s.conn.Close()
	s.conn = nil
}

func (s *DBusService) call(name string, fn func() error) *dbus.Error {
	if fn == nil {
		return dbus.MakeFailedError(fmt.Errorf("%s not supported", name))
	}
	s.logger.Debug("D-Bus method called", "method", name)
	if err := fn(); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

// dbusObject carries only the exported methods so Start/Stop/Emit are not
// callable over the bus.
type dbusObject struct {
	s *DBusService
}

func (o dbusObject) Show() *dbus.Error   { return o.s.call("Show", o.s.handlers.Show) }
func (o dbusObject) Hide() *dbus.Error   { return o.s.call("Hide", o.s.handlers.Hide) }
func (o dbusObject) Toggle() *dbus.Error { return o.s.call("Toggle", o.s.handlers.Toggle) }
