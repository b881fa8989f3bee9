package hotkeys

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/coco/internal/config"
	"github.com/1broseidon/coco/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Actions are the launcher operations hotkeys can trigger. Nil actions
// are never bound.
type Actions struct {
	Show   func() error
	Hide   func() error
	Toggle func() error
}

// Binding pairs a key sequence with the action it triggers.
type Binding struct {
	Name string
	Keys string
	Run  func() error
}

// Bindings lists the configured hotkeys. Empty sequences are skipped.
func Bindings(cfg config.HotkeyConfig, actions Actions) []Binding {
	all := []Binding{
		{Name: "show", Keys: cfg.Show, Run: actions.Show},
		{Name: "hide", Keys: cfg.Hide, Run: actions.Hide},
		{Name: "toggle", Keys: cfg.Toggle, Run: actions.Toggle},
	}
	out := all[:0]
	for _, b := range all {
		if b.Keys != "" && b.Run != nil {
			out = append(out, b)
		}
	}
	return out
}

// x11Accessor is implemented by backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu      *xgbutil.XUtil
	root    xproto.Window
	actions Actions
	logger  *slog.Logger
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(backend platform.Backend, actions Actions, logger *slog.Logger) (*Handler, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok {
		return nil, fmt.Errorf("backend does not support global hotkeys")
	}
	if logger == nil {
		logger = slog.Default()
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:      xu,
		root:    accessor.RootWindow(),
		actions: actions,
		logger:  logger,
	}, nil
}

// Apply replaces every registered hotkey with the ones in cfg. A sequence
// that fails to grab is logged and skipped; the first error is returned.
func (h *Handler) Apply(cfg config.HotkeyConfig) error {
	keybind.Detach(h.xu, h.root)

	var firstErr error
	for _, b := range Bindings(cfg, h.actions) {
		if err := h.register(b); err != nil {
			h.logger.Error("failed to register hotkey", "action", b.Name, "keys", b.Keys, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to register %s hotkey %q: %w", b.Name, b.Keys, err)
			}
			continue
		}
		h.logger.Info("hotkey registered", "action", b.Name, "keys", b.Keys)
	}
	return firstErr
}

func (h *Handler) register(b Binding) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		h.logger.Debug("hotkey triggered", "action", b.Name)
		if err := b.Run(); err != nil {
			h.logger.Error("hotkey action failed", "action", b.Name, "error", err)
		}
	}).Connect(h.xu, h.root, b.Keys, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	caps := uint16(xproto.ModMaskLock)
	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	xevent.IgnoreMods = ignoreMasks(caps, numLock, scrollLock)
}

// ignoreMasks returns every combination of the distinct non-zero lock masks,
// including the empty one.
func ignoreMasks(locks ...uint16) []uint16 {
	var base []uint16
	seen := map[uint16]bool{0: true}
	for _, m := range locks {
		if !seen[m] {
			seen[m] = true
			base = append(base, m)
		}
	}

	masks := make([]uint16, 0, 1<<len(base))
	for subset := 0; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		masks = append(masks, mask)
	}
	return masks
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
