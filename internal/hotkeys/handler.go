// Package hotkeys grabs the optional global emergency-stop key.
package hotkeys

import (
	"sort"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/oronila/antiafk/internal/platform"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu   *xgbutil.XUtil
	root xproto.Window
	log  logrus.FieldLogger
}

var ignoreModsOnce sync.Once

// NewHandler creates a hotkey handler. Backends without X11 access are
// reported as platform.ErrUnsupported.
func NewHandler(backend platform.Backend, log logrus.FieldLogger) (*Handler, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok || accessor.XUtil() == nil {
		return nil, platform.ErrUnsupported
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		xevent.IgnoreMods = ignoreMasks(
			uint16(xproto.ModMaskLock),
			modMaskForKeysym(xu, "Num_Lock"),
			modMaskForKeysym(xu, "Scroll_Lock"),
		)
	})

	return &Handler{
		xu:   xu,
		root: accessor.RootWindow(),
		log:  log,
	}, nil
}

// RegisterEmergencyStop grabs keySequence and calls stop once per press.
func (h *Handler) RegisterEmergencyStop(keySequence string, stop func()) error {
	err := h.RegisterFunc(keySequence, func() {
		h.log.Warn("Emergency stop hotkey pressed")
		stop()
	})
	if err != nil {
		return errors.Wrapf(err, "grab emergency hotkey %q", keySequence)
	}
	h.log.Infof("Emergency stop hotkey: %s", keySequence)
	return nil
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

// ignoreMasks returns every combination of the lock modifiers (including
// none) so a grab still fires with CapsLock or NumLock engaged. Zero and
// duplicate masks are dropped.
func ignoreMasks(locks ...uint16) []uint16 {
	seen := map[uint16]bool{0: true}
	combos := []uint16{0}
	for _, lock := range locks {
		if lock == 0 || seen[lock] {
			continue
		}
		for _, base := range combos {
			m := base | lock
			if !seen[m] {
				seen[m] = true
				combos = append(combos, m)
			}
		}
	}
	sort.Slice(combos, func(i, j int) bool { return combos[i] < combos[j] })
	return combos
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
