// Package platform wraps the OS-specific surface DirectShell drives: UI
// Automation tree traversal, synthetic input, virtual-desktop geometry, the
// foreground/activation handoff, the low-level keyboard hook, and the
// screen-reader registry flag. The windows build tag files hold the real
// implementation; non-Windows builds get a stub that reports ErrNotSupported
// so the rest of the module (store, projection, CLI) stays cross-compilable.
package platform

import (
	"context"
	"errors"

	"github.com/directshell/core/internal/model"
)

// ErrNotSupported is returned by every Connector method on a non-Windows
// build.
var ErrNotSupported = errors.New("platform: not supported on this OS")

// Window describes a top-level target window.
type Window struct {
	HWND  uintptr
	Title string
	Rect  model.Rect
}

// VirtualScreen describes the full multi-monitor virtual-desktop extents.
type VirtualScreen struct {
	OriginX, OriginY int
	Width, Height    int
}

// KeyEvent is a single physical key transition observed by the low-level
// keyboard hook.
type KeyEvent struct {
	VKCode    uint32
	ScanCode  uint32
	Down      bool
	Synthetic bool // true when the OS flags the event as software-injected
}

// Connector is the seam between the core engine and the host OS. Exactly one
// implementation is linked in per build (windows real, everything else stub).
type Connector interface {
	// ForegroundWindow returns the handle, title and rect of the window
	// currently in the foreground.
	ForegroundWindow() (Window, error)

	// IsWindow reports whether hwnd still identifies a live top-level window.
	IsWindow(hwnd uintptr) bool

	// IsCandidateTarget reports whether hwnd is a real, visible, non-shell,
	// unowned top-level window — the only kind the snap controller accepts.
	IsCandidateTarget(hwnd uintptr) bool

	// WindowTitle returns hwnd's caption text; "" for a titleless window.
	WindowTitle(hwnd uintptr) (string, error)

	// FocusedElementName returns the name of the element that currently has
	// keyboard focus, queried live from the platform rather than the store.
	FocusedElementName() (string, error)

	// WindowRect returns the current screen-coordinate bounding rect of hwnd.
	WindowRect(hwnd uintptr) (model.Rect, error)

	// SetForeground brings hwnd to the foreground.
	SetForeground(hwnd uintptr) error

	// VirtualScreenExtents returns the full multi-monitor virtual desktop
	// geometry used to scale click coordinates to the 0..65535 absolute
	// range.
	VirtualScreenExtents() (VirtualScreen, error)

	// WalkTree performs a depth-first, unfiltered traversal of hwnd's
	// accessibility tree, bounded by ctx's deadline. The
	// returned elements are in pre-order with id/parent_id/depth already
	// assigned.
	WalkTree(ctx context.Context, hwnd uintptr) ([]model.Element, error)

	// SetValue attempts to set text on the element matching target via the
	// platform's value pattern. Returns ErrPatternUnavailable if the element
	// has no value pattern or the target can't be resolved, signaling the
	// caller to fall back to per-character injection.
	SetValue(hwnd uintptr, target string, text string) error

	// SendUnicodeChar injects a single UTF-16 code unit as a keyboard event
	// at whatever currently has focus.
	SendUnicodeChar(unit uint16) error

	// SendVirtualKey presses (down true) or releases (down false) a
	// virtual-key code, applying the extended-key flag when needed.
	SendVirtualKey(vk uint32, extended bool, down bool) error

	// SendClick moves the cursor to the absolute virtual-desktop coordinates
	// (dx, dy) — already scaled to 0..65535 — and emits a left button
	// down/up pair.
	SendClick(dx, dy uint16) error

	// MoveCursor moves the cursor to absolute virtual-desktop coordinates —
	// already scaled to 0..65535 — without any button transition; used to
	// position the wheel events SendScroll emits next.
	MoveCursor(dx, dy uint16) error

	// SendScroll emits a mouse-wheel (or horizontal-wheel) event at the
	// current cursor position.
	SendScroll(ticks int, horizontal bool) error

	// ResolveElementCenter finds the first descendant of hwnd whose name
	// equals target and returns the screen-coordinate center of its
	// bounding rect.
	ResolveElementCenter(hwnd uintptr, target string) (x, y int, err error)

	// SetScreenReaderFlag persists the global screen-reader accessibility
	// setting DirectShell relies on to force lazy-tree applications (browser
	// engines) to build a full accessibility tree.
	SetScreenReaderFlag(enabled bool) error

	// NotifySettingChange sends the settings-change broadcast directly to
	// hwnd rather than relying on the OS-wide broadcast reaching it.
	NotifySettingChange(hwnd uintptr) error

	// RegisterFocusListener registers a no-op focus-changed event handler on
	// the automation root. Its continued registration is what keeps the
	// clients-are-listening signal true in lazy-tree engines, so the handler
	// lives for the process lifetime. The returned remove func may block for
	// several seconds on a degraded target; callers must run it on a
	// detached worker.
	RegisterFocusListener() (remove func(), err error)

	// ProbeDescendants sends the activation probe (an accessible-object
	// query plus WM_GETOBJECT on every descendant window) used to wake
	// renderer host windows in lazy-tree engines.
	ProbeDescendants(hwnd uintptr) error

	// CaptionGeometry probes hwnd's title-bar height and the leftmost
	// caption-button offset from the window's right edge via a shallow
	// accessibility query. The result is shared with the overlay
	// collaborator.
	CaptionGeometry(hwnd uintptr) (captionHeight, captionButtonsLeft int, err error)

	// InstallKeyboardHook installs the system-wide low-level keyboard hook.
	// onEvent is invoked for every key transition; the hook is always an
	// identity pass-through. Returns a remove
	// function.
	InstallKeyboardHook(onEvent func(KeyEvent)) (remove func(), err error)
}

// ErrPatternUnavailable signals SetValue could not use the value pattern
// (missing pattern, unresolved target, or a rejected write) and the caller
// should fall back to per-character injection.
var ErrPatternUnavailable = errors.New("platform: value pattern unavailable")
