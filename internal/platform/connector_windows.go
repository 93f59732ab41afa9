//go:build windows

package platform

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"github.com/directshell/core/internal/model"
)

var (
	user32   = syscall.NewLazyDLL("user32.dll")
	kernel32 = syscall.NewLazyDLL("kernel32.dll")

	procGetForegroundWindow     = user32.NewProc("GetForegroundWindow")
	procSetForegroundWindow     = user32.NewProc("SetForegroundWindow")
	procIsWindow                = user32.NewProc("IsWindow")
	procIsWindowVisible         = user32.NewProc("IsWindowVisible")
	procGetWindow               = user32.NewProc("GetWindow")
	procGetShellWindow          = user32.NewProc("GetShellWindow")
	procGetDesktopWindow        = user32.NewProc("GetDesktopWindow")
	procGetWindowRect           = user32.NewProc("GetWindowRect")
	procGetWindowTextW          = user32.NewProc("GetWindowTextW")
	procGetWindowTextLengthW    = user32.NewProc("GetWindowTextLengthW")
	procGetSystemMetrics        = user32.NewProc("GetSystemMetrics")
	procEnumChildWindows        = user32.NewProc("EnumChildWindows")
	procSendMessageTimeoutW     = user32.NewProc("SendMessageTimeoutW")
	procSetWindowsHookExW       = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx     = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx          = user32.NewProc("CallNextHookEx")
	procGetKeyboardState        = user32.NewProc("GetKeyboardState")
	procGetKeyboardLayout       = user32.NewProc("GetKeyboardLayout")
	procToUnicodeEx             = user32.NewProc("ToUnicodeEx")
	procGetModuleHandleW        = kernel32.NewProc("GetModuleHandleW")

	oleacc                          = syscall.NewLazyDLL("oleacc.dll")
	procAccessibleObjectFromWindow = oleacc.NewProc("AccessibleObjectFromWindow")
)

const (
	smXVirtualscreen = 76
	smYVirtualscreen = 77
	smCXVirtualscreen = 78
	smCYVirtualscreen = 79

	wmGetObject     = 0x003D
	wmSettingChange = 0x001A
	objidClient     = 0xFFFFFFFC

	smtoAbortIfHung = 0x0002

	whKeyboardLL = 13
	wmKeydown    = 0x0100
	wmKeyup      = 0x0101
	wmSyskeydown = 0x0104
	wmSyskeyup   = 0x0105
	llkhfInjected = 0x00000010
)

type rect struct{ Left, Top, Right, Bottom int32 }

// winConnector is the real Windows implementation of Connector.
type winConnector struct{}

// New returns the platform Connector for this build.
func New() Connector { return &winConnector{} }

func (c *winConnector) ForegroundWindow() (Window, error) {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return Window{}, fmt.Errorf("no foreground window")
	}
	title, err := c.windowTitle(hwnd)
	if err != nil {
		return Window{}, err
	}
	r, err := c.WindowRect(hwnd)
	if err != nil {
		return Window{}, err
	}
	return Window{HWND: hwnd, Title: title, Rect: r}, nil
}

// WindowTitle returns hwnd's caption text; "" for a titleless window.
func (c *winConnector) WindowTitle(hwnd uintptr) (string, error) {
	return c.windowTitle(hwnd)
}

func (c *winConnector) windowTitle(hwnd uintptr) (string, error) {
	n, _, _ := procGetWindowTextLengthW.Call(hwnd)
	if n == 0 {
		return "", nil
	}
	buf := make([]uint16, n+1)
	procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), n+1)
	return windows.UTF16ToString(buf), nil
}

func (c *winConnector) IsWindow(hwnd uintptr) bool {
	ok, _, _ := procIsWindow.Call(hwnd)
	return ok != 0
}

const gwOwner = 4

// IsCandidateTarget accepts only real, visible, unowned top-level windows
// and rejects the shell and desktop windows. Owned windows (dialogs, tool
// palettes) and the shell surfaces are never valid snap targets.
func (c *winConnector) IsCandidateTarget(hwnd uintptr) bool {
	if hwnd == 0 || !c.IsWindow(hwnd) {
		return false
	}
	if visible, _, _ := procIsWindowVisible.Call(hwnd); visible == 0 {
		return false
	}
	if owner, _, _ := procGetWindow.Call(hwnd, gwOwner); owner != 0 {
		return false
	}
	shell, _, _ := procGetShellWindow.Call()
	desktop, _, _ := procGetDesktopWindow.Call()
	return hwnd != shell && hwnd != desktop
}

func (c *winConnector) WindowRect(hwnd uintptr) (model.Rect, error) {
	var r rect
	ret, _, _ := procGetWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return model.Rect{}, fmt.Errorf("GetWindowRect failed for hwnd %d", hwnd)
	}
	return model.Rect{X: int(r.Left), Y: int(r.Top), W: int(r.Right - r.Left), H: int(r.Bottom - r.Top)}, nil
}

// SetForeground taps the Alt key before requesting foreground: Windows only
// honors SetForegroundWindow from a process that recently sent input, and a
// momentary modifier press satisfies that check.
func (c *winConnector) SetForeground(hwnd uintptr) error {
	_ = c.SendVirtualKey(vkMenu, false, true)
	_ = c.SendVirtualKey(vkMenu, false, false)
	ok, _, _ := procSetForegroundWindow.Call(hwnd)
	if ok == 0 {
		return fmt.Errorf("SetForegroundWindow failed for hwnd %d", hwnd)
	}
	return nil
}

// NotifySettingChange delivers WM_SETTINGCHANGE straight to hwnd. The OS
// broadcast is unreliable for windows that defer message processing, so the
// activation protocol sends it point-to-point.
func (c *winConnector) NotifySettingChange(hwnd uintptr) error {
	var result uintptr
	ret, _, _ := procSendMessageTimeoutW.Call(
		hwnd, wmSettingChange, 0, 0,
		smtoAbortIfHung, 500,
		uintptr(unsafe.Pointer(&result)),
	)
	if ret == 0 {
		return fmt.Errorf("WM_SETTINGCHANGE to hwnd %d timed out", hwnd)
	}
	return nil
}

func (c *winConnector) VirtualScreenExtents() (VirtualScreen, error) {
	originX, _, _ := procGetSystemMetrics.Call(smXVirtualscreen)
	originY, _, _ := procGetSystemMetrics.Call(smYVirtualscreen)
	width, _, _ := procGetSystemMetrics.Call(smCXVirtualscreen)
	height, _, _ := procGetSystemMetrics.Call(smCYVirtualscreen)
	return VirtualScreen{
		OriginX: int(int32(originX)),
		OriginY: int(int32(originY)),
		Width:   int(width),
		Height:  int(height),
	}, nil
}

// SetScreenReaderFlag persists HKEY_CURRENT_USER\Control Panel\Accessibility
// \ScreenReader = "1" (or "0"), the global setting several browser engines
// poll at startup to decide whether to build a full accessibility tree.
func (c *winConnector) SetScreenReaderFlag(enabled bool) error {
	k, _, err := registry.CreateKey(registry.CURRENT_USER, `Control Panel\Accessibility`, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("open accessibility registry key: %w", err)
	}
	defer k.Close()

	value := "0"
	if enabled {
		value = "1"
	}
	if err := k.SetStringValue("ScreenReader", value); err != nil {
		return fmt.Errorf("set ScreenReader registry value: %w", err)
	}
	return nil
}

// iidIAccessible is the documented IAccessible interface GUID used by the
// AccessibleObjectFromWindow probe.
var iidIAccessible = syscall.GUID{Data1: 0x618736e0, Data2: 0x3c3d, Data3: 0x11cf, Data4: [8]byte{0x81, 0x0c, 0x00, 0xaa, 0x00, 0x38, 0x9b, 0x71}}

// probeDescendantsCallback is allocated once: syscall.NewCallback never
// frees its thunks, so a per-call closure would leak one per probe.
var probeDescendantsCallback = syscall.NewCallback(func(child uintptr, _ uintptr) uintptr {
	// An accessible-object query followed by a raw WM_GETOBJECT content
	// message. Renderer host windows treat either as "a client wants our
	// tree"; firing both covers engines that gate on only one of them.
	var acc uintptr
	procAccessibleObjectFromWindow.Call(
		child,
		uintptr(objidClient),
		uintptr(unsafe.Pointer(&iidIAccessible)),
		uintptr(unsafe.Pointer(&acc)),
	)
	if acc != 0 {
		comObject(unsafe.Pointer(acc)).release()
	}

	var result uintptr
	procSendMessageTimeoutW.Call(
		child,
		wmGetObject,
		0,
		uintptr(objidClient),
		smtoAbortIfHung,
		200, // ms
		uintptr(unsafe.Pointer(&result)),
	)
	return 1 // continue enumeration
})

// ProbeDescendants walks hwnd's descendant windows and sends each one the
// accessible-object query + WM_GETOBJECT(OBJID_CLIENT) pair — the per-
// render-host phase of the activation protocol that wakes browser engines
// into building their accessibility tree.
func (c *winConnector) ProbeDescendants(hwnd uintptr) error {
	ret, _, _ := procEnumChildWindows.Call(hwnd, probeDescendantsCallback, 0)
	_ = ret
	// EnumChildWindows returns 0 both on callback-stop and on a window with
	// no children; neither is an error worth surfacing.
	return nil
}

type msllhookstruct struct {
	PT          struct{ X, Y int32 }
	MouseData   uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type kbdllhookstruct struct {
	VKCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

// InstallKeyboardHook installs a WH_KEYBOARD_LL hook that is a pure identity
// pass-through: it always calls CallNextHookEx and never swallows or
// transforms a keystroke. Its only effect is the
// activation side-channel the snap controller relies on: installing any
// low-level keyboard hook nudges some lazy-tree hosts into building their
// accessibility tree on the next keypress.
func (c *winConnector) InstallKeyboardHook(onEvent func(KeyEvent)) (func(), error) {
	moduleHandle, _, _ := procGetModuleHandleW.Call(0)

	var hookHandle uintptr
	hookProc := syscall.NewCallback(func(nCode int32, wParam uintptr, lParam uintptr) uintptr {
		if nCode >= 0 && onEvent != nil {
			kb := (*kbdllhookstruct)(unsafe.Pointer(lParam))
			down := wParam == wmKeydown || wParam == wmSyskeydown
			up := wParam == wmKeyup || wParam == wmSyskeyup
			if down || up {
				onEvent(KeyEvent{
					VKCode:    kb.VKCode,
					ScanCode:  kb.ScanCode,
					Down:      down,
					Synthetic: kb.Flags&llkhfInjected != 0,
				})
			}
		}
		ret, _, _ := procCallNextHookEx.Call(hookHandle, uintptr(nCode), wParam, lParam)
		return ret
	})

	h, _, err := procSetWindowsHookExW.Call(whKeyboardLL, hookProc, moduleHandle, 0)
	if h == 0 {
		return func() {}, fmt.Errorf("SetWindowsHookExW failed: %w", err)
	}
	hookHandle = h

	remove := func() {
		procUnhookWindowsHookEx.Call(hookHandle)
	}
	return remove, nil
}

// toUnicodeNoChange is bit 2 of ToUnicodeEx's wFlags: translate without
// touching the kernel's keyboard state. Without it the translation itself
// consumes any pending dead key and breaks accented-character sequences.
const toUnicodeNoChange = 0x4

// TranslateKey performs a dead-key-preserving Unicode translation of a key
// event against the current keyboard state and layout. Returns false when
// the key produces no character (modifiers, function keys, a pending dead
// key).
func TranslateKey(vk, scan uint32) (string, bool) {
	var ks [256]byte
	if ret, _, _ := procGetKeyboardState.Call(uintptr(unsafe.Pointer(&ks[0]))); ret == 0 {
		return "", false
	}
	layout, _, _ := procGetKeyboardLayout.Call(0)

	var buf [8]uint16
	n, _, _ := procToUnicodeEx.Call(
		uintptr(vk),
		uintptr(scan),
		uintptr(unsafe.Pointer(&ks[0])),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
		toUnicodeNoChange,
		layout,
	)
	if int32(n) <= 0 {
		return "", false
	}
	return windows.UTF16ToString(buf[:int32(n)]), true
}
