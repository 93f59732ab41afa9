//go:build !windows

package platform

import (
	"context"

	"github.com/directshell/core/internal/model"
)

// stubConnector satisfies Connector on non-Windows builds so the rest of the
// module (store, projection, CLI) stays cross-compilable. DirectShell's
// target platform is Windows; every method here reports ErrNotSupported.
type stubConnector struct{}

// New returns the platform Connector for this build.
func New() Connector { return stubConnector{} }

func (stubConnector) ForegroundWindow() (Window, error) { return Window{}, ErrNotSupported }
func (stubConnector) IsWindow(uintptr) bool              { return false }
func (stubConnector) IsCandidateTarget(uintptr) bool     { return false }
func (stubConnector) WindowTitle(uintptr) (string, error) { return "", ErrNotSupported }
func (stubConnector) FocusedElementName() (string, error) { return "", ErrNotSupported }
func (stubConnector) WindowRect(uintptr) (model.Rect, error) {
	return model.Rect{}, ErrNotSupported
}
func (stubConnector) SetForeground(uintptr) error { return ErrNotSupported }
func (stubConnector) VirtualScreenExtents() (VirtualScreen, error) {
	return VirtualScreen{}, ErrNotSupported
}
func (stubConnector) WalkTree(context.Context, uintptr) ([]model.Element, error) {
	return nil, ErrNotSupported
}
func (stubConnector) SetValue(uintptr, string, string) error   { return ErrNotSupported }
func (stubConnector) SendUnicodeChar(uint16) error              { return ErrNotSupported }
func (stubConnector) SendVirtualKey(uint32, bool, bool) error   { return ErrNotSupported }
func (stubConnector) SendClick(uint16, uint16) error            { return ErrNotSupported }
func (stubConnector) MoveCursor(uint16, uint16) error           { return ErrNotSupported }
func (stubConnector) SendScroll(int, bool) error                { return ErrNotSupported }
func (stubConnector) ResolveElementCenter(uintptr, string) (int, int, error) {
	return 0, 0, ErrNotSupported
}
func (stubConnector) SetScreenReaderFlag(bool) error { return ErrNotSupported }
func (stubConnector) NotifySettingChange(uintptr) error { return ErrNotSupported }
func (stubConnector) RegisterFocusListener() (func(), error) {
	return func() {}, ErrNotSupported
}
func (stubConnector) ProbeDescendants(uintptr) error { return ErrNotSupported }
func (stubConnector) CaptionGeometry(uintptr) (int, int, error) {
	return 0, 0, ErrNotSupported
}
func (stubConnector) InstallKeyboardHook(func(KeyEvent)) (func(), error) {
	return func() {}, ErrNotSupported
}

// TranslateKey is the non-Windows stub of the dead-key-preserving Unicode
// translation; the keyboard intercept is inert on these builds.
func TranslateKey(vk, scan uint32) (string, bool) { return "", false }
