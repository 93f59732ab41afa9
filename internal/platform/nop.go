package platform

import (
	"context"

	"github.com/directshell/core/internal/model"
)

// NopConnector is an inert Connector: every query succeeds with zero values
// and every injection is a no-op. Embed it in a test double and override
// only the methods under test.
type NopConnector struct{}

var _ Connector = NopConnector{}

func (NopConnector) ForegroundWindow() (Window, error)      { return Window{}, nil }
func (NopConnector) IsWindow(uintptr) bool                  { return true }
func (NopConnector) IsCandidateTarget(uintptr) bool         { return true }
func (NopConnector) WindowTitle(uintptr) (string, error)    { return "", nil }
func (NopConnector) FocusedElementName() (string, error)    { return "", nil }
func (NopConnector) WindowRect(uintptr) (model.Rect, error) { return model.Rect{}, nil }
func (NopConnector) SetForeground(uintptr) error            { return nil }
func (NopConnector) VirtualScreenExtents() (VirtualScreen, error) {
	return VirtualScreen{Width: 1, Height: 1}, nil
}
func (NopConnector) WalkTree(context.Context, uintptr) ([]model.Element, error) {
	return nil, nil
}
func (NopConnector) SetValue(uintptr, string, string) error { return nil }
func (NopConnector) SendUnicodeChar(uint16) error           { return nil }
func (NopConnector) SendVirtualKey(uint32, bool, bool) error {
	return nil
}
func (NopConnector) SendClick(uint16, uint16) error  { return nil }
func (NopConnector) MoveCursor(uint16, uint16) error { return nil }
func (NopConnector) SendScroll(int, bool) error      { return nil }
func (NopConnector) ResolveElementCenter(uintptr, string) (int, int, error) {
	return 0, 0, nil
}
func (NopConnector) SetScreenReaderFlag(bool) error    { return nil }
func (NopConnector) NotifySettingChange(uintptr) error { return nil }
func (NopConnector) RegisterFocusListener() (func(), error) {
	return func() {}, nil
}
func (NopConnector) ProbeDescendants(uintptr) error { return nil }
func (NopConnector) CaptionGeometry(uintptr) (int, int, error) {
	return 0, 0, nil
}
func (NopConnector) InstallKeyboardHook(func(KeyEvent)) (func(), error) {
	return func() {}, nil
}
