//go:build windows

package platform

import (
	"fmt"
	"unsafe"
)

var procSendInput = user32.NewProc("SendInput")

const (
	inputMouse    = 0
	inputKeyboard = 1

	keyeventfExtendedkey = 0x0001
	keyeventfKeyup       = 0x0002
	keyeventfUnicode     = 0x0004

	mouseeventfMove       = 0x0001
	mouseeventfAbsolute   = 0x8000
	mouseeventfLeftdown   = 0x0002
	mouseeventfLeftup     = 0x0004
	mouseeventfWheel      = 0x0800
	mouseeventfHwheel     = 0x1000
	wheelDelta            = 120
)

// mouseInput/keybdInput/hardwareInput mirror the Win32 MOUSEINPUT/
// KEYBDINPUT/HARDWAREINPUT unions as laid out by SendInput's INPUT struct on
// amd64 (the union is padded to the largest member, MOUSEINPUT).
type mouseInput struct {
	Dx, Dy      int32
	MouseData   uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type keybdInput struct {
	VK          uint16
	Scan        uint16
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
	_           uint32 // pad to MOUSEINPUT's size
}

type input struct {
	Type uint32
	_    uint32 // alignment padding before the union on amd64
	MI   mouseInput
}

func sendInputs(inputs []input) error {
	if len(inputs) == 0 {
		return nil
	}
	sz := unsafe.Sizeof(inputs[0])
	n, _, err := procSendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		sz,
	)
	if int(n) != len(inputs) {
		return fmt.Errorf("SendInput sent %d/%d events: %w", n, len(inputs), err)
	}
	return nil
}

func keyInput(vk uint32, extended bool, down bool) input {
	flags := uint32(0)
	if !down {
		flags |= keyeventfKeyup
	}
	if extended {
		flags |= keyeventfExtendedkey
	}
	var in input
	in.Type = inputKeyboard
	in.MI = mouseInput{} // zero the union; keyboard fields overlay the same memory
	kb := (*keybdInput)(unsafe.Pointer(&in.MI))
	*kb = keybdInput{VK: uint16(vk), Flags: flags}
	return in
}

func unicodeInput(unit uint16, down bool) input {
	flags := uint32(keyeventfUnicode)
	if !down {
		flags |= keyeventfKeyup
	}
	var in input
	in.Type = inputKeyboard
	kb := (*keybdInput)(unsafe.Pointer(&in.MI))
	*kb = keybdInput{Scan: unit, Flags: flags}
	return in
}

// SendVirtualKey presses or releases vk, setting the extended-key flag when
// required.
func (c *winConnector) SendVirtualKey(vk uint32, extended bool, down bool) error {
	return sendInputs([]input{keyInput(vk, extended, down)})
}

// SendUnicodeChar injects one UTF-16 code unit as a down+up pair. \t is
// sent as a Tab virtual-key press and \n/\r as a Return virtual-key press;
// every other code unit is sent as a raw Unicode keyboard event.
func (c *winConnector) SendUnicodeChar(unit uint16) error {
	switch unit {
	case '\t':
		return c.pressAndRelease(vkTab, false)
	case '\n', '\r':
		return c.pressAndRelease(vkReturn, false)
	default:
		return sendInputs([]input{unicodeInput(unit, true), unicodeInput(unit, false)})
	}
}

func (c *winConnector) pressAndRelease(vk uint32, extended bool) error {
	return sendInputs([]input{keyInput(vk, extended, true), keyInput(vk, extended, false)})
}

// SendClick moves the cursor to the absolute virtual-desktop coordinates
// and emits a left-button down/up pair.
func (c *winConnector) SendClick(dx, dy uint16) error {
	move := input{Type: inputMouse, MI: mouseInput{
		Dx: int32(dx), Dy: int32(dy),
		Flags: mouseeventfMove | mouseeventfAbsolute,
	}}
	down := input{Type: inputMouse, MI: mouseInput{
		Dx: int32(dx), Dy: int32(dy),
		Flags: mouseeventfMove | mouseeventfAbsolute | mouseeventfLeftdown,
	}}
	up := input{Type: inputMouse, MI: mouseInput{
		Dx: int32(dx), Dy: int32(dy),
		Flags: mouseeventfMove | mouseeventfAbsolute | mouseeventfLeftup,
	}}
	if err := sendInputs([]input{move}); err != nil {
		return err
	}
	return sendInputs([]input{down, up})
}

// MoveCursor emits an absolute move with no button transition, positioning
// the wheel events SendScroll emits next.
func (c *winConnector) MoveCursor(dx, dy uint16) error {
	return sendInputs([]input{{Type: inputMouse, MI: mouseInput{
		Dx: int32(dx), Dy: int32(dy),
		Flags: mouseeventfMove | mouseeventfAbsolute,
	}}})
}

// SendScroll emits a mouse-wheel (or horizontal-wheel) event scaled by
// ticks * WHEEL_DELTA at the current cursor position.
func (c *winConnector) SendScroll(ticks int, horizontal bool) error {
	flag := uint32(mouseeventfWheel)
	if horizontal {
		flag = mouseeventfHwheel
	}
	in := input{Type: inputMouse, MI: mouseInput{
		MouseData: uint32(int32(ticks * wheelDelta)),
		Flags:     flag,
	}}
	return sendInputs([]input{in})
}
