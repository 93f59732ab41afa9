//go:build windows

package platform

import (
	"context"
	"fmt"
	"syscall"
	"unsafe"

	"github.com/directshell/core/internal/model"
	"github.com/directshell/core/internal/roletable"
)

// This file hand-rolls the minimal slice of the UI Automation COM interface
// DirectShell needs (no cgo, no go-ole): CoCreateInstance the CUIAutomation
// coclass, walk the raw (unfiltered) view with IUIAutomationTreeWalker, and
// read the handful of typed element properties §3 lists. Vtable slot numbers
// below follow the declaration order in the public UIAutomationClient IDL;
// only the slots DirectShell calls are named, the rest are skipped by
// address arithmetic rather than spelled out as struct padding.

var (
	ole32                  = syscall.NewLazyDLL("ole32.dll")
	oleaut32               = syscall.NewLazyDLL("oleaut32.dll")
	procCoInitializeEx     = ole32.NewProc("CoInitializeEx")
	procCoUninitialize     = ole32.NewProc("CoUninitialize")
	procCoCreateInstance   = ole32.NewProc("CoCreateInstance")
	procSysAllocStringLen  = oleaut32.NewProc("SysAllocStringLen")
	procSysFreeString      = oleaut32.NewProc("SysFreeString")
	procSysStringLen       = oleaut32.NewProc("SysStringLen")
)

const (
	coinitApartmentthreaded = 0x2
	clsctxInprocServer      = 0x1

	uiaValuePatternId = 10002

	vtblQueryInterface = 0
	vtblAddRef         = 1
	vtblRelease        = 2

	// IUIAutomation
	vtblElementFromHandle              = 6
	vtblGetFocusedElement              = 8
	vtblCreateTreeWalker               = 13
	vtblGetRawViewWalker               = 16
	vtblAddFocusChangedEventHandler    = 39
	vtblRemoveFocusChangedEventHandler = 40

	// IUIAutomationTreeWalker
	vtblGetFirstChildElement = 3
	vtblGetNextSiblingElement = 5

	// IUIAutomationElement
	vtblElementSetFocus                   = 3
	vtblGetCurrentPattern                 = 16
	vtblGetCurrentControlType             = 21
	vtblGetCurrentName                    = 23
	vtblGetCurrentIsKeyboardFocusable     = 27
	vtblGetCurrentIsEnabled               = 28
	vtblGetCurrentAutomationId            = 29
	vtblGetCurrentIsOffscreen             = 38
	vtblGetCurrentBoundingRectangle       = 43

	// IUIAutomationValuePattern
	vtblValueSetValue        = 3
	vtblValueGetCurrentValue = 4
)

// CLSID_CUIAutomation / IID_IUIAutomation (documented GUIDs).
var (
	clsidCUIAutomation = syscall.GUID{Data1: 0xff48dba4, Data2: 0x60ef, Data3: 0x4201, Data4: [8]byte{0xaa, 0x87, 0x54, 0x10, 0x3e, 0xef, 0x59, 0x4e}}
	iidIUIAutomation   = syscall.GUID{Data1: 0x30cbe57d, Data2: 0x9cf4, Data3: 0x4d3e, Data4: [8]byte{0x8b, 0x23, 0x77, 0x10, 0x5f, 0x96, 0x89, 0x13}}
	iidIUIAutomationValuePattern = syscall.GUID{Data1: 0xa94cd8b1, Data2: 0x0844, Data3: 0x4cd6, Data4: [8]byte{0x9d, 0x2d, 0x64, 0x0f, 0x72, 0x65, 0xb5, 0x90}}
)

type uiaRectStruct struct{ Left, Top, Width, Height float64 }

// comObject is a raw COM interface pointer. Method calls index its vtable
// directly via vtblCall rather than a generated interface stub.
type comObject unsafe.Pointer

func vtblCall(this comObject, slot int, args ...uintptr) (uintptr, error) {
	if this == nil {
		return 0, fmt.Errorf("nil COM interface pointer")
	}
	vtbl := *(*uintptr)(unsafe.Pointer(this))
	fn := *(*uintptr)(unsafe.Pointer(vtbl + uintptr(slot)*unsafe.Sizeof(uintptr(0))))
	all := append([]uintptr{uintptr(unsafe.Pointer(this))}, args...)
	ret, _, _ := syscall.SyscallN(fn, all...)
	return ret, nil
}

func (o comObject) release() {
	if o != nil {
		vtblCall(o, vtblRelease)
	}
}

func sysAllocString(s string) uintptr {
	u16 := syscall.StringToUTF16(s)
	// length excludes the trailing NUL SysAllocStringLen appends itself.
	ptr, _, _ := procSysAllocStringLen.Call(uintptr(unsafe.Pointer(&u16[0])), uintptr(len(u16)-1))
	return ptr
}

func bstrToString(bstr uintptr) string {
	if bstr == 0 {
		return ""
	}
	length, _, _ := procSysStringLen.Call(bstr)
	if length == 0 {
		return ""
	}
	slice := unsafe.Slice((*uint16)(unsafe.Pointer(bstr)), length)
	return syscall.UTF16ToString(slice)
}

func freeBSTR(bstr uintptr) {
	if bstr != 0 {
		procSysFreeString.Call(bstr)
	}
}

// uiaSession owns one CoInitializeEx/CUIAutomation lifetime, scoped to a
// single dump cycle.
type uiaSession struct {
	automation comObject
	rawWalker  comObject
}

func newUIASession() (*uiaSession, error) {
	procCoInitializeEx.Call(0, coinitApartmentthreaded)

	var automationPtr uintptr
	hr, _, _ := procCoCreateInstance.Call(
		uintptr(unsafe.Pointer(&clsidCUIAutomation)),
		0,
		clsctxInprocServer,
		uintptr(unsafe.Pointer(&iidIUIAutomation)),
		uintptr(unsafe.Pointer(&automationPtr)),
	)
	if hr != 0 || automationPtr == 0 {
		procCoUninitialize.Call()
		return nil, fmt.Errorf("CoCreateInstance(CUIAutomation) failed: hr=%#x", hr)
	}
	automation := comObject(unsafe.Pointer(automationPtr))

	var walkerPtr uintptr
	if _, err := vtblCall(automation, vtblGetRawViewWalker, uintptr(unsafe.Pointer(&walkerPtr))); err != nil {
		automation.release()
		procCoUninitialize.Call()
		return nil, err
	}

	return &uiaSession{automation: automation, rawWalker: comObject(unsafe.Pointer(walkerPtr))}, nil
}

func (s *uiaSession) Close() {
	s.rawWalker.release()
	s.automation.release()
	procCoUninitialize.Call()
}

func (s *uiaSession) elementFromHandle(hwnd uintptr) (comObject, error) {
	var elemPtr uintptr
	if _, err := vtblCall(s.automation, vtblElementFromHandle, hwnd, uintptr(unsafe.Pointer(&elemPtr))); err != nil {
		return nil, err
	}
	if elemPtr == 0 {
		return nil, fmt.Errorf("ElementFromHandle returned null for hwnd %d", hwnd)
	}
	return comObject(unsafe.Pointer(elemPtr)), nil
}

func (s *uiaSession) firstChild(elem comObject) (comObject, bool) {
	var childPtr uintptr
	vtblCall(s.rawWalker, vtblGetFirstChildElement, uintptr(unsafe.Pointer(elem)), uintptr(unsafe.Pointer(&childPtr)))
	if childPtr == 0 {
		return nil, false
	}
	return comObject(unsafe.Pointer(childPtr)), true
}

func (s *uiaSession) nextSibling(elem comObject) (comObject, bool) {
	var nextPtr uintptr
	vtblCall(s.rawWalker, vtblGetNextSiblingElement, uintptr(unsafe.Pointer(elem)), uintptr(unsafe.Pointer(&nextPtr)))
	if nextPtr == 0 {
		return nil, false
	}
	return comObject(unsafe.Pointer(nextPtr)), true
}

func elementControlType(elem comObject) int {
	var ct int32
	vtblCall(elem, vtblGetCurrentControlType, uintptr(unsafe.Pointer(&ct)))
	return int(ct)
}

func elementName(elem comObject) string {
	var bstr uintptr
	vtblCall(elem, vtblGetCurrentName, uintptr(unsafe.Pointer(&bstr)))
	defer freeBSTR(bstr)
	return bstrToString(bstr)
}

func elementAutomationID(elem comObject) string {
	var bstr uintptr
	vtblCall(elem, vtblGetCurrentAutomationId, uintptr(unsafe.Pointer(&bstr)))
	defer freeBSTR(bstr)
	return bstrToString(bstr)
}

func elementKeyboardFocusable(elem comObject) bool {
	var v int32
	vtblCall(elem, vtblGetCurrentIsKeyboardFocusable, uintptr(unsafe.Pointer(&v)))
	return v != 0
}

func elementEnabled(elem comObject) bool {
	var v int32
	vtblCall(elem, vtblGetCurrentIsEnabled, uintptr(unsafe.Pointer(&v)))
	return v != 0
}

func elementOffscreen(elem comObject) bool {
	var v int32
	vtblCall(elem, vtblGetCurrentIsOffscreen, uintptr(unsafe.Pointer(&v)))
	return v != 0
}

func elementRect(elem comObject) model.Rect {
	var r uiaRectStruct
	vtblCall(elem, vtblGetCurrentBoundingRectangle, uintptr(unsafe.Pointer(&r)))
	return model.Rect{X: int(r.Left), Y: int(r.Top), W: int(r.Width), H: int(r.Height)}
}

func elementValuePattern(elem comObject) (comObject, bool) {
	var patternPtr uintptr
	vtblCall(elem, vtblGetCurrentPattern, uintptr(uiaValuePatternId), uintptr(unsafe.Pointer(&patternPtr)))
	if patternPtr == 0 {
		return nil, false
	}
	return comObject(unsafe.Pointer(patternPtr)), true
}

func elementValue(elem comObject) string {
	pattern, ok := elementValuePattern(elem)
	if !ok {
		return ""
	}
	defer pattern.release()
	var bstr uintptr
	vtblCall(pattern, vtblValueGetCurrentValue, uintptr(unsafe.Pointer(&bstr)))
	defer freeBSTR(bstr)
	return bstrToString(bstr)
}

func setValuePattern(elem comObject, text string) error {
	pattern, ok := elementValuePattern(elem)
	if !ok {
		return ErrPatternUnavailable
	}
	defer pattern.release()
	bstr := sysAllocString(text)
	defer freeBSTR(bstr)
	hr, err := vtblCall(pattern, vtblValueSetValue, bstr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPatternUnavailable, err)
	}
	if int32(hr) < 0 {
		return fmt.Errorf("%w: SetValue hr=%#x", ErrPatternUnavailable, uint32(hr))
	}
	return nil
}

// WalkTree performs the depth-first, pre-order, unfiltered traversal:
// no depth limit, no child-count limit, bounded
// only by ctx's deadline.
func (c *winConnector) WalkTree(ctx context.Context, hwnd uintptr) ([]model.Element, error) {
	session, err := newUIASession()
	if err != nil {
		return nil, err
	}
	defer session.Close()

	root, err := session.elementFromHandle(hwnd)
	if err != nil {
		return nil, err
	}

	var elements []model.Element
	var visit func(elem comObject, parentID, depth int) error
	nextID := 1

	visit = func(elem comObject, parentID, depth int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		id := nextID
		nextID++

		role := roletable.RoleFromControlType(elementControlType(elem))
		el := model.Element{
			ID:           id,
			ParentID:     parentID,
			Depth:        depth,
			Role:         role,
			Name:         elementName(elem),
			AutomationID: elementAutomationID(elem),
			Enabled:      elementEnabled(elem),
			Offscreen:    elementOffscreen(elem),
			Rect:         elementRect(elem),
		}
		if roletable.InputTargetRoles[role] {
			el.Value = elementValue(elem)
		}
		elements = append(elements, el)

		child, ok := session.firstChild(elem)
		for ok {
			if err := visit(child, id, depth+1); err != nil {
				return err
			}
			next, nok := session.nextSibling(child)
			child, ok = next, nok
		}
		return nil
	}

	if err := visit(root, 0, 0); err != nil {
		return elements, err
	}
	return elements, nil
}

// SetValue implements the preferred value-pattern path for text actions.
// Callers fall back to per-character injection when this returns
// ErrPatternUnavailable.
func (c *winConnector) SetValue(hwnd uintptr, target string, text string) error {
	session, err := newUIASession()
	if err != nil {
		return err
	}
	defer session.Close()

	root, err := session.elementFromHandle(hwnd)
	if err != nil {
		return err
	}

	elem, ok := findInputTarget(session, root, target)
	if !ok {
		return ErrPatternUnavailable
	}

	vtblCall(elem, vtblElementSetFocus)
	current := elementValue(elem)
	return setValuePattern(elem, current+text)
}

// findInputTarget finds the first descendant that is keyboard-focusable,
// exposes the value pattern, and (if target is non-empty) matches target by
// name.
func findInputTarget(session *uiaSession, root comObject, target string) (comObject, bool) {
	var found comObject
	var ok bool
	var walk func(elem comObject)
	walk = func(elem comObject) {
		if ok {
			return
		}
		if _, hasPattern := elementValuePattern(elem); hasPattern && elementKeyboardFocusable(elem) {
			if target == "" || elementName(elem) == target {
				found, ok = elem, true
				return
			}
		}
		child, hasChild := session.firstChild(elem)
		for hasChild && !ok {
			walk(child)
			next, nok := session.nextSibling(child)
			child, hasChild = next, nok
		}
	}
	walk(root)
	return found, ok
}

// FocusedElementName queries the live focused element via
// IUIAutomation::GetFocusedElement.
func (c *winConnector) FocusedElementName() (string, error) {
	session, err := newUIASession()
	if err != nil {
		return "", err
	}
	defer session.Close()

	var elemPtr uintptr
	vtblCall(session.automation, vtblGetFocusedElement, uintptr(unsafe.Pointer(&elemPtr)))
	if elemPtr == 0 {
		return "", fmt.Errorf("no focused element")
	}
	elem := comObject(unsafe.Pointer(elemPtr))
	defer elem.release()
	return elementName(elem), nil
}

// CaptionGeometry probes hwnd's title-bar height and the leftmost caption-
// button offset from the right edge with a shallow query: only the root's
// immediate children are scanned for the title bar, and only the title
// bar's children for its buttons.
func (c *winConnector) CaptionGeometry(hwnd uintptr) (int, int, error) {
	session, err := newUIASession()
	if err != nil {
		return 0, 0, err
	}
	defer session.Close()

	root, err := session.elementFromHandle(hwnd)
	if err != nil {
		return 0, 0, err
	}

	winRect, err := c.WindowRect(hwnd)
	if err != nil {
		return 0, 0, err
	}

	child, ok := session.firstChild(root)
	for ok {
		if roletable.RoleFromControlType(elementControlType(child)) == model.RoleTitleBar {
			titleRect := elementRect(child)

			buttonsLeft := 0
			minX := -1
			btn, hasBtn := session.firstChild(child)
			for hasBtn {
				if r := elementRect(btn); r.W > 0 && (minX == -1 || r.X < minX) {
					minX = r.X
				}
				next, nok := session.nextSibling(btn)
				btn, hasBtn = next, nok
			}
			if minX >= 0 {
				buttonsLeft = winRect.X + winRect.W - minX
			}
			return titleRect.H, buttonsLeft, nil
		}
		next, nok := session.nextSibling(child)
		child, ok = next, nok
	}
	return 0, 0, fmt.Errorf("no title bar element under hwnd %d", hwnd)
}

// ResolveElementCenter finds the first descendant named target and returns
// the screen-coordinate center of its bounding rect.
func (c *winConnector) ResolveElementCenter(hwnd uintptr, target string) (int, int, error) {
	session, err := newUIASession()
	if err != nil {
		return 0, 0, err
	}
	defer session.Close()

	root, err := session.elementFromHandle(hwnd)
	if err != nil {
		return 0, 0, err
	}

	var found comObject
	var walk func(elem comObject) bool
	walk = func(elem comObject) bool {
		if elementName(elem) == target {
			found = elem
			return true
		}
		child, ok := session.firstChild(elem)
		for ok {
			if walk(child) {
				return true
			}
			next, nok := session.nextSibling(child)
			child, ok = next, nok
		}
		return false
	}
	if !walk(root) {
		return 0, 0, fmt.Errorf("%w: no element named %q", ErrNotSupported, target)
	}
	x, y := elementRect(found).Center()
	return x, y, nil
}
