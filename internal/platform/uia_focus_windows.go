//go:build windows

package platform

import (
	"fmt"
	"sync"
	"sync/atomic"
	"syscall"
	"unsafe"
)

// The activation protocol needs one registered accessibility event listener
// per process: its mere registration is what keeps the clients-are-listening
// signal true in lazy-tree engines. This file
// hand-rolls the IUIAutomationFocusChangedEventHandler vtable the same way
// uia_windows.go hand-rolls the client side: a C-layout struct whose first
// field points at a table of syscall.NewCallback thunks.

var (
	iidIUnknown = syscall.GUID{Data1: 0x00000000, Data2: 0x0000, Data3: 0x0000, Data4: [8]byte{0xc0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x46}}

	iidIUIAutomationFocusChangedEventHandler = syscall.GUID{Data1: 0xc270f6b5, Data2: 0x5a3b, Data3: 0x4f70, Data4: [8]byte{0x80, 0x2e, 0x3f, 0xc1, 0xca, 0xf4, 0x28, 0x0f}}
)

const (
	hrSOK          = 0x0
	hrENoInterface = 0x80004002
)

// focusHandler is the no-op handler instance. Field order matters: COM sees
// the struct through its first field, the vtable pointer.
type focusHandler struct {
	vtbl     *focusHandlerVtbl
	refCount int32
}

type focusHandlerVtbl struct {
	QueryInterface          uintptr
	AddRef                  uintptr
	Release                 uintptr
	HandleFocusChangedEvent uintptr
}

// The thunks are created once per process: syscall.NewCallback never frees
// its trampolines, and one vtable serves every handler instance.
var (
	focusVtblOnce sync.Once
	focusVtbl     focusHandlerVtbl
)

func focusVtblPtr() *focusHandlerVtbl {
	focusVtblOnce.Do(func() {
		focusVtbl = focusHandlerVtbl{
			QueryInterface:          syscall.NewCallback(focusHandlerQI),
			AddRef:                  syscall.NewCallback(focusHandlerAddRef),
			Release:                 syscall.NewCallback(focusHandlerRelease),
			HandleFocusChangedEvent: syscall.NewCallback(focusHandlerInvoke),
		}
	})
	return &focusVtbl
}

func focusHandlerQI(this uintptr, riid *syscall.GUID, ppv *uintptr) uintptr {
	if *riid == iidIUnknown || *riid == iidIUIAutomationFocusChangedEventHandler {
		*ppv = this
		focusHandlerAddRef(this)
		return hrSOK
	}
	*ppv = 0
	return hrENoInterface
}

func focusHandlerAddRef(this uintptr) uintptr {
	h := (*focusHandler)(unsafe.Pointer(this))
	return uintptr(atomic.AddInt32(&h.refCount, 1))
}

func focusHandlerRelease(this uintptr) uintptr {
	h := (*focusHandler)(unsafe.Pointer(this))
	n := atomic.AddInt32(&h.refCount, -1)
	// Never freed: the instance is pinned by liveFocusHandlers for the
	// process lifetime.
	if n < 0 {
		n = 0
	}
	return uintptr(n)
}

func focusHandlerInvoke(this uintptr, sender uintptr) uintptr {
	// No-op by contract: registration, not reaction, is the product.
	if sender != 0 {
		comObject(unsafe.Pointer(sender)).release()
	}
	return hrSOK
}

// liveFocusHandlers pins registered handler instances so the GC never moves
// or collects memory COM holds a raw pointer into.
//
//nolint:gochecknoglobals // deliberate process-lifetime pin
var (
	liveFocusHandlersMu sync.Mutex
	liveFocusHandlers   []*focusHandler
)

// RegisterFocusListener allocates the no-op focus handler and registers it
// on the automation root. The uiaSession backing the registration is
// deliberately not closed on return — the live registration is the whole
// point. The returned remove func initializes its own COM context because
// it is expected to run on a detached worker thread and may block for
// seconds on a degraded target.
func (c *winConnector) RegisterFocusListener() (func(), error) {
	session, err := newUIASession()
	if err != nil {
		return func() {}, err
	}

	h := &focusHandler{vtbl: focusVtblPtr(), refCount: 1}
	liveFocusHandlersMu.Lock()
	liveFocusHandlers = append(liveFocusHandlers, h)
	liveFocusHandlersMu.Unlock()

	hr, _ := vtblCall(session.automation, vtblAddFocusChangedEventHandler,
		0, // no cache request
		uintptr(unsafe.Pointer(h)),
	)
	if hr != hrSOK {
		session.Close()
		return func() {}, fmt.Errorf("AddFocusChangedEventHandler failed: hr=%#x", hr)
	}

	remove := func() {
		procCoInitializeEx.Call(0, coinitApartmentthreaded)
		vtblCall(session.automation, vtblRemoveFocusChangedEventHandler, uintptr(unsafe.Pointer(h)))
		session.Close()
	}
	return remove, nil
}
