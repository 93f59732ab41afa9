package dispatch

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/directshell/core/internal/app"
	"github.com/directshell/core/internal/model"
	"github.com/directshell/core/internal/platform"
	"github.com/directshell/core/internal/state"
	"github.com/directshell/core/internal/store"
)

// recordingConnector records every injection call so tests can assert the
// exact event sequence a dispatched action produces.
type recordingConnector struct {
	isWindow     bool
	fgHWND       uintptr
	setValueErr  error
	resolveX     int
	resolveY     int
	resolveErr   error
	windowRect   model.Rect
	virtualRect  platform.VirtualScreen
	calls        []string
}

func (r *recordingConnector) record(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recordingConnector) ForegroundWindow() (platform.Window, error) {
	return platform.Window{HWND: r.fgHWND}, nil
}
func (r *recordingConnector) IsWindow(uintptr) bool               { return r.isWindow }
func (r *recordingConnector) IsCandidateTarget(uintptr) bool      { return r.isWindow }
func (r *recordingConnector) WindowTitle(uintptr) (string, error) { return "", nil }
func (r *recordingConnector) FocusedElementName() (string, error) { return "", nil }
func (r *recordingConnector) WindowRect(uintptr) (model.Rect, error) {
	return r.windowRect, nil
}
func (r *recordingConnector) SetForeground(uintptr) error {
	r.record("foreground")
	return nil
}
func (r *recordingConnector) VirtualScreenExtents() (platform.VirtualScreen, error) {
	return r.virtualRect, nil
}
func (r *recordingConnector) WalkTree(context.Context, uintptr) ([]model.Element, error) {
	return nil, nil
}
func (r *recordingConnector) SetValue(_ uintptr, target, text string) error {
	if r.setValueErr != nil {
		return r.setValueErr
	}
	r.record("setvalue %q %q", target, text)
	return nil
}
func (r *recordingConnector) SendUnicodeChar(unit uint16) error {
	r.record("unicode %#x", unit)
	return nil
}
func (r *recordingConnector) SendVirtualKey(vk uint32, extended, down bool) error {
	r.record("vk %#x ext=%v down=%v", vk, extended, down)
	return nil
}
func (r *recordingConnector) SendClick(dx, dy uint16) error {
	r.record("click %d,%d", dx, dy)
	return nil
}
func (r *recordingConnector) MoveCursor(dx, dy uint16) error {
	r.record("move %d,%d", dx, dy)
	return nil
}
func (r *recordingConnector) SendScroll(ticks int, horizontal bool) error {
	r.record("scroll %d horiz=%v", ticks, horizontal)
	return nil
}
func (r *recordingConnector) ResolveElementCenter(_ uintptr, target string) (int, int, error) {
	if r.resolveErr != nil {
		return 0, 0, r.resolveErr
	}
	return r.resolveX, r.resolveY, nil
}
func (r *recordingConnector) SetScreenReaderFlag(bool) error    { return nil }
func (r *recordingConnector) NotifySettingChange(uintptr) error { return nil }
func (r *recordingConnector) RegisterFocusListener() (func(), error) {
	return func() {}, nil
}
func (r *recordingConnector) ProbeDescendants(uintptr) error { return nil }
func (r *recordingConnector) CaptionGeometry(uintptr) (int, int, error) {
	return 0, 0, nil
}
func (r *recordingConnector) InstallKeyboardHook(func(platform.KeyEvent)) (func(), error) {
	return func() {}, nil
}

func newTestDispatcher(t *testing.T, conn *recordingConnector) (*Dispatcher, *sql.DB) {
	t.Helper()
	db, err := store.InitDBWithPath(t.TempDir() + "/dispatch.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	shared := state.New()
	shared.SetSnapped(true)
	shared.SetTarget(42)
	conn.fgHWND = 42 // already foreground unless a test says otherwise

	d := New(conn, shared, app.Settings{})
	d.Sleep = func(time.Duration) {}
	return d, db
}

func TestTick_NoTargetIsNoop(t *testing.T) {
	conn := &recordingConnector{isWindow: true}
	d, db := newTestDispatcher(t, conn)
	d.Shared.Reset()

	require.NoError(t, d.Tick(context.Background(), db))
	require.Empty(t, conn.calls)
}

func TestTick_TargetGoneResetsShared(t *testing.T) {
	conn := &recordingConnector{isWindow: false}
	d, db := newTestDispatcher(t, conn)

	err := d.Tick(context.Background(), db)
	require.ErrorIs(t, err, store.ErrTargetGone)
	require.False(t, d.Shared.Snapped())
}

func TestTick_EmptyQueueSendsNothing(t *testing.T) {
	conn := &recordingConnector{isWindow: true}
	d, db := newTestDispatcher(t, conn)

	require.NoError(t, d.Tick(context.Background(), db))
	require.Empty(t, conn.calls)
}

func TestTick_TextPrefersValuePattern(t *testing.T) {
	conn := &recordingConnector{isWindow: true}
	d, db := newTestDispatcher(t, conn)
	ctx := context.Background()

	id, err := store.InsertAction(ctx, db, model.ActionText, "Hello", "Document")
	require.NoError(t, err)

	require.NoError(t, d.Tick(ctx, db))
	require.Equal(t, []string{`setvalue "Document" "Hello"`}, conn.calls)

	var done int
	require.NoError(t, db.QueryRow(`SELECT done FROM inject WHERE id = ?`, id).Scan(&done))
	require.Equal(t, 1, done)
}

func TestTick_TextFallsBackToPerCharOnPatternReject(t *testing.T) {
	conn := &recordingConnector{isWindow: true, setValueErr: platform.ErrPatternUnavailable}
	d, db := newTestDispatcher(t, conn)
	ctx := context.Background()

	_, err := store.InsertAction(ctx, db, model.ActionText, "hi", "")
	require.NoError(t, err)

	require.NoError(t, d.Tick(ctx, db))
	require.Equal(t, []string{"unicode 0x68", "unicode 0x69"}, conn.calls)
}

func TestTick_TypeEmitsSurrogatePairs(t *testing.T) {
	conn := &recordingConnector{isWindow: true}
	d, db := newTestDispatcher(t, conn)
	ctx := context.Background()

	// U+1F600 must become two code-unit events, not one.
	_, err := store.InsertAction(ctx, db, model.ActionType, "\U0001F600", "")
	require.NoError(t, err)

	require.NoError(t, d.Tick(ctx, db))
	require.Equal(t, []string{"unicode 0xd83d", "unicode 0xde00"}, conn.calls)
}

func TestTick_KeyComboOrdersModifiers(t *testing.T) {
	conn := &recordingConnector{isWindow: true}
	d, db := newTestDispatcher(t, conn)
	ctx := context.Background()

	_, err := store.InsertAction(ctx, db, model.ActionKey, "ctrl+shift+a", "")
	require.NoError(t, err)

	require.NoError(t, d.Tick(ctx, db))
	require.Equal(t, []string{
		"vk 0x11 ext=false down=true",  // ctrl down
		"vk 0x10 ext=false down=true",  // shift down
		"vk 0x41 ext=false down=true",  // a down
		"vk 0x41 ext=false down=false", // a up
		"vk 0x10 ext=false down=false", // shift up (reverse order)
		"vk 0x11 ext=false down=false", // ctrl up
	}, conn.calls)
}

func TestTick_ClickScalesAcrossVirtualScreen(t *testing.T) {
	// Secondary monitor to the right of a 1920-wide primary: virtual screen
	// spans 0..3840. Element center at (2500, 500) must land there, not at
	// the primary-scaled (500, 500).
	conn := &recordingConnector{
		isWindow:    true,
		resolveX:    2500,
		resolveY:    500,
		virtualRect: platform.VirtualScreen{OriginX: 0, OriginY: 0, Width: 3840, Height: 1080},
	}
	d, db := newTestDispatcher(t, conn)
	ctx := context.Background()

	_, err := store.InsertAction(ctx, db, model.ActionClick, "", "Save")
	require.NoError(t, err)

	require.NoError(t, d.Tick(ctx, db))

	wantX, wantY := platform.ScaleToVirtualDesktop(2500, 500, conn.virtualRect)
	require.Equal(t, []string{fmt.Sprintf("click %d,%d", wantX, wantY)}, conn.calls)
}

func TestTick_ResolveMissRequeuesAction(t *testing.T) {
	conn := &recordingConnector{isWindow: true, resolveErr: fmt.Errorf("not found")}
	d, db := newTestDispatcher(t, conn)
	ctx := context.Background()

	id, err := store.InsertAction(ctx, db, model.ActionClick, "", "Missing")
	require.NoError(t, err)

	require.NoError(t, d.Tick(ctx, db))
	require.Empty(t, conn.calls)

	// The row returned to done=0 for the next tick.
	var done int
	require.NoError(t, db.QueryRow(`SELECT done FROM inject WHERE id = ?`, id).Scan(&done))
	require.Equal(t, 0, done)
}

func TestTick_ScrollMovesToWindowCenter(t *testing.T) {
	conn := &recordingConnector{
		isWindow:    true,
		windowRect:  model.Rect{X: 100, Y: 100, W: 200, H: 200},
		virtualRect: platform.VirtualScreen{Width: 1920, Height: 1080},
	}
	d, db := newTestDispatcher(t, conn)
	ctx := context.Background()

	_, err := store.InsertAction(ctx, db, model.ActionScroll, "down", "")
	require.NoError(t, err)

	require.NoError(t, d.Tick(ctx, db))

	wantX, wantY := platform.ScaleToVirtualDesktop(200, 200, conn.virtualRect)
	require.Equal(t, []string{
		fmt.Sprintf("move %d,%d", wantX, wantY),
		"scroll -1 horiz=false",
	}, conn.calls)
}

func TestTick_ForegroundHandoffBeforeInjection(t *testing.T) {
	conn := &recordingConnector{isWindow: true}
	d, db := newTestDispatcher(t, conn)
	conn.fgHWND = 7 // some other window has focus
	ctx := context.Background()

	_, err := store.InsertAction(ctx, db, model.ActionKey, "enter", "")
	require.NoError(t, err)

	require.NoError(t, d.Tick(ctx, db))
	require.Equal(t, "foreground", conn.calls[0])
}

func TestTick_DrainsInIDOrder(t *testing.T) {
	conn := &recordingConnector{isWindow: true}
	d, db := newTestDispatcher(t, conn)
	ctx := context.Background()

	_, err := store.InsertAction(ctx, db, model.ActionType, "a", "")
	require.NoError(t, err)
	_, err = store.InsertAction(ctx, db, model.ActionType, "b", "")
	require.NoError(t, err)

	require.NoError(t, d.Tick(ctx, db))
	require.NoError(t, d.Tick(ctx, db))
	require.Equal(t, []string{"unicode 0x61", "unicode 0x62"}, conn.calls)
}
