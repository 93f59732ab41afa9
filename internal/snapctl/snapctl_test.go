package snapctl

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/directshell/core/internal/activation"
	"github.com/directshell/core/internal/app"
	"github.com/directshell/core/internal/platform"
	"github.com/directshell/core/internal/state"
	"github.com/directshell/core/internal/store"
)

type snapConnector struct {
	platform.NopConnector
	isWindow bool
	title    string
}

func (s *snapConnector) IsWindow(uintptr) bool               { return s.isWindow }
func (s *snapConnector) IsCandidateTarget(uintptr) bool      { return s.isWindow }
func (s *snapConnector) WindowTitle(uintptr) (string, error) { return s.title, nil }

func newTestController(t *testing.T, conn platform.Connector) (*Controller, string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DIRECTSHELL_PROFILE_DIR", dir)

	act := activation.New(conn, app.Settings{})
	act.Sleep = func(time.Duration) {}
	return New(conn, state.New(), app.Settings{}, act), dir
}

func readIsActive(t *testing.T, dir string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "is_active"))
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestSnap_DerivesAppNameAndWritesActiveStatus(t *testing.T) {
	conn := &snapConnector{isWindow: true, title: "MyApp – Untitled"}
	c, dir := newTestController(t, conn)

	require.NoError(t, c.Snap(context.Background(), 42))

	require.True(t, c.Shared.Snapped())
	require.Equal(t, uint64(42), c.Shared.Target())
	require.Equal(t, "untitled", c.Shared.AppName())
	require.Equal(t, filepath.Join(dir, "untitled.db"), c.Shared.DBPath())

	lines := readIsActive(t, dir)
	require.Len(t, lines, 3)
	require.Equal(t, "untitled", lines[0])
	require.Equal(t, filepath.Join(dir, "untitled.a11y"), lines[1])
	require.Equal(t, filepath.Join(dir, "untitled.snap"), lines[2])

	// The per-app store exists with the inject queue migrated.
	db, err := store.InitDBWithPath(c.Shared.DBPath())
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	n, err := store.PendingActions(context.Background(), db)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestSnap_RejectsDeadTarget(t *testing.T) {
	conn := &snapConnector{isWindow: false}
	c, _ := newTestController(t, conn)

	err := c.Snap(context.Background(), 42)
	require.ErrorIs(t, err, store.ErrTargetGone)
	require.False(t, c.Shared.Snapped())
}

func TestUnsnap_WritesNoneAndResets(t *testing.T) {
	conn := &snapConnector{isWindow: true, title: "Editor - notes.txt"}
	c, dir := newTestController(t, conn)

	require.NoError(t, c.Snap(context.Background(), 7))
	c.Unsnap()

	require.False(t, c.Shared.Snapped())
	require.Zero(t, c.Shared.Target())
	require.Equal(t, []string{"none"}, readIsActive(t, dir))

	// The store file survives unsnap (spec lifecycle: persists across
	// snap/unsnap and restarts).
	_, err := os.Stat(filepath.Join(dir, "notes_txt.db"))
	require.NoError(t, err)
}

func TestSnap_ResnapReplacesTarget(t *testing.T) {
	conn := &snapConnector{isWindow: true, title: "First – One"}
	c, dir := newTestController(t, conn)

	require.NoError(t, c.Snap(context.Background(), 1))
	conn.title = "Second – Two"
	require.NoError(t, c.Snap(context.Background(), 2))

	require.Equal(t, uint64(2), c.Shared.Target())
	require.Equal(t, "two", c.Shared.AppName())
	require.Equal(t, "two", readIsActive(t, dir)[0])
}

func TestObserve_TargetGoneAutoUnsnaps(t *testing.T) {
	conn := &snapConnector{isWindow: true, title: "App – Doc"}
	c, dir := newTestController(t, conn)

	require.NoError(t, c.Snap(context.Background(), 5))
	c.observe(store.ErrTargetGone, "dispatch")

	require.False(t, c.Shared.Snapped())
	require.Equal(t, []string{"none"}, readIsActive(t, dir))
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	conn := &snapConnector{isWindow: true, title: "App – Doc"}
	c, _ := newTestController(t, conn)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on context cancel")
	}
}
