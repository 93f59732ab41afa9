package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/directshell/core/internal/model"
)

func testMeta() model.WindowMeta {
	return model.WindowMeta{
		Window:      "Notepad",
		HWND:        "12345",
		TimestampMS: 1000,
		Rect:        model.Rect{X: 0, Y: 0, W: 800, H: 600},
	}
}

func TestPersist_CreatesTablesAndRows(t *testing.T) {
	db, err := InitDBWithPath(t.TempDir() + "/persist.db")
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	elements := []model.Element{
		{ID: 1, ParentID: 0, Depth: 0, Role: model.RoleWindow, Name: "Notepad"},
		{ID: 2, ParentID: 1, Depth: 1, Role: model.RoleEdit, Name: "", Value: "hello"},
	}

	require.NoError(t, Persist(context.Background(), db, elements, testMeta(), 200))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM elements`).Scan(&count))
	require.Equal(t, 2, count)

	var window string
	require.NoError(t, db.QueryRow(`SELECT value FROM meta WHERE key = 'window'`).Scan(&window))
	require.Equal(t, "Notepad", window)

	var width string
	require.NoError(t, db.QueryRow(`SELECT value FROM meta WHERE key = 'w'`).Scan(&width))
	require.Equal(t, "800", width)

	var value string
	require.NoError(t, db.QueryRow(`SELECT value FROM elements WHERE id = 2`).Scan(&value))
	require.Equal(t, "hello", value)
}

func TestPersist_DropsAndRecreatesOnSecondRun(t *testing.T) {
	db, err := InitDBWithPath(t.TempDir() + "/persist_rerun.db")
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	first := []model.Element{{ID: 1, Role: model.RoleButton, Name: "OK"}}
	require.NoError(t, Persist(context.Background(), db, first, testMeta(), 200))

	second := []model.Element{{ID: 1, Role: model.RoleButton, Name: "Cancel"}}
	require.NoError(t, Persist(context.Background(), db, second, testMeta(), 200))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM elements`).Scan(&count))
	require.Equal(t, 1, count)

	var name string
	require.NoError(t, db.QueryRow(`SELECT name FROM elements WHERE id = 1`).Scan(&name))
	require.Equal(t, "Cancel", name)

	// One row per metadata key, not accumulated across dumps.
	var metaCount int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM meta`).Scan(&metaCount))
	require.Equal(t, 7, metaCount)
}

func TestPersist_PreservesInjectTable(t *testing.T) {
	db, err := InitDBWithPath(t.TempDir() + "/persist_inject.db")
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = db.Exec(`INSERT INTO inject (action, text, target, done) VALUES ('type', 'hi', '', 0)`)
	require.NoError(t, err)

	require.NoError(t, Persist(context.Background(), db, nil, testMeta(), 200))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM inject`).Scan(&count))
	require.Equal(t, 1, count)
}

func TestPersist_CommitsInBatchesAcrossManyElements(t *testing.T) {
	db, err := InitDBWithPath(t.TempDir() + "/persist_batch.db")
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	elements := make([]model.Element, 0, 450)
	for i := 1; i <= 450; i++ {
		elements = append(elements, model.Element{ID: i, Role: model.RoleText, Name: "row"})
	}

	require.NoError(t, Persist(context.Background(), db, elements, testMeta(), 200))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM elements`).Scan(&count))
	require.Equal(t, 450, count)
}

func TestPersist_EmptyElementsStillWritesMeta(t *testing.T) {
	db, err := InitDBWithPath(t.TempDir() + "/persist_empty.db")
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.NoError(t, Persist(context.Background(), db, nil, testMeta(), 200))

	var ts string
	require.NoError(t, db.QueryRow(`SELECT value FROM meta WHERE key = 'timestamp'`).Scan(&ts))
	require.Equal(t, "1000", ts)
}
