package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/directshell/core/internal/model"
)

// batchCommitSize is the fallback used when the caller passes <= 0.
const batchCommitSize = 200

const elementsSchemaSQL = `
CREATE TABLE elements (
	id            INTEGER PRIMARY KEY,
	parent_id     INTEGER NOT NULL,
	depth         INTEGER NOT NULL,
	role          TEXT    NOT NULL,
	name          TEXT    NOT NULL,
	value         TEXT    NOT NULL,
	automation_id TEXT    NOT NULL,
	enabled       INTEGER NOT NULL,
	offscreen     INTEGER NOT NULL,
	x             INTEGER NOT NULL,
	y             INTEGER NOT NULL,
	w             INTEGER NOT NULL,
	h             INTEGER NOT NULL
)`

// meta is a key/value side table; external consumers read it as
// meta(key,value), so the window metadata is flattened into one row per
// key rather than a fixed-column row.
const metaSchemaSQL = `
CREATE TABLE meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

const insertElementSQL = `
INSERT INTO elements (id, parent_id, depth, role, name, value, automation_id, enabled, offscreen, x, y, w, h)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const insertMetaSQL = `
INSERT INTO meta (key, value)
VALUES (?, ?)`

// Persist implements the streaming persister: drop
// and recreate elements/meta (the inject table is untouched), insert the
// window-metadata key/value rows, then stream element rows committing every
// batchSize rows so
// a concurrent reader sees the tables grow monotonically rather than
// appearing atomically at the end of a long walk.
//
// Callers are expected to have already claimed the dump-guard
// (state.Shared.TryClaimDump) before calling Persist and to release it
// afterward; Persist itself has no opinion on the guard.
func Persist(ctx context.Context, db *sql.DB, elements []model.Element, meta model.WindowMeta, batchSize int) error {
	if batchSize <= 0 {
		batchSize = batchCommitSize
	}

	if err := recreateTables(ctx, db, meta); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin element batch: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, insertElementSQL)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare element insert: %w", err)
	}

	inserted := 0
	for _, el := range elements {
		if _, err := stmt.ExecContext(ctx,
			el.ID, el.ParentID, el.Depth, string(el.Role), el.Name, el.Value,
			el.AutomationID, boolToInt(el.Enabled), boolToInt(el.Offscreen),
			el.Rect.X, el.Rect.Y, el.Rect.W, el.Rect.H,
		); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return fmt.Errorf("insert element %d: %w", el.ID, err)
		}
		inserted++

		if inserted%batchSize == 0 {
			if err := stmt.Close(); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("close element batch statement: %w", err)
			}
			if err := tx.Commit(); err != nil {
				return fmt.Errorf("commit element batch: %w", err)
			}
			tx, err = db.BeginTx(ctx, nil)
			if err != nil {
				return fmt.Errorf("begin next element batch: %w", err)
			}
			stmt, err = tx.PrepareContext(ctx, insertElementSQL)
			if err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("prepare next element batch statement: %w", err)
			}
		}
	}

	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("close final element batch statement: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("final element commit: %w", err)
	}
	return nil
}

// recreateTables runs in its own transaction: drop and recreate
// elements/meta, then insert the metadata rows.
func recreateTables(ctx context.Context, db *sql.DB, meta model.WindowMeta) error {
	return Transact(ctx, db, func(tx *sql.Tx) error {
		for _, stmt := range []string{
			`DROP TABLE IF EXISTS elements`,
			elementsSchemaSQL,
			`DROP TABLE IF EXISTS meta`,
			metaSchemaSQL,
		} {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("recreate store tables: %w", err)
			}
		}
		for _, kv := range [][2]string{
			{"window", meta.Window},
			{"hwnd", meta.HWND},
			{"timestamp", strconv.FormatInt(meta.TimestampMS, 10)},
			{"x", strconv.Itoa(meta.Rect.X)},
			{"y", strconv.Itoa(meta.Rect.Y)},
			{"w", strconv.Itoa(meta.Rect.W)},
			{"h", strconv.Itoa(meta.Rect.H)},
		} {
			if _, err := tx.ExecContext(ctx, insertMetaSQL, kv[0], kv[1]); err != nil {
				return fmt.Errorf("insert meta %s: %w", kv[0], err)
			}
		}
		return nil
	})
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
