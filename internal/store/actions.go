package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/directshell/core/internal/model"
)

// NextPending returns the oldest inject row with done=0, in id order. The read
// is wrapped in RetryWithBackoff because an external consumer may hold the
// write lock mid-INSERT.
func NextPending(ctx context.Context, db *sql.DB) (model.Action, bool, error) {
	var a model.Action
	found := false
	err := RetryWithBackoff(ctx, func() error {
		var kind string
		var done int
		row := db.QueryRowContext(ctx,
			`SELECT id, action, text, target, done FROM inject WHERE done = 0 ORDER BY id LIMIT 1`)
		if err := row.Scan(&a.ID, &kind, &a.Text, &a.Target, &done); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				found = false
				return nil
			}
			return err
		}
		a.Kind = model.ActionKind(kind)
		a.Done = done != 0
		found = true
		return nil
	})
	return a, found, err
}

// SetDone flips an action row's completion flag. The dispatcher marks
// done=1 before injecting anything so an execution that outlasts the tick
// cannot double-fire, and resets to done=0 only when the injection path
// reports failure.
func SetDone(ctx context.Context, db *sql.DB, id int64, done bool) error {
	return RetryWithBackoff(ctx, func() error {
		_, err := db.ExecContext(ctx, `UPDATE inject SET done = ? WHERE id = ?`, boolToInt(done), id)
		return err
	})
}

// InsertAction appends a row to the inject queue and returns its id. The
// core itself never calls this during a snap — the queue is written by
// external consumers — but the operator CLI and tests use it
// to play that role.
func InsertAction(ctx context.Context, db *sql.DB, kind model.ActionKind, text, target string) (int64, error) {
	var id int64
	err := RetryWithBackoff(ctx, func() error {
		res, err := db.ExecContext(ctx,
			`INSERT INTO inject (action, text, target, done) VALUES (?, ?, ?, 0)`,
			string(kind), text, target)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	return id, err
}

// PendingActions counts inject rows still waiting for dispatch.
func PendingActions(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	err := RetryWithBackoff(ctx, func() error {
		return db.QueryRowContext(ctx, `SELECT COUNT(*) FROM inject WHERE done = 0`).Scan(&n)
	})
	return n, err
}

// CountElements returns the current elements row count, or 0 before the
// first dump has created the table.
func CountElements(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM elements`).Scan(&n)
	if err != nil && strings.Contains(err.Error(), "no such table") {
		return 0, nil
	}
	return n, err
}
