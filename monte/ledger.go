package monte

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// RunLedger persists completed/failed condition-sweep indices so a killed
// RunSeries can resume instead of restarting every run (spec §4.I,
// scenario 5). Backed by modernc.org/sqlite (pure Go, no cgo toolchain
// dependency) rather than a flat file: the ledger doubles as a durable
// audit trail of per-run completion status, which a flat file would
// need hand-rolled locking to provide safely across concurrent fixtures.
type RunLedger struct {
	db *sql.DB
}

// OpenRunLedger opens (creating if absent) the sqlite ledger at path and
// ensures its schema exists.
func OpenRunLedger(path string) (*RunLedger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, ConsistencyErrorf("open run ledger %q: %v", path, err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS run_status (
	idx INTEGER PRIMARY KEY,
	status TEXT NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, ConsistencyErrorf("init run ledger schema: %v", err)
	}
	return &RunLedger{db: db}, nil
}

// Close releases the underlying database handle.
func (l *RunLedger) Close() error { return l.db.Close() }

// RecordCompleted marks condition index idx as completed.
func (l *RunLedger) RecordCompleted(idx int) error {
	return l.record(idx, "completed")
}

// RecordFailed marks condition index idx as failed.
func (l *RunLedger) RecordFailed(idx int) error {
	return l.record(idx, "failed")
}

func (l *RunLedger) record(idx int, status string) error {
	_, err := l.db.Exec(
		`INSERT INTO run_status(idx, status) VALUES (?, ?)
		 ON CONFLICT(idx) DO UPDATE SET status = excluded.status`,
		idx, status,
	)
	if err != nil {
		return ConsistencyErrorf("record run %d as %s: %v", idx, status, err)
	}
	return nil
}

// NextIndex returns the first condition index not already recorded as
// completed, scanning from 0 — the resume point for RunSeries.
func (l *RunLedger) NextIndex() int {
	rows, err := l.db.Query(`SELECT idx FROM run_status WHERE status = 'completed' ORDER BY idx`)
	if err != nil {
		return 0
	}
	defer rows.Close()

	next := 0
	for rows.Next() {
		var idx int
		if err := rows.Scan(&idx); err != nil {
			break
		}
		if idx != next {
			break
		}
		next++
	}
	return next
}

// String implements fmt.Stringer for debug logging.
func (l *RunLedger) String() string { return fmt.Sprintf("RunLedger(next=%d)", l.NextIndex()) }
