package store

import (
	"time"
)

// Audit sources.
const (
	SourceConsole = "console"
	SourceBackend = "backend"
)

type AuditEntry struct {
	ID        int64     `json:"id"`
	Domain    string    `json:"domain"`
	RecordID  int64     `json:"record_id"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail"`
	Actor     string    `json:"actor"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

func (db *DB) AppendAudit(e *AuditEntry) error {
	if e.Source == "" {
		e.Source = SourceConsole
	}
	_, err := db.Exec(db.Q(`INSERT INTO audit_log (domain, record_id, action, detail, actor, source) VALUES (?, ?, ?, ?, ?, ?)`),
		e.Domain, e.RecordID, e.Action, e.Detail, e.Actor, e.Source)
	return err
}

const auditColumns = `id, domain, record_id, action, detail, actor, source, created_at`

func (db *DB) ListAuditLog(limit int) ([]*AuditEntry, error) {
	rows, err := db.Query(db.Q(`SELECT `+auditColumns+` FROM audit_log ORDER BY id DESC LIMIT ?`), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAudit(rows)
}

func (db *DB) ListRecordAudit(domain string, recordID int64) ([]*AuditEntry, error) {
	rows, err := db.Query(db.Q(`SELECT `+auditColumns+` FROM audit_log WHERE domain=? AND record_id=? ORDER BY id DESC`), domain, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAudit(rows)
}

// PruneAudit drops entries recorded before cutoff and reports how many went.
func (db *DB) PruneAudit(cutoff time.Time) (int64, error) {
	res, err := db.Exec(db.Q(`DELETE FROM audit_log WHERE created_at < ?`), cutoff.In(time.Local).Format(sqliteTime))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanAudit(rows rowScanner) ([]*AuditEntry, error) {
	var entries []*AuditEntry
	for rows.Next() {
		var e AuditEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Domain, &e.RecordID, &e.Action, &e.Detail, &e.Actor, &e.Source, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt = scanTime(createdAt)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
