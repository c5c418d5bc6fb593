package store

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS audit_log (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    domain      TEXT NOT NULL,
    record_id   INTEGER NOT NULL DEFAULT 0,
    action      TEXT NOT NULL,
    detail      TEXT NOT NULL DEFAULT '',
    actor       TEXT NOT NULL DEFAULT '',
    source      TEXT NOT NULL DEFAULT 'console',
    created_at  TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);
CREATE INDEX IF NOT EXISTS idx_audit_domain ON audit_log(domain, record_id);

CREATE TABLE IF NOT EXISTS preferences (
    username         TEXT PRIMARY KEY,
    notifications    INTEGER NOT NULL DEFAULT 1,
    dark_mode        INTEGER NOT NULL DEFAULT 0,
    chart_animations INTEGER NOT NULL DEFAULT 1,
    updated_at       TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);
`
