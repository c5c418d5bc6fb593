package store

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS audit_log (
    id          BIGSERIAL PRIMARY KEY,
    domain      TEXT NOT NULL,
    record_id   BIGINT NOT NULL DEFAULT 0,
    action      TEXT NOT NULL,
    detail      TEXT NOT NULL DEFAULT '',
    actor       TEXT NOT NULL DEFAULT '',
    source      TEXT NOT NULL DEFAULT 'console',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_audit_domain ON audit_log(domain, record_id);

CREATE TABLE IF NOT EXISTS preferences (
    username         TEXT PRIMARY KEY,
    notifications    BOOLEAN NOT NULL DEFAULT TRUE,
    dark_mode        BOOLEAN NOT NULL DEFAULT FALSE,
    chart_animations BOOLEAN NOT NULL DEFAULT TRUE,
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
