package store

import (
	"strconv"
	"strings"
	"time"
)

// dialect covers the few places the console's SQL differs between drivers.
// Queries are written once with ? placeholders and the sqlite clock.
type dialect struct {
	name     string
	now      string
	numbered bool // $1, $2 placeholders
}

var (
	sqliteDialect   = dialect{name: "sqlite", now: "datetime('now','localtime')"}
	postgresDialect = dialect{name: "postgres", now: "NOW()", numbered: true}
)

func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	query = strings.ReplaceAll(query, sqliteDialect.now, d.now)
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r != '?' {
			b.WriteRune(r)
			continue
		}
		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

const sqliteTime = "2006-01-02 15:04:05"

var timeLayouts = []string{sqliteTime, time.RFC3339Nano, "2006-01-02 15:04:05-07:00"}

// scanTime decodes a timestamp column: sqlite hands back text, pgx a
// time.Time. Anything unparseable is the zero time.
func scanTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.ParseInLocation(layout, t, time.Local); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}
