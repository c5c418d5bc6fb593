package store

import (
	"database/sql"
	"errors"
	"time"
)

// Preferences are the per-user toggles on the settings page. They never
// leave the console.
type Preferences struct {
	Username        string    `json:"username"`
	Notifications   bool      `json:"notifications"`
	DarkMode        bool      `json:"darkMode"`
	ChartAnimations bool      `json:"chartAnimations"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func DefaultPreferences(username string) *Preferences {
	return &Preferences{Username: username, Notifications: true, ChartAnimations: true}
}

// GetPreferences returns the stored preferences, or the defaults when the
// user has never saved any.
func (db *DB) GetPreferences(username string) (*Preferences, error) {
	p := &Preferences{Username: username}
	var updatedAt any
	err := db.QueryRow(db.Q(`SELECT notifications, dark_mode, chart_animations, updated_at FROM preferences WHERE username=?`), username).
		Scan(&p.Notifications, &p.DarkMode, &p.ChartAnimations, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultPreferences(username), nil
	}
	if err != nil {
		return nil, err
	}
	p.UpdatedAt = scanTime(updatedAt)
	return p, nil
}

func (db *DB) SavePreferences(p *Preferences) error {
	_, err := db.Exec(db.Q(`INSERT INTO preferences (username, notifications, dark_mode, chart_animations, updated_at)
		VALUES (?, ?, ?, ?, `+db.dialect.now+`)
		ON CONFLICT(username) DO UPDATE SET
			notifications=excluded.notifications,
			dark_mode=excluded.dark_mode,
			chart_animations=excluded.chart_animations,
			updated_at=excluded.updated_at`),
		p.Username, p.Notifications, p.DarkMode, p.ChartAnimations)
	return err
}
