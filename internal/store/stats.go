package store

import (
	"context"
	"fmt"
	"time"
)

// VisitorMetric is one tracked page view.
type VisitorMetric struct {
	ID        int       `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// ContactEntry is one row of the contact diagnostic log.
type ContactEntry struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalVisitors    int64           `json:"total_visitors"`
	UniqueVisitors   int64           `json:"unique_visitors"`
	VisitorsToday    int64           `json:"visitors_today"`
	VisitorsThisWeek int64           `json:"visitors_this_week"`
	TotalContacts    int64           `json:"total_contacts"`
	RecentVisitors   []VisitorMetric `json:"recent_visitors"`
	RecentContacts   []ContactEntry  `json:"recent_contacts"`
}

// Stats gathers the dashboard numbers.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	now := s.now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{midnight}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{now.AddDate(0, 0, -7)}},
		{&stats.TotalContacts, `SELECT COUNT(*) FROM contact_log`, nil},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
	}

	var err error
	if stats.RecentVisitors, err = s.RecentVisitors(ctx, 50); err != nil {
		return nil, err
	}
	if stats.RecentContacts, err = s.RecentContacts(ctx, 20); err != nil {
		return nil, err
	}
	return stats, nil
}

// RecentVisitors returns the newest page views.
func (s *Store) RecentVisitors(ctx context.Context, limit int) ([]VisitorMetric, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent visitors: %w", err)
	}
	defer rows.Close()

	var out []VisitorMetric
	for rows.Next() {
		var v VisitorMetric
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &v.Timestamp); err != nil {
			return nil, fmt.Errorf("recent visitors: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// RecentContacts returns the newest contact log entries.
func (s *Store) RecentContacts(ctx context.Context, limit int) ([]ContactEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, message, submitted_at
		FROM contact_log
		ORDER BY submitted_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent contacts: %w", err)
	}
	defer rows.Close()

	var out []ContactEntry
	for rows.Next() {
		var c ContactEntry
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Message, &c.SubmittedAt); err != nil {
			return nil, fmt.Errorf("recent contacts: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
