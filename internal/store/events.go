package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/hostwatch/seclogd/internal/model"
)

// EventFilter narrows QueryEvents. Zero values mean "no constraint" on
// that dimension; Search is a substring test against each of raw_message,
// user, src_ip, and process, and an event matches if any of them does.
type EventFilter struct {
	EventType string
	Platform  string
	User      string
	SrcIP     string
	Severity  string
	LogSource string
	Search    string

	SinceMinutes int
	From, To     *time.Time
}

func (f EventFilter) whereClause(now time.Time) (string, []any) {
	var clauses []string
	var args []any

	add := func(clause string, arg any) {
		clauses = append(clauses, clause)
		args = append(args, arg)
	}

	if f.EventType != "" {
		add("event_type = ?", f.EventType)
	}
	if f.Platform != "" {
		add("platform = ?", f.Platform)
	}
	if f.User != "" {
		add(`"user" LIKE ?`, "%"+f.User+"%")
	}
	if f.SrcIP != "" {
		add("src_ip LIKE ?", "%"+f.SrcIP+"%")
	}
	if f.Severity != "" {
		add("severity = ?", f.Severity)
	}
	if f.LogSource != "" {
		add("log_source = ?", f.LogSource)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		clauses = append(clauses, `(raw_message LIKE ? OR "user" LIKE ? OR src_ip LIKE ? OR process LIKE ?)`)
		args = append(args, like, like, like, like)
	}
	if f.SinceMinutes > 0 {
		add("event_time >= ?", now.Add(-time.Duration(f.SinceMinutes)*time.Minute))
	}
	if f.From != nil {
		add("event_time >= ?", *f.From)
	}
	if f.To != nil {
		add("event_time <= ?", *f.To)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

// InsertEvent persists e, normalizing its severity, and returns the
// assigned id.
func (s *Store) InsertEvent(e *model.Event) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	severity := model.NormalizeSeverity(string(e.Severity))
	platform := e.Platform
	if platform == "" {
		platform = model.PlatformLinux
	}

	res, err := s.db.Exec(
		`INSERT INTO events (created_at, event_time, host, process, pid, event_type, severity, "user", src_ip, dst_ip, log_source, platform, raw_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		createdAt, e.EventTime, e.Host, e.Process, e.PID, e.EventType, string(severity),
		e.User, e.SrcIP, e.DstIP, string(e.LogSource), string(platform), e.RawMessage,
	)
	if err != nil {
		return 0, fmt.Errorf("store: insert event: %w", err)
	}
	return res.LastInsertId()
}

// QueryEvents returns the events matching filter, ordered by
// event_time DESC, limited and offset, along with the total unpaged
// match count.
func (s *Store) QueryEvents(filter EventFilter, limit, offset int) ([]*model.Event, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	where, args := filter.whereClause(time.Now().UTC())

	var total int
	countQuery := "SELECT COUNT(*) FROM events " + where
	if err := s.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("store: count events: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT id, created_at, event_time, host, process, pid, event_type, severity, "user", src_ip, dst_ip, log_source, platform, raw_message
		 FROM events %s ORDER BY event_time DESC LIMIT ? OFFSET ?`, where)
	rows, err := s.db.Query(query, append(append([]any{}, args...), limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("store: query events: %w", err)
	}
	defer rows.Close()

	events, err := scanEvents(rows)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// RecentEventsForAnalysis is the convenience composition the rule engine
// uses every evaluation pass: the last `minutes` of events, capped at
// `limit` rows.
func (s *Store) RecentEventsForAnalysis(minutes, limit int) ([]*model.Event, error) {
	events, _, err := s.QueryEvents(EventFilter{SinceMinutes: minutes}, limit, 0)
	return events, err
}

func scanEvents(rows *sql.Rows) ([]*model.Event, error) {
	var events []*model.Event
	for rows.Next() {
		var e model.Event
		var severity, logSource, platform string
		var host, process, user, srcIP, dstIP sql.NullString
		var pid sql.NullInt64

		if err := rows.Scan(
			&e.ID, &e.CreatedAt, &e.EventTime, &host, &process, &pid, &e.EventType,
			&severity, &user, &srcIP, &dstIP, &logSource, &platform, &e.RawMessage,
		); err != nil {
			return nil, fmt.Errorf("store: scan event: %w", err)
		}

		e.Host = host.String
		e.Process = process.String
		e.PID = int(pid.Int64)
		e.Severity = model.Severity(severity)
		e.User = user.String
		e.SrcIP = srcIP.String
		e.DstIP = dstIP.String
		e.LogSource = model.LogSource(logSource)
		e.Platform = model.Platform(platform)

		events = append(events, &e)
	}
	return events, rows.Err()
}
