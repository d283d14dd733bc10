package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hostwatch/seclogd/internal/model"
)

// AlertFilter narrows QueryAlerts.
type AlertFilter struct {
	AlertType string
	Severity  string
	Status    string

	SinceMinutes int
	From, To     *time.Time
}

func (f AlertFilter) whereClause(now time.Time) (string, []any) {
	var clauses []string
	var args []any

	add := func(clause string, arg any) {
		clauses = append(clauses, clause)
		args = append(args, arg)
	}

	if f.AlertType != "" {
		add("alert_type = ?", f.AlertType)
	}
	if f.Severity != "" {
		add("severity = ?", f.Severity)
	}
	if f.Status != "" {
		add("status = ?", f.Status)
	}
	if f.SinceMinutes > 0 {
		add("created_at >= ?", now.Add(-time.Duration(f.SinceMinutes)*time.Minute))
	}
	if f.From != nil {
		add("created_at >= ?", *f.From)
	}
	if f.To != nil {
		add("created_at <= ?", *f.To)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func encodeEventIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func decodeEventIDs(s string) []int64 {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		if id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// InsertAlert persists a, normalizing its severity and defaulting status
// to active, and returns the assigned id.
func (s *Store) InsertAlert(a *model.Alert) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	status := a.Status
	if status == "" {
		status = model.AlertStatusActive
	}
	severity := model.NormalizeSeverity(string(a.Severity))

	res, err := s.db.Exec(
		`INSERT INTO alerts (created_at, alert_type, severity, description, related_event_ids, status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		createdAt, a.AlertType, string(severity), a.Description, encodeEventIDs(a.RelatedEventIDs), string(status),
	)
	if err != nil {
		return 0, fmt.Errorf("store: insert alert: %w", err)
	}
	return res.LastInsertId()
}

// QueryAlerts returns the alerts matching filter, ordered by
// created_at DESC, limited and offset, along with the total unpaged
// match count.
func (s *Store) QueryAlerts(filter AlertFilter, limit, offset int) ([]*model.Alert, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	where, args := filter.whereClause(time.Now().UTC())

	var total int
	countQuery := "SELECT COUNT(*) FROM alerts " + where
	if err := s.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("store: count alerts: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT id, created_at, alert_type, severity, description, related_event_ids, status
		 FROM alerts %s ORDER BY created_at DESC LIMIT ? OFFSET ?`, where)
	rows, err := s.db.Query(query, append(append([]any{}, args...), limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("store: query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*model.Alert
	for rows.Next() {
		var a model.Alert
		var severity, status string
		var relatedIDs sql.NullString

		if err := rows.Scan(&a.ID, &a.CreatedAt, &a.AlertType, &severity, &a.Description, &relatedIDs, &status); err != nil {
			return nil, 0, fmt.Errorf("store: scan alert: %w", err)
		}
		a.Severity = model.Severity(severity)
		a.Status = model.AlertStatus(status)
		a.RelatedEventIDs = decodeEventIDs(relatedIDs.String)
		alerts = append(alerts, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return alerts, total, nil
}

// UpdateAlertStatus sets alert id's status, succeeding only if status is
// one of the four valid lifecycle values and a row was actually updated.
func (s *Store) UpdateAlertStatus(id int64, status string) (bool, error) {
	if !model.ValidAlertStatus(status) {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`UPDATE alerts SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return false, fmt.Errorf("store: update alert status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
