package store

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// IPCount pairs a source IP with its event volume.
type IPCount struct {
	IP    string
	Count int
}

// UserCount pairs a user with their event volume.
type UserCount struct {
	User  string
	Count int
}

// HourCount pairs an hour-of-day (0-23) with its event volume over the
// trailing 24 hours.
type HourCount struct {
	Hour  int
	Count int
}

// Stats is the derived aggregate an external dashboard surface reads.
type Stats struct {
	TotalEvents int
	TotalAlerts int

	EventsByType     map[string]int
	EventsByOS       map[string]int
	EventsBySeverity map[string]int

	AlertsBySeverity map[string]int
	AlertsByStatus   map[string]int

	TopSourceIPs []IPCount
	TopUsers     []UserCount
	HourlyEvents []HourCount

	FailedLogins     int
	SuccessfulLogins int
	UniqueIPs        int
}

// Summary renders a one-line human-readable digest for startup/shutdown
// log lines, e.g. "12,480 events, 6 alerts, 312 unique ips".
func (s *Stats) Summary() string {
	return fmt.Sprintf("%s events, %s alerts, %s unique ips",
		humanize.Comma(int64(s.TotalEvents)),
		humanize.Comma(int64(s.TotalAlerts)),
		humanize.Comma(int64(s.UniqueIPs)),
	)
}

// Stats computes the full aggregate over the current store contents.
func (s *Store) Stats() (*Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := &Stats{
		EventsByType:     map[string]int{},
		EventsByOS:       map[string]int{},
		EventsBySeverity: map[string]int{},
		AlertsBySeverity: map[string]int{},
		AlertsByStatus:   map[string]int{},
	}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&out.TotalEvents); err != nil {
		return nil, fmt.Errorf("store: stats total events: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM alerts`).Scan(&out.TotalAlerts); err != nil {
		return nil, fmt.Errorf("store: stats total alerts: %w", err)
	}

	if err := groupCount(s, `SELECT event_type, COUNT(*) FROM events GROUP BY event_type`, out.EventsByType); err != nil {
		return nil, err
	}
	if err := groupCount(s, `SELECT platform, COUNT(*) FROM events WHERE platform != '' GROUP BY platform`, out.EventsByOS); err != nil {
		return nil, err
	}
	if err := groupCount(s, `SELECT severity, COUNT(*) FROM events WHERE severity != '' GROUP BY severity`, out.EventsBySeverity); err != nil {
		return nil, err
	}
	if err := groupCount(s, `SELECT severity, COUNT(*) FROM alerts GROUP BY severity`, out.AlertsBySeverity); err != nil {
		return nil, err
	}
	if err := groupCount(s, `SELECT status, COUNT(*) FROM alerts GROUP BY status`, out.AlertsByStatus); err != nil {
		return nil, err
	}

	ipRows, err := s.db.Query(`SELECT src_ip, COUNT(*) c FROM events WHERE src_ip != '' GROUP BY src_ip ORDER BY c DESC LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("store: stats top ips: %w", err)
	}
	for ipRows.Next() {
		var ic IPCount
		if err := ipRows.Scan(&ic.IP, &ic.Count); err != nil {
			ipRows.Close()
			return nil, err
		}
		out.TopSourceIPs = append(out.TopSourceIPs, ic)
	}
	ipRows.Close()

	userRows, err := s.db.Query(`SELECT "user", COUNT(*) c FROM events WHERE "user" != '' GROUP BY "user" ORDER BY c DESC LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("store: stats top users: %w", err)
	}
	for userRows.Next() {
		var uc UserCount
		if err := userRows.Scan(&uc.User, &uc.Count); err != nil {
			userRows.Close()
			return nil, err
		}
		out.TopUsers = append(out.TopUsers, uc)
	}
	userRows.Close()

	cutoff := time.Now().UTC().Add(-24 * time.Hour)
	hourRows, err := s.db.Query(
		`SELECT CAST(strftime('%H', event_time) AS INTEGER) h, COUNT(*) c
		 FROM events WHERE event_time >= ? GROUP BY h ORDER BY h`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("store: stats hourly: %w", err)
	}
	for hourRows.Next() {
		var hc HourCount
		if err := hourRows.Scan(&hc.Hour, &hc.Count); err != nil {
			hourRows.Close()
			return nil, err
		}
		out.HourlyEvents = append(out.HourlyEvents, hc)
	}
	hourRows.Close()

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM events WHERE event_type = 'AUTH_FAILURE'`).Scan(&out.FailedLogins); err != nil {
		return nil, fmt.Errorf("store: stats failed logins: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM events WHERE event_type = 'AUTH_SUCCESS'`).Scan(&out.SuccessfulLogins); err != nil {
		return nil, fmt.Errorf("store: stats successful logins: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(DISTINCT src_ip) FROM events WHERE src_ip != ''`).Scan(&out.UniqueIPs); err != nil {
		return nil, fmt.Errorf("store: stats unique ips: %w", err)
	}

	return out, nil
}

func groupCount(s *Store, query string, into map[string]int) error {
	rows, err := s.db.Query(query)
	if err != nil {
		return fmt.Errorf("store: stats group query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		into[key] = count
	}
	return rows.Err()
}
