package domain

import (
	"sort"
	"time"
)

// LogStats holds the summary cards shown above the log table
type LogStats struct {
	Total       int                 `json:"total"`
	Critical    int                 `json:"critical"`
	Failed      int                 `json:"failed"`
	UniqueUsers int                 `json:"unique_users"`
	Today       int                 `json:"today"`
	ByCategory  map[LogCategory]int `json:"by_category"`
	BySeverity  map[LogSeverity]int `json:"by_severity"`
	ByStatus    map[LogStatus]int   `json:"by_status"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// NewLogStats aggregates records into statistics relative to now
func NewLogStats(records []LogRecord, now time.Time) *LogStats {
	stats := &LogStats{
		ByCategory:  make(map[LogCategory]int),
		BySeverity:  make(map[LogSeverity]int),
		ByStatus:    make(map[LogStatus]int),
		GeneratedAt: now,
	}

	users := make(map[string]struct{})
	y, m, d := now.Date()

	for _, r := range records {
		stats.Total++
		stats.ByCategory[r.Category]++
		stats.BySeverity[r.Severity]++
		stats.ByStatus[r.Status]++

		if r.Severity == SeverityCritical {
			stats.Critical++
		}
		if r.Status == StatusFailed {
			stats.Failed++
		}
		users[r.UserID] = struct{}{}

		ry, rm, rd := r.Timestamp.In(now.Location()).Date()
		if ry == y && rm == m && rd == d {
			stats.Today++
		}
	}
	stats.UniqueUsers = len(users)

	return stats
}

// UserSummary is one entry of the distinct-actor projection
type UserSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// UniqueUsers projects records onto their distinct actors, ordered by name
func UniqueUsers(records []LogRecord) []UserSummary {
	seen := make(map[string]struct{})
	users := make([]UserSummary, 0)

	for _, r := range records {
		if _, ok := seen[r.UserID]; ok {
			continue
		}
		seen[r.UserID] = struct{}{}
		users = append(users, UserSummary{ID: r.UserID, Name: r.UserName, Role: r.UserRole})
	}

	sort.SliceStable(users, func(i, j int) bool {
		if users[i].Name == users[j].Name {
			return users[i].ID < users[j].ID
		}
		return users[i].Name < users[j].Name
	})

	return users
}
