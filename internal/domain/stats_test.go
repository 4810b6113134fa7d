package domain

import (
	"testing"
	"time"
)

func TestNewLogStats(t *testing.T) {
	now := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
	records := []LogRecord{
		{ID: "1", UserID: "u1", Severity: SeverityCritical, Status: StatusFailed, Category: CategoryDeposit, Timestamp: now.Add(-time.Hour)},
		{ID: "2", UserID: "u1", Severity: SeverityLow, Status: StatusSuccess, Category: CategoryDeposit, Timestamp: now.Add(-48 * time.Hour)},
		{ID: "3", UserID: "u2", Severity: SeverityCritical, Status: StatusSuccess, Category: CategoryTicket, Timestamp: now.Add(-2 * time.Hour)},
	}

	stats := NewLogStats(records, now)

	if stats.Total != 3 {
		t.Errorf("Expected total 3, got %d", stats.Total)
	}
	if stats.Critical != 2 {
		t.Errorf("Expected 2 critical, got %d", stats.Critical)
	}
	if stats.Failed != 1 {
		t.Errorf("Expected 1 failed, got %d", stats.Failed)
	}
	if stats.UniqueUsers != 2 {
		t.Errorf("Expected 2 unique users, got %d", stats.UniqueUsers)
	}
	if stats.Today != 2 {
		t.Errorf("Expected 2 records today, got %d", stats.Today)
	}
	if stats.ByCategory[CategoryDeposit] != 2 {
		t.Errorf("Expected 2 deposit records, got %d", stats.ByCategory[CategoryDeposit])
	}
}

func TestNewLogStats_Empty(t *testing.T) {
	stats := NewLogStats(nil, time.Now())
	if stats.Total != 0 || stats.UniqueUsers != 0 {
		t.Errorf("Expected empty stats, got %+v", stats)
	}
}

func TestUniqueUsers(t *testing.T) {
	records := []LogRecord{
		{UserID: "u2", UserName: "Yara", UserRole: RoleFinance},
		{UserID: "u1", UserName: "Adam", UserRole: RoleAdmin},
		{UserID: "u2", UserName: "Yara", UserRole: RoleFinance},
	}

	users := UniqueUsers(records)
	if len(users) != 2 {
		t.Fatalf("Expected 2 users, got %d", len(users))
	}
	if users[0].Name != "Adam" || users[1].Name != "Yara" {
		t.Errorf("Expected users ordered by name, got %+v", users)
	}
}
