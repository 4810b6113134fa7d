// Package mockdata produces synthetic system log records for development
// and demo environments.
package mockdata

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fixora/backoffice/internal/domain"
)

type actor struct {
	id   string
	name string
	role string
}

var roster = []actor{
	{"usr_1001", "Omar Haddad", domain.RoleSuperAdmin},
	{"usr_1002", "Lina Saleh", domain.RoleAdmin},
	{"usr_1003", "Karim Nassar", domain.RoleFinance},
	{"usr_1004", "Maya Khoury", domain.RoleSupport},
	{"usr_1005", "Tariq Aziz", domain.RoleUsher},
	{"usr_1006", "Rania Fares", domain.RoleOrganizer},
	{"usr_1007", "Sami Darwish", domain.RoleFinance},
	{"usr_1008", "Nour Hamdan", domain.RoleAdmin},
}

type actionTemplate struct {
	action      string
	category    domain.LogCategory
	description string
}

var catalog = []actionTemplate{
	{"auth.login", domain.CategoryAuthentication, "Signed in to the back office"},
	{"auth.logout", domain.CategoryAuthentication, "Signed out of the back office"},
	{"auth.password_reset", domain.CategoryAuthentication, "Requested a password reset"},
	{"user.create", domain.CategoryUserManagement, "Created a new back-office user"},
	{"user.update_role", domain.CategoryUserManagement, "Changed a user's role"},
	{"user.suspend", domain.CategoryUserManagement, "Suspended a customer account"},
	{"ticket.refund", domain.CategoryTicket, "Refunded a ticket order"},
	{"ticket.transfer", domain.CategoryTicket, "Transferred a ticket to another holder"},
	{"ticket.void", domain.CategoryTicket, "Voided a duplicated ticket"},
	{"deposit.approve", domain.CategoryDeposit, "Approved a wallet deposit"},
	{"deposit.reject", domain.CategoryDeposit, "Rejected a wallet deposit"},
	{"settlement.create", domain.CategorySettlement, "Created an organizer settlement"},
	{"settlement.payout", domain.CategorySettlement, "Released a settlement payout"},
	{"nfc_card.issue", domain.CategoryNFCCard, "Issued an NFC wristband"},
	{"nfc_card.block", domain.CategoryNFCCard, "Blocked a lost NFC card"},
	{"nfc_card.top_up", domain.CategoryNFCCard, "Topped up an NFC card balance"},
	{"usher.assign", domain.CategoryUsher, "Assigned an usher to a gate"},
	{"usher.check_in", domain.CategoryUsher, "Usher scanned attendees at the gate"},
	{"venue.create", domain.CategoryVenue, "Registered a new venue"},
	{"venue.update_capacity", domain.CategoryVenue, "Updated venue capacity"},
	{"expense.create", domain.CategoryExpense, "Recorded an event expense"},
	{"expense.approve", domain.CategoryExpense, "Approved an expense claim"},
	{"system.backup", domain.CategorySystem, "Ran the scheduled database backup"},
	{"system.config_update", domain.CategorySystem, "Changed a system setting"},
	{"security.failed_login", domain.CategorySecurity, "Repeated failed sign-in attempts"},
	{"security.permission_denied", domain.CategorySecurity, "Attempted an action without permission"},
}

var (
	userAgents = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/126.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_5) AppleWebKit/605.1.15 Version/17.5 Safari/605.1.15",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_5 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148",
		"Mozilla/5.0 (Linux; Android 14; SM-S918B) AppleWebKit/537.36 Chrome/126.0 Mobile Safari/537.36",
	}
	locations = []string{"Riyadh, SA", "Jeddah, SA", "Dubai, AE", "Amman, JO", "Cairo, EG", "Doha, QA"}
	devices   = []string{"Desktop", "Laptop", "Mobile", "Tablet", "Gate scanner"}
	fields    = []string{"status", "amount", "role", "capacity", "balance", "email", "gate"}
)

// Generator produces random log records. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewGenerator creates a generator with a deterministic seed
func NewGenerator(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate returns n records with timestamps spread over the 30 days
// before now, newest first.
func (g *Generator) Generate(n int, now time.Time) []domain.LogRecord {
	if n <= 0 {
		return []domain.LogRecord{}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	records := make([]domain.LogRecord, 0, n)
	window := int64(30 * 24 * time.Hour)
	for i := 0; i < n; i++ {
		offset := time.Duration(g.rnd.Int63n(window))
		records = append(records, g.record(now.Add(-offset)))
	}

	sortNewestFirst(records)
	return records
}

// GenerateSince returns n records stamped between since and now
func (g *Generator) GenerateSince(n int, since, now time.Time) []domain.LogRecord {
	if n <= 0 || !now.After(since) {
		return []domain.LogRecord{}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	records := make([]domain.LogRecord, 0, n)
	span := int64(now.Sub(since))
	for i := 0; i < n; i++ {
		records = append(records, g.record(since.Add(time.Duration(g.rnd.Int63n(span)))))
	}

	sortNewestFirst(records)
	return records
}

func (g *Generator) record(ts time.Time) domain.LogRecord {
	a := roster[g.rnd.Intn(len(roster))]
	tpl := catalog[g.rnd.Intn(len(catalog))]

	severity := domain.AllSeverities[g.rnd.Intn(len(domain.AllSeverities))]
	if tpl.category == domain.CategorySecurity && severity == domain.SeverityLow {
		severity = domain.SeverityHigh
	}
	status := domain.AllStatuses[g.rnd.Intn(len(domain.AllStatuses))]

	changes := make([]domain.FieldChange, 0, 3)
	for i, n := 0, g.rnd.Intn(4); i < n; i++ {
		changes = append(changes, domain.FieldChange{
			Field:    fields[g.rnd.Intn(len(fields))],
			OldValue: fmt.Sprintf("%d", g.rnd.Intn(1000)),
			NewValue: fmt.Sprintf("%d", g.rnd.Intn(1000)),
		})
	}

	return domain.LogRecord{
		ID:          uuid.NewString(),
		Timestamp:   ts,
		UserID:      a.id,
		UserName:    a.name,
		UserRole:    a.role,
		Action:      tpl.action,
		Category:    tpl.category,
		Severity:    severity,
		Description: tpl.description,
		Status:      status,
		Details: domain.LogDetails{
			IPAddress:       fmt.Sprintf("192.168.%d.%d", g.rnd.Intn(256), 1+g.rnd.Intn(254)),
			UserAgent:       userAgents[g.rnd.Intn(len(userAgents))],
			Location:        locations[g.rnd.Intn(len(locations))],
			Device:          devices[g.rnd.Intn(len(devices))],
			SessionID:       uuid.NewString(),
			AffectedRecords: 1 + g.rnd.Intn(50),
			Changes:         changes,
			Metadata: map[string]string{
				"request_id":  uuid.NewString(),
				"module":      string(tpl.category),
				"api_version": "v1",
			},
		},
	}
}

func sortNewestFirst(records []domain.LogRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
}

// Source supplies batches of records for "load more"
type Source interface {
	Fetch(ctx context.Context, n int) ([]domain.LogRecord, error)
}

// DelayedSource simulates a remote fetch by waiting before generating
type DelayedSource struct {
	gen   *Generator
	delay time.Duration
	now   func() time.Time
}

// NewDelayedSource creates a source that sleeps delay before each batch
func NewDelayedSource(gen *Generator, delay time.Duration) *DelayedSource {
	return &DelayedSource{gen: gen, delay: delay, now: time.Now}
}

// Fetch waits for the artificial delay and returns n fresh records from
// the last hour. It returns ctx.Err() if ctx ends first.
func (s *DelayedSource) Fetch(ctx context.Context, n int) ([]domain.LogRecord, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	now := s.now()
	return s.gen.GenerateSince(n, now.Add(-time.Hour), now), nil
}
