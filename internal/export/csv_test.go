package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixora/backoffice/internal/domain"
	"github.com/fixora/backoffice/internal/mockdata"
)

var ts = time.Date(2026, 7, 4, 9, 5, 0, 0, time.UTC)

func threeRecords() []domain.LogRecord {
	return []domain.LogRecord{
		{ID: "1", Timestamp: ts, UserName: "Lina Saleh", UserRole: "admin", Action: "deposit.approve", Category: domain.CategoryDeposit, Severity: domain.SeverityLow, Status: domain.StatusSuccess, Description: "Approved", Details: domain.LogDetails{IPAddress: "10.0.0.1"}},
		{ID: "2", Timestamp: ts, UserName: "Karim Nassar", UserRole: "finance", Action: "settlement.payout", Category: domain.CategorySettlement, Severity: domain.SeverityHigh, Status: domain.StatusFailed, Description: "Payout, second attempt", Details: domain.LogDetails{IPAddress: "10.0.0.2"}},
		{ID: "3", Timestamp: ts, UserName: "Maya Khoury", UserRole: "support", Action: "ticket.refund", Category: domain.CategoryTicket, Severity: domain.SeverityCritical, Status: domain.StatusPending, Description: `Said "urgent"`, Details: domain.LogDetails{IPAddress: "10.0.0.3"}},
	}
}

func TestExporter_Write(t *testing.T) {
	cols, err := SelectColumns(nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := NewExporter(2).Write(&buf, threeRecords(), cols)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 4, "header plus three rows")
	assert.Equal(t, "Timestamp,User,Role,Action,Category,Severity,Status,Description,IP Address", lines[0])
	assert.Equal(t, "2026-07-04 09:05:00,Lina Saleh,admin,deposit.approve,deposit,low,success,Approved,10.0.0.1", lines[1])

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Payout, second attempt", rows[2][7])
	assert.Equal(t, `Said "urgent"`, rows[3][7])
}

func TestExporter_ColumnOrderFollowsSelection(t *testing.T) {
	cols, err := SelectColumns([]string{"severity", "user", "timestamp"})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = NewExporter(0).Write(&buf, threeRecords()[:1], cols)
	require.NoError(t, err)

	assert.Equal(t, "Severity,User,Timestamp\nlow,Lina Saleh,2026-07-04 09:05:00\n", buf.String())
}

func TestExporter_ChunkBoundaries(t *testing.T) {
	records := mockdata.NewGenerator(3).Generate(2503, ts)
	cols, err := SelectColumns([]string{"user", "action"})
	require.NoError(t, err)

	for _, size := range []int{1, 1000, 2503, 5000} {
		var buf bytes.Buffer
		n, err := NewExporter(size).Write(&buf, records, cols)
		require.NoError(t, err)
		assert.Equal(t, len(records), n, "chunk size %d", size)

		rows, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		assert.Len(t, rows, len(records)+1)
	}
}

func TestExporter_EmptySet(t *testing.T) {
	cols, _ := SelectColumns(nil)

	var buf bytes.Buffer
	n, err := NewExporter(10).Write(&buf, nil, cols)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestExporter_WriteError(t *testing.T) {
	cols, _ := SelectColumns(nil)
	_, err := NewExporter(1).Write(failingWriter{}, threeRecords(), cols)
	assert.Error(t, err)
}

func TestSelectColumns_Unknown(t *testing.T) {
	_, err := SelectColumns([]string{"user", "password"})
	assert.ErrorIs(t, err, domain.ErrInvalidColumn)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "system-logs-2026-07-04-09-05.csv", Filename(ts))
}
