package persistence

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixora/backoffice/internal/domain"
)

func sampleRecord(id string) domain.LogRecord {
	return domain.LogRecord{
		ID:          id,
		Timestamp:   time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		UserID:      "usr_1002",
		UserName:    "Lina Saleh",
		UserRole:    domain.RoleAdmin,
		Action:      "user.update_role",
		Category:    domain.CategoryUserManagement,
		Severity:    domain.SeverityHigh,
		Description: "Changed a user's role",
		Status:      domain.StatusSuccess,
		Details: domain.LogDetails{
			IPAddress: "10.0.0.4",
			Changes: []domain.FieldChange{
				{Field: "role", OldValue: "support", NewValue: "admin"},
			},
		},
	}
}

func TestBuildInsert(t *testing.T) {
	query, args, err := buildInsert([]domain.LogRecord{sampleRecord("a"), sampleRecord("b")})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(query, "INSERT INTO system_logs ("))
	assert.Contains(t, query, "($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11), ($12,")
	assert.Contains(t, query, "$22)")
	assert.NotContains(t, query, "changed_fields")
	assert.True(t, strings.HasSuffix(query, "ON CONFLICT (id) DO NOTHING"))
	require.Len(t, args, 2*paramsPerRow)

	assert.Equal(t, "a", args[0])
	assert.Equal(t, "user_management", args[6])
	assert.Equal(t, "b", args[paramsPerRow])

	var details domain.LogDetails
	require.NoError(t, json.Unmarshal(args[10].([]byte), &details))
	assert.Equal(t, "10.0.0.4", details.IPAddress)
	require.Len(t, details.Changes, 1)
	assert.Equal(t, "role", details.Changes[0].Field)
}

func TestBuildInsert_ParamCountFitsLimit(t *testing.T) {
	records := make([]domain.LogRecord, insertBatchSize)
	for i := range records {
		records[i] = sampleRecord(fmt.Sprintf("r%d", i))
	}

	_, args, err := buildInsert(records)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(args), 65535)
}

func TestMapPQError(t *testing.T) {
	err := mapPQError(&pq.Error{Code: undefinedTable, Message: `relation "system_logs" does not exist`})
	assert.ErrorIs(t, err, ErrSchemaMissing)

	other := &pq.Error{Code: "23505"}
	assert.Same(t, other, mapPQError(other))
}

func TestParseVersionAndName(t *testing.T) {
	tests := []struct {
		file    string
		version int
		name    string
		wantErr bool
	}{
		{"001_create_system_logs.up.sql", 1, "create_system_logs", false},
		{"002_add_index.down.sql", 2, "add_index", false},
		{"010_plain.sql", 10, "plain", false},
		{"readme.sql", 0, "", true},
		{"v1_bad.sql", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			ver, name, err := parseVersionAndName(tt.file)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.version, ver)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestLoadMigrationFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"m/002_second.up.sql":   {Data: []byte("SELECT 2")},
		"m/001_first.up.sql":    {Data: []byte("SELECT 1")},
		"m/001_first.down.sql":  {Data: []byte("SELECT -1")},
		"m/notes.txt":           {Data: []byte("ignored")},
		"m/no_version_here.sql": {Data: []byte("ignored")},
	}

	files, err := loadMigrationFiles(fsys, "m")
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, 1, files[0].Version)
	assert.Equal(t, 2, files[2].Version)
	assert.Equal(t, "up", files[2].Kind)
}

func TestLoadMigrations_Embedded(t *testing.T) {
	files, err := LoadMigrations()
	require.NoError(t, err)

	kinds := map[string]bool{}
	for _, f := range files {
		kinds[f.Kind] = true
		assert.Equal(t, "create_system_logs", f.Name)
	}
	assert.True(t, kinds["up"])
	assert.True(t, kinds["down"])
}
