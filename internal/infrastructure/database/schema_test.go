package database

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const migrationsDir = "../../../migrations"

var (
	createTableRe = regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS (\w+) \((.*?)\n\);`)
	columnLineRe  = regexp.MustCompile(`^([a-z_][a-z0-9_]*)\s`)
	selectRe      = regexp.MustCompile(`(?s)SELECT (.*?)\s+FROM (\w+)`)
)

func migratedTables(t *testing.T) map[string]map[string]bool {
	t.Helper()
	raw, err := os.ReadFile(migrationsDir + "/000001_init.up.sql")
	require.NoError(t, err)

	tables := map[string]map[string]bool{}
	for _, m := range createTableRe.FindAllStringSubmatch(string(raw), -1) {
		cols := map[string]bool{}
		for _, line := range strings.Split(m[2], "\n") {
			if c := columnLineRe.FindStringSubmatch(strings.TrimSpace(line)); c != nil {
				cols[c[1]] = true
			}
		}
		tables[m[1]] = cols
	}
	require.NotEmpty(t, tables)
	return tables
}

func splitColumns(list string) []string {
	var out []string
	for _, c := range strings.Split(list, ",") {
		c = strings.TrimSpace(c)
		if i := strings.LastIndex(c, "."); i >= 0 {
			c = c[i+1:]
		}
		out = append(out, c)
	}
	return out
}

func TestColumnListsMatchMigration(t *testing.T) {
	tables := migratedTables(t)
	lists := map[string]string{
		"events":       eventColumns,
		"bring_items":  bringItemColumns,
		"event_guests": guestColumns,
		"profiles":     profileColumns,
	}
	for table, list := range lists {
		cols, ok := tables[table]
		require.True(t, ok, "table %s", table)
		for _, c := range splitColumns(list) {
			assert.True(t, cols[c], "%s.%s", table, c)
		}
	}
}

func TestChildQueriesMatchMigration(t *testing.T) {
	tables := migratedTables(t)
	for _, q := range []string{sectionsByEventSQL, itemsByEventSQL, scheduleByEventSQL, cohostsByEventSQL} {
		m := selectRe.FindStringSubmatch(q)
		require.NotNil(t, m, q)
		cols, ok := tables[m[2]]
		require.True(t, ok, "table %s", m[2])
		for _, c := range splitColumns(m[1]) {
			assert.True(t, cols[c], "%s.%s", m[2], c)
		}
	}
}

func TestClaimGuardColumnsExist(t *testing.T) {
	tables := migratedTables(t)
	assert.True(t, tables["events"]["is_cancelled"])
	assert.True(t, tables["bring_items"]["is_claimable"])
	assert.True(t, tables["bring_items"]["claimed_by_guest_id"])
	assert.True(t, tables["event_guests"]["user_id"])
}
