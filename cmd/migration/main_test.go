package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSteps(t *testing.T) {
	steps, err := parseSteps(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, steps)

	steps, err = parseSteps([]string{" 3 "})
	require.NoError(t, err)
	assert.Equal(t, 3, steps)

	_, err = parseSteps([]string{"0"})
	assert.Error(t, err)

	_, err = parseSteps([]string{"two"})
	assert.Error(t, err)
}

func TestParseVersionAndTarget(t *testing.T) {
	v, err := parseVersion("1772841660")
	require.NoError(t, err)
	assert.Equal(t, 1772841660, v)

	_, err = parseVersion("-1")
	assert.Error(t, err)

	target, err := parseTarget("1772841720")
	require.NoError(t, err)
	assert.Equal(t, uint(1772841720), target)

	_, err = parseTarget("-5")
	assert.Error(t, err)
}

func TestNormalizeDBURL(t *testing.T) {
	got := normalizeDBURL("postgres://u:p@localhost:5432/matchday?sslmode=disable", true)
	assert.True(t, strings.Contains(got, "disable_prepared_binary_result=yes"), got)

	explicit := "postgres://u:p@localhost:5432/matchday?disable_prepared_binary_result=no"
	assert.Equal(t, explicit, normalizeDBURL(explicit, true))

	dsn := "host=localhost dbname=matchday"
	assert.Equal(t, dsn, normalizeDBURL(dsn, true))
}

func TestResolveMigrationsDir_PrefersEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MIGRATIONS_DIR", dir)

	got, err := resolveMigrationsDir()
	require.NoError(t, err)

	want, err := filepath.Abs(dir)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRun_RejectsUnknownCommand(t *testing.T) {
	err := run("sideways", nil, logging.NewNop())
	assert.ErrorIs(t, err, errUsage)
}

func TestRun_RequiresDBURL(t *testing.T) {
	t.Setenv("DB_URL", "")
	err := run("up", nil, logging.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_URL")
}

func TestEnvBool(t *testing.T) {
	t.Setenv("MATCHDAY_FLAG", "")
	assert.True(t, envBool("MATCHDAY_FLAG", true))

	t.Setenv("MATCHDAY_FLAG", "off")
	assert.False(t, envBool("MATCHDAY_FLAG", true))

	t.Setenv("MATCHDAY_FLAG", "Yes")
	assert.True(t, envBool("MATCHDAY_FLAG", false))
}
