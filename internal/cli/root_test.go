package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinnerbell/internal/config"
	"dinnerbell/internal/domain"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "dinnerbell", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, path := range [][]string{{"serve"}, {"migrate", "up"}, {"migrate", "down"}, {"sweep"}, {"seed"}, {"token"}} {
		sub, _, err := cmd.Find(path)
		require.NoError(t, err, "command %v should exist", path)
		assert.Equal(t, path[len(path)-1], sub.Name())
	}
}

func TestServeCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	serve, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)

	for _, name := range []string{"migrate", "no-sweep"} {
		flag := serve.Flags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, "false", flag.DefValue)
	}
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&config.Config{LogLevel: "warn", AppEnv: "production"}, &buf)

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"message":"shown"`)
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())
}

func TestNewLogger_BadLevelDefaultsToInfo(t *testing.T) {
	log := newLogger(&config.Config{LogLevel: "loud"}, &bytes.Buffer{})
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}

func TestLoadSeedFile(t *testing.T) {
	seed, err := LoadSeedFile(filepath.Join("testdata", "harvest.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "host-1", seed.HostUserID)
	assert.Equal(t, "Harvest supper", seed.Event.Title)
	assert.Equal(t, 19, seed.Event.BellTime.Hour())
	require.Len(t, seed.Event.Menu, 1)
	assert.Equal(t, []string{"vegetarian", "gluten-free"}, seed.Event.Menu[0].Items[0].DietaryTags)
	require.Len(t, seed.Event.BringItems, 2)
	assert.Equal(t, domain.CategoryDrink, seed.Event.BringItems[0].Category)
	require.NotNil(t, seed.Event.BringItems[1].IsClaimable)
	assert.False(t, *seed.Event.BringItems[1].IsClaimable)
	assert.Len(t, seed.Event.Schedule, 2)
}

func TestLoadSeedFile_Errors(t *testing.T) {
	_, err := LoadSeedFile(filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)
}

func setSQLiteEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "sqlite://"+filepath.Join(t.TempDir(), "dinnerbell.db"))
	t.Setenv("PUBLIC_BASE_URL", "https://dinnerbell.test")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "error")
}

func TestSeedAndSweep_OnSQLite(t *testing.T) {
	setSQLiteEnv(t)

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"seed", filepath.Join("testdata", "harvest.yaml")})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "created")
	assert.Contains(t, out.String(), "https://dinnerbell.test/invite/")

	out.Reset()
	cmd = NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"sweep"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "due=0 consumed=0 skipped=0 delivered=0\n", out.String())
}

func TestTokenCommand_DevelopmentOnly(t *testing.T) {
	setSQLiteEnv(t)

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"token", "--user", "u-1"})
	assert.Error(t, cmd.Execute())

	t.Setenv("APP_ENV", "development")
	var out bytes.Buffer
	cmd = NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"token", "--user", "u-1"})
	require.NoError(t, cmd.Execute())
	assert.NotEmpty(t, out.String())
}
