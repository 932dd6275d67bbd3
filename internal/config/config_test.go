package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, getDefaultConfig(), c)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
format = "2006-01-02"
timezone = "UTC"
week_start = "monday"
round_up = true
json = true
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		Format:    "2006-01-02",
		Timezone:  "UTC",
		WeekStart: "monday",
		RoundUp:   true,
		JSON:      true,
	}, c)
}

func TestLoadDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "datemath"), 0o700))
	require.NoError(t, os.WriteFile(DefaultPath(), []byte(`week_start = "sat"`), 0o600))

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sat", c.WeekStart)
	assert.Equal(t, time.RFC1123, c.Format)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = Load(writeConfig(t, `format = `))
	assert.ErrorContains(t, err, "failed to parse config file")

	t.Setenv("DATEMATH_ROUND_UP", "maybe")
	_, err = Load(writeConfig(t, ``))
	assert.ErrorContains(t, err, "DATEMATH_ROUND_UP")
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
format = "2006-01-02"
timezone = "UTC"
`)
	t.Setenv("DATEMATH_FORMAT", time.RFC3339)
	t.Setenv("DATEMATH_TZ", "Asia/Tokyo")
	t.Setenv("DATEMATH_WEEK_START", "Mon")
	t.Setenv("DATEMATH_ROUND_UP", "true")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, time.RFC3339, c.Format)
	assert.Equal(t, "Asia/Tokyo", c.Timezone)
	assert.Equal(t, "Mon", c.WeekStart)
	assert.True(t, c.RoundUp)
}

func TestLocation(t *testing.T) {
	tests := []struct {
		tz      string
		want    string
		wantErr bool
	}{
		{"", "Local", false},
		{"local", "Local", false},
		{"UTC", "UTC", false},
		{"America/New_York", "America/New_York", false},
		{"Mars/Olympus_Mons", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.tz, func(t *testing.T) {
			loc, err := (&Config{Timezone: tt.tz}).Location()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, loc.String())
		})
	}
}

func TestWeekday(t *testing.T) {
	d, err := (&Config{}).Weekday()
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, d)

	d, err = (&Config{WeekStart: "Monday"}).Weekday()
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d)

	_, err = (&Config{WeekStart: "someday"}).Weekday()
	assert.Error(t, err)
}
