package viewport

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSettingsViewport(t *testing.T) *Viewport {
	t.Helper()
	s, err := LoadSettings("testdata/settings.yaml")
	require.NoError(t, err)
	return newFixture(t, nil, WithSettings(s)).vp
}

func TestSetting_Get(t *testing.T) {
	vp := newSettingsViewport(t)

	tests := []struct {
		key  string
		want any
	}{
		{"app_mode", true},
		{"notify_enabled", false},
		{"contact", "mailto:root@localhost"},
		{"organization_name", "Convos"},
		{"organization_url", "https://convos.chat"},
		{"open_to_public", false},
		{"status", true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := vp.Setting(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetting_Unknown(t *testing.T) {
	vp := newSettingsViewport(t)

	_, err := vp.Setting("nope")
	assert.True(t, errors.Is(err, ErrUnknownSetting))

	err = vp.SetSetting("nope", "x")
	assert.True(t, errors.Is(err, ErrUnknownSetting))
}

func TestSetSetting(t *testing.T) {
	vp := newSettingsViewport(t)

	require.NoError(t, vp.SetSetting("app_mode", false))
	require.NoError(t, vp.SetSetting("notify_enabled", "yes"))
	require.NoError(t, vp.SetSetting("contact", "mailto:admin@example.com"))
	require.NoError(t, vp.SetSetting("organization_name", "Example"))
	require.NoError(t, vp.SetSetting("open_to_public", true))

	s := vp.Settings()
	assert.False(t, s.AppMode)
	assert.True(t, s.NotifyEnabled)
	assert.Equal(t, "bWFpbHRvOmFkbWluQGV4YW1wbGUuY29t", s.Meta["convos:contact"])
	assert.Equal(t, "Example", s.Meta["contactorganization"])
	assert.Equal(t, "yes", s.Meta["convos:open_to_public"])

	got, err := vp.Setting("contact")
	require.NoError(t, err)
	assert.Equal(t, "mailto:admin@example.com", got)
}

func TestSettings_SaveRoundTrip(t *testing.T) {
	s, err := LoadSettings("testdata/settings.yaml")
	require.NoError(t, err)
	s.Meta["convos:status"] = "no"

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, s.Save(path))

	loaded, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestLoadSettings_Errors(t *testing.T) {
	_, err := LoadSettings("testdata/missing.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, writeFile(path, "meta: [unclosed"))
	_, err = LoadSettings(path)
	assert.Error(t, err)
}

func TestTruthy(t *testing.T) {
	assert.False(t, truthy(nil))
	assert.False(t, truthy(""))
	assert.False(t, truthy(0))
	assert.False(t, truthy(int64(0)))
	assert.True(t, truthy("false"))
	assert.True(t, truthy(1.5))
	assert.True(t, truthy([]string{}))
}
