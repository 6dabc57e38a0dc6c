package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_VersionPersist(t *testing.T) {
	scenario := &Scenario{
		Name:        "version",
		Description: "durable default then update",
		Declare: []Declaration{
			{Kind: "persist", Name: "version", Value: ""},
		},
		Steps: []Step{
			{Update: map[string]any{"version": "2.0"}},
		},
		Expect: Expect{
			Events:  []map[string]bool{{"version": true}},
			Values:  map[string]any{"version": "2.0"},
			Durable: map[string]*string{"version": ptr(`"2.0"`)},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	persists := result.Persists("durable")
	require.Len(t, persists, 2)
	assert.Equal(t, `""`, persists[0].Raw)
	assert.Equal(t, `"2.0"`, persists[1].Raw)
	assert.Equal(t, "2.0", result.Values["version"])
}

func TestRun_ExpectationMismatch(t *testing.T) {
	scenario := &Scenario{
		Name:        "mismatch",
		Description: "every expectation is wrong",
		Declare: []Declaration{
			{Kind: "rw", Name: "width", Value: 0},
			{Kind: "persist", Name: "version", Value: "1.0"},
		},
		Steps: []Step{
			{Update: map[string]any{"width": 10}},
		},
		Expect: Expect{
			Events:  []map[string]bool{{"width": false}},
			Values:  map[string]any{"width": 11},
			Durable: map[string]*string{"version": nil, "other": ptr(`1`)},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 4)
	assert.Contains(t, result.Errors[0], "update event 0")
	assert.Contains(t, result.Errors[1], `value "width": expected 11, got 10`)
	assert.Contains(t, result.Errors[2], `durable "other": expected 1, got absent`)
	assert.Contains(t, result.Errors[3], `durable "version": expected absent`)
}

func TestRun_EventCountMismatch(t *testing.T) {
	scenario := &Scenario{
		Name:        "no_events",
		Description: "an update was expected but nothing changed",
		Declare:     []Declaration{{Kind: "rw", Name: "width", Value: 0}},
		Steps:       []Step{{Flush: true}},
		Expect:      Expect{Events: []map[string]bool{{"width": true}}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "update events: expected 1, got 0")
}

func TestRun_UnexpectedDeclarationError(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad",
		Description: "volatile without a value",
		Declare:     []Declaration{{Kind: "ro", Name: "missing"}},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_DECLARATION")
}

func TestRun_MissingExpectedError(t *testing.T) {
	scenario := &Scenario{
		Name:        "ok",
		Description: "declaration succeeds unexpectedly",
		Declare: []Declaration{
			{Kind: "rw", Name: "width", Value: 0, ExpectError: "INVALID_DECLARATION"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "expected error INVALID_DECLARATION, got none")
}

func TestRun_WrongErrorCode(t *testing.T) {
	scenario := &Scenario{
		Name:        "wrong_code",
		Description: "declaration fails with a different code",
		Declare: []Declaration{
			{Kind: "ro", Name: "missing", ExpectError: "UNKNOWN_PROPERTY_KIND"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "got INVALID_DECLARATION")
}

func TestRun_UnknownBackend(t *testing.T) {
	scenario := &Scenario{
		Name:        "backend",
		Description: "unsupported backend",
		Backend:     "redis",
		Declare:     []Declaration{{Kind: "rw", Name: "width", Value: 0}},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown backend")
}

func TestRun_SQLiteSeed(t *testing.T) {
	scenario := &Scenario{
		Name:        "sqlite_seed",
		Description: "seeded values override defaults",
		Backend:     BackendSQLite,
		Seed: Seed{
			Durable: map[string]string{"version": `"3.1"`},
			Session: map[string]string{"colorScheme": `"light"`},
		},
		Declare: []Declaration{
			{Kind: "persist", Name: "version", Value: ""},
			{Kind: "cookie", Name: "colorScheme", Value: "auto"},
		},
		Expect: Expect{
			Events: []map[string]bool{},
			Values: map[string]any{"version": "3.1", "colorScheme": "light"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Persists("durable"))
	assert.Empty(t, result.Persists("session"))
}

func TestRun_Scenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func ptr(s string) *string {
	return &s
}
