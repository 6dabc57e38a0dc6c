package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command against a fresh database in a temp dir
// unless args already name one.
func execute(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, "--db", db))

	err := cmd.Execute()
	return buf.String(), err
}

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "convos.db")
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "viewport", cmd.Use)
	assert.Contains(t, cmd.Long, "CONVOS_")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"get", "set", "theme", "settings", "keys", "watch", "test", "version"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	tests := []struct {
		name      string
		shorthand string
		def       string
	}{
		{"verbose", "v", "false"},
		{"format", "", "text"},
		{"db", "", "convos.db"},
		{"config", "", ""},
		{"cookie-name", "", "convos_js"},
		{"themes", "", ""},
		{"settings", "", ""},
		{"dark", "", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := cmd.PersistentFlags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, tt.def, flag.DefValue)
		})
	}
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, tempDB(t), "get", "--format", "xml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "viewport.yaml")
	require.NoError(t, os.WriteFile(config, []byte("format: json\n"), 0o644))

	out, err := execute(t, tempDB(t), "get", "width", "--config", config)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","data":{"width":0}}`, out)
}

func TestConfigFile_Missing(t *testing.T) {
	_, err := execute(t, tempDB(t), "get", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestEnvironment(t *testing.T) {
	t.Setenv("CONVOS_FORMAT", "json")

	out, err := execute(t, tempDB(t), "get", "height")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","data":{"height":0}}`, out)
}

func TestFlagOverridesEnvironment(t *testing.T) {
	t.Setenv("CONVOS_FORMAT", "json")

	out, err := execute(t, tempDB(t), "get", "height", "--format", "text")
	require.NoError(t, err)
	assert.Equal(t, "height: 0\n", out)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, tempDB(t), "version")
	require.NoError(t, err)
	assert.Equal(t, "viewport "+Version+"\n", out)
}
