package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethanCharter/floatlog/pkg/config"
)

// newServeTestCmd builds a throwaway command carrying the serve flag
// set, so Changed() reflects the args of this test only.
func newServeTestCmd(f *serveFlags, args []string) *cobra.Command {
	cmd := &cobra.Command{Use: "serve", RunE: func(*cobra.Command, []string) error { return nil }}
	cmd.Flags().StringVarP(&f.configFile, "config", "c", "", "")
	cmd.Flags().StringVar(&f.host, "host", "", "")
	cmd.Flags().IntVarP(&f.port, "port", "p", 0, "")
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "")
	cmd.Flags().IntVar(&f.maxEntries, "max-entries", 0, "")
	cmd.Flags().StringVar(&f.corsOrigins, "cors-origins", "", "")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "")
	cmd.Flags().StringVar(&f.logFormat, "log-format", "", "")
	cmd.SetArgs(args)
	return cmd
}

func TestApplyServeFlagsOverridesConfig(t *testing.T) {
	var f serveFlags
	cmd := newServeTestCmd(&f, []string{
		"--host", "0.0.0.0",
		"--port", "9999",
		"--api-key", "k",
		"--max-entries", "50",
		"--cors-origins", "http://a.test, http://b.test",
		"--log-level", "debug",
	})
	require.NoError(t, cmd.Execute())

	cfg := config.Default()
	applyServeFlags(cfg, cmd, &f)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "k", cfg.Server.APIKey)
	assert.Equal(t, 50, cfg.Store.MaxEntries)
	assert.True(t, cfg.Server.CORS.Enabled)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORS.Origins)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format, "unset flags leave config values alone")
}

func TestApplyServeFlagsKeepsConfigDefaults(t *testing.T) {
	var f serveFlags
	cmd := newServeTestCmd(&f, nil)
	require.NoError(t, cmd.Execute())

	cfg := config.Default()
	cfg.Store.MaxEntries = 123
	applyServeFlags(cfg, cmd, &f)

	assert.Equal(t, config.DefaultHost, cfg.Server.Host)
	assert.Equal(t, config.DefaultPort, cfg.Server.Port)
	assert.Equal(t, 123, cfg.Store.MaxEntries, "unset --max-entries must not clobber the file value")
	assert.False(t, cfg.Server.CORS.Enabled)
}

func TestApplyServeFlagsExplicitZeroMaxEntries(t *testing.T) {
	var f serveFlags
	cmd := newServeTestCmd(&f, []string{"--max-entries", "0"})
	require.NoError(t, cmd.Execute())

	cfg := config.Default()
	cfg.Store.MaxEntries = 123
	applyServeFlags(cfg, cmd, &f)

	assert.Equal(t, 0, cfg.Store.MaxEntries, "an explicit 0 unbounds the store")
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"http://a", "http://b"}, splitOrigins("http://a,http://b"))
	assert.Equal(t, []string{"http://a"}, splitOrigins(" http://a , "))
	assert.Nil(t, splitOrigins(""))
}
