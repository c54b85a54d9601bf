package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/jirasearch/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConf(t *testing.T, dir, layer, body string) {
	require.NoError(t, os.MkdirAll(filepath.Join(dir, layer), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, layer, "jira.conf"), []byte(body), 0644))
}

func TestLoadLayers(t *testing.T) {
	t.Run("local overrides default", func(tt *testing.T) {
		dir := tt.TempDir()
		writeConf(tt, dir, "default", `
[jira]
hostname = default.example.com
port = 8080
keys = key,summary, ,updated
time_keys = timeoriginalestimate
`)
		writeConf(tt, dir, "local", `
[jira]
hostname = jira.example.com
username = blue
password = s3cr3t
`)

		cfg, err := config.Load(config.Sources{ConfDir: dir, SkipEnviron: true})
		require.NoError(tt, err)
		assert.Equal(tt, "jira.example.com", cfg.Hostname)
		assert.Equal(tt, 8080, cfg.Port)
		assert.Equal(tt, "https", cfg.Protocol)
		assert.Equal(tt, "blue", cfg.Username)
		assert.Equal(tt, []string{"key", "summary", "updated"}, cfg.SimpleKeys())
		assert.Equal(tt, []string{"timeoriginalestimate"}, cfg.TimeKeyList())
		assert.Empty(tt, cfg.CustomKeyList())
		assert.Equal(tt, config.DefaultCustomFields, cfg.CustomFields)
	})

	t.Run("missing conf files are ignored", func(tt *testing.T) {
		cfg, err := config.Load(config.Sources{ConfDir: tt.TempDir(), SkipEnviron: true})
		require.NoError(tt, err)
		assert.Equal(tt, 443, cfg.Port)
		assert.Error(tt, cfg.Validate())
	})

	t.Run("customfields section replaces default table", func(tt *testing.T) {
		dir := tt.TempDir()
		writeConf(tt, dir, "local", `
[jira]
hostname = jira.example.com
[customfields]
customfield_20000 = Team
`)
		cfg, err := config.Load(config.Sources{ConfDir: dir, SkipEnviron: true})
		require.NoError(tt, err)
		assert.Equal(tt, map[string]string{"customfield_20000": "Team"}, cfg.CustomFields)
	})

	t.Run("empty port is checked only for RPC service", func(tt *testing.T) {
		dir := tt.TempDir()
		writeConf(tt, dir, "local", "[jira]\nhostname = jira.example.com\nport =\nusername = blue\n")
		cfg, err := config.Load(config.Sources{ConfDir: dir, SkipEnviron: true})
		require.NoError(tt, err)
		assert.Equal(tt, 0, cfg.Port)
		assert.NoError(tt, cfg.Validate())
		err = cfg.ValidateService()
		require.Error(tt, err)
		assert.Contains(tt, err.Error(), "Invalid port number: 0")
	})

	t.Run("username is required for RPC service", func(tt *testing.T) {
		cfg := config.New()
		cfg.Hostname = "jira.example.com"
		assert.NoError(tt, cfg.Validate())
		assert.Error(tt, cfg.ValidateService())
	})

	t.Run("invalid port is configuration fault", func(tt *testing.T) {
		dir := tt.TempDir()
		writeConf(tt, dir, "local", "[jira]\nport = eighty\n")
		_, err := config.Load(config.Sources{ConfDir: dir, SkipEnviron: true})
		require.Error(tt, err)
	})
}

func TestLoadEnviron(t *testing.T) {
	dir := t.TempDir()
	writeConf(t, dir, "local", "[jira]\nhostname = file.example.com\nusername = blue\n")

	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("JIRA_PASSWORD=from-dotenv\nJIRA_USERNAME=orange\n"), 0644))

	t.Setenv("JIRA_HOSTNAME", "env.example.com")
	t.Setenv("JIRA_USERNAME", "red")
	// registers restore of JIRA_PASSWORD that is set by dotenv
	t.Setenv("JIRA_PASSWORD", "")
	require.NoError(t, os.Unsetenv("JIRA_PASSWORD"))

	cfg, err := config.Load(config.Sources{ConfDir: dir, EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "env.example.com", cfg.Hostname)
	// dotenv never overrides existing environment variables
	assert.Equal(t, "red", cfg.Username)
	assert.Equal(t, "from-dotenv", cfg.Password)
}

func TestURLs(t *testing.T) {
	dir := t.TempDir()
	writeConf(t, dir, "local", "[jira]\nhostname = jira.example.com\nport = 8443\nbase_url = /jira/\ndefault_project = OPS\n")
	cfg, err := config.Load(config.Sources{ConfDir: dir, SkipEnviron: true})
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "https://jira.example.com/sr/jira.issueviews:searchrequest-xml/temp/SearchRequest.xml", cfg.SearchRequestURL())
	assert.Equal(t, "https://jira.example.com:8443/jira/rpc/soap/jirasoapservice-v2?wsdl", cfg.ServiceURL())
	assert.Equal(t, "https://jira.example.com:8443/jira/rpc/soap/jirasoapservice-v2", cfg.ServiceEndpoint())

	q, err := cfg.DefaultQuery()
	require.NoError(t, err)
	assert.Equal(t, "project=OPS", q)

	cfg.BaseURL = ""
	assert.Equal(t, "https://jira.example.com:8443/rpc/soap/jirasoapservice-v2?wsdl", cfg.ServiceURL())

	cfg.DefaultProject = ""
	_, err = cfg.DefaultQuery()
	assert.Error(t, err)
}
