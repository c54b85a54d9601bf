package config

import (
	"fmt"
	"path/filepath"
	"strings"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/ini.v1"
)

const (
	// SectionJira has connection parameters and field lists
	SectionJira = "jira"
	// SectionCustomFields maps custom field ID to display name
	SectionCustomFields = "customfields"

	confFileName = "jira.conf"
)

// DefaultCustomFields is custom field table of the deployment. It is used when no customfields
// section is configured.
var DefaultCustomFields = map[string]string{
	"customfield_10730": "Cost",
	"customfield_10630": "Product",
}

// Config is connection parameters and field lists. It is loaded once per invocation and
// must not be modified after loading.
type Config struct {
	Hostname       string `mapstructure:"hostname" env:"JIRA_HOSTNAME"`
	Port           int    `mapstructure:"port" env:"JIRA_PORT"`
	Protocol       string `mapstructure:"protocol" env:"JIRA_PROTOCOL"`
	BaseURL        string `mapstructure:"base_url" env:"JIRA_BASE_URL"`
	Username       string `mapstructure:"username" env:"JIRA_USERNAME"`
	Password       string `mapstructure:"password" env:"JIRA_PASSWORD"`
	Keys           string `mapstructure:"keys" env:"JIRA_KEYS"`
	TimeKeys       string `mapstructure:"time_keys" env:"JIRA_TIME_KEYS"`
	CustomKeys     string `mapstructure:"custom_keys" env:"JIRA_CUSTOM_KEYS"`
	DefaultProject string `mapstructure:"default_project" env:"JIRA_DEFAULT_PROJECT"`

	// CustomFields maps custom field ID to display name
	CustomFields map[string]string `mapstructure:"-"`
}

// Sources specifies configuration layers. Empty field is skipped.
type Sources struct {
	// ConfDir has default/jira.conf and local/jira.conf. local overrides default.
	ConfDir string
	// EnvFile is dotenv file. Values in the file never override existing environment variables.
	EnvFile string
	// SkipEnviron disables loading JIRA_* environment variables. It is for testing.
	SkipEnviron bool
}

// New returns Config that has only built-in defaults.
func New() *Config {
	return &Config{
		Port:         443,
		Protocol:     "https",
		CustomFields: lo.Assign(DefaultCustomFields),
	}
}

// Load reads all configuration layers in order: built-in defaults, default/jira.conf,
// local/jira.conf, dotenv file and environment variables.
func Load(src Sources) (*Config, error) {
	cfg := New()

	if src.ConfDir != "" {
		if err := cfg.loadConfFiles(src.ConfDir); err != nil {
			return nil, err
		}
	}

	if src.EnvFile != "" {
		if err := godotenv.Load(src.EnvFile); err != nil {
			return nil, errors.Wrapf(err, "Fail to load env file: %s", src.EnvFile)
		}
	}

	if !src.SkipEnviron {
		if _, err := env.UnmarshalFromEnviron(cfg); err != nil {
			return nil, errors.Wrap(err, "Fail to load environment variables")
		}
	}

	return cfg, nil
}

func confFiles(confDir string) []interface{} {
	return []interface{}{
		filepath.Join(confDir, "default", confFileName),
		filepath.Join(confDir, "local", confFileName),
	}
}

func (x *Config) loadConfFiles(confDir string) error {
	files := confFiles(confDir)
	// Missing files are ignored by LooseLoad, a later file overrides an earlier one.
	conf, err := ini.LooseLoad(files[0], files[1:]...)
	if err != nil {
		return errors.Wrapf(err, "Fail to parse config files in %s", confDir)
	}

	return x.apply(conf)
}

func (x *Config) apply(conf *ini.File) error {
	if sec, err := conf.GetSection(SectionJira); err == nil {
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           x,
		})
		if err != nil {
			return errors.Wrap(err, "Fail to create config decoder")
		}

		if err := decoder.Decode(sec.KeysHash()); err != nil {
			return errors.Wrapf(err, "Invalid value in [%s] section", SectionJira)
		}
	}

	if sec, err := conf.GetSection(SectionCustomFields); err == nil {
		x.CustomFields = sec.KeysHash()
	}

	return nil
}

// Validate checks parameters required by every endpoint.
func (x *Config) Validate() error {
	if x.Hostname == "" {
		return errors.New("hostname is not configured")
	}
	return nil
}

// ValidateService checks port and username. Only the RPC service endpoint has the port and
// requires login.
func (x *Config) ValidateService() error {
	if x.Port <= 0 || x.Port > 65535 {
		return fmt.Errorf("Invalid port number: %d", x.Port)
	}
	if x.Username == "" {
		return errors.New("username is not configured")
	}
	return nil
}

// SimpleKeys returns XPath list of simple keys
func (x *Config) SimpleKeys() []string { return splitKeys(x.Keys) }

// TimeKeyList returns XPath list of time keys
func (x *Config) TimeKeyList() []string { return splitKeys(x.TimeKeys) }

// CustomKeyList returns custom field name list
func (x *Config) CustomKeyList() []string { return splitKeys(x.CustomKeys) }

// DefaultQuery returns JQL that is used when no query is given.
func (x *Config) DefaultQuery() (string, error) {
	if x.DefaultProject == "" {
		return "", errors.New("Neither query nor default_project is given")
	}
	return fmt.Sprintf("project=%s", x.DefaultProject), nil
}

// SearchRequestURL returns URL of XML search endpoint without query string.
func (x *Config) SearchRequestURL() string {
	return fmt.Sprintf("https://%s/sr/jira.issueviews:searchrequest-xml/temp/SearchRequest.xml", x.Hostname)
}

// ServiceURL returns URL of RPC service description (WSDL).
func (x *Config) ServiceURL() string {
	base := strings.Trim(x.BaseURL, "/")
	if base != "" {
		base = "/" + base
	}
	return fmt.Sprintf("%s://%s:%d%s/rpc/soap/jirasoapservice-v2?wsdl", x.Protocol, x.Hostname, x.Port, base)
}

// ServiceEndpoint returns URL to send RPC requests.
func (x *Config) ServiceEndpoint() string {
	return strings.TrimSuffix(x.ServiceURL(), "?wsdl")
}

func splitKeys(raw string) []string {
	keys := lo.Map(strings.Split(raw, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return lo.Compact(keys)
}
