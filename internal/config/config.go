package config

import (
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/vango-dev/vbind/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "vbind.json"

	// DefaultPort is the default live server port.
	DefaultPort = 3000

	// DefaultHost is the default live server host.
	DefaultHost = "localhost"

	// DefaultSelector is the default mount point.
	DefaultSelector = "#app"

	// DefaultPrefix is the default directive prefix.
	DefaultPrefix = "v-"

	// DefaultTemplate and DefaultData are the file names used when the config
	// leaves them empty.
	DefaultTemplate = "index.html"
	DefaultData     = "data.json"
)

// Config represents vbind.json.
type Config struct {
	// Template is the template file, or an s3://bucket/key URL.
	Template string `json:"template,omitempty"`

	// Data is the JSON data file, or an s3://bucket/key URL.
	Data string `json:"data,omitempty"`

	// Selector locates the mount element in the template.
	Selector string `json:"selector,omitempty"`

	// Prefix is the directive attribute prefix.
	Prefix string `json:"prefix,omitempty"`

	// Strict aborts on the first binding that fails to compile.
	Strict bool `json:"strict,omitempty"`

	// Computed maps property names to expressions.
	Computed map[string]string `json:"computed,omitempty"`

	// Methods maps method names to assignments (path to expression).
	Methods map[string]map[string]string `json:"methods,omitempty"`

	// Server contains live server configuration.
	Server ServerConfig `json:"server,omitempty"`

	// S3 contains settings for s3:// sources.
	S3 S3Config `json:"s3,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains live server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// Metrics exposes /metrics on the live server.
	Metrics bool `json:"metrics,omitempty"`
}

// S3Config contains S3 source settings.
type S3Config struct {
	// Region is the AWS region.
	Region string `json:"region,omitempty"`

	// Endpoint overrides the S3 endpoint, e.g. for MinIO.
	Endpoint string `json:"endpoint,omitempty"`
}

// envOverlay holds values read from the environment. Nil fields are unset.
type envOverlay struct {
	Template *string `env:"VBIND_TEMPLATE"`
	Data     *string `env:"VBIND_DATA"`
	Selector *string `env:"VBIND_SELECTOR"`
	Strict   *bool   `env:"VBIND_STRICT"`
	Host     *string `env:"VBIND_HOST"`
	Port     *int    `env:"VBIND_PORT"`
	Metrics  *bool   `env:"VBIND_METRICS"`
	Region   *string `env:"AWS_REGION"`
	Endpoint *string `env:"VBIND_S3_ENDPOINT"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Template: DefaultTemplate,
		Data:     DefaultData,
		Selector: DefaultSelector,
		Prefix:   DefaultPrefix,
		Server: ServerConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for vbind.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigNotFound).
				WithDetail("No vbind.json found in " + filepath.Dir(path))
		}
		return nil, errors.New(errors.CodeConfigInvalid).Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		e := errors.New(errors.CodeConfigSyntax).Wrap(err).
			WithSuggestion("Check that vbind.json is valid JSON")
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case stderrors.As(err, &syntaxErr):
			e.WithOffset(path, data, syntaxErr.Offset)
		case stderrors.As(err, &typeErr):
			e.WithOffset(path, data, typeErr.Offset)
		}
		return nil, e
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Template == "" {
		c.Template = DefaultTemplate
	}
	if c.Data == "" {
		c.Data = DefaultData
	}
	if c.Selector == "" {
		c.Selector = DefaultSelector
	}
	if c.Prefix == "" {
		c.Prefix = DefaultPrefix
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
}

// ApplyEnv overlays VBIND_* and AWS_REGION variables onto the config. A nil
// environ reads the process environment.
func (c *Config) ApplyEnv(environ map[string]string) error {
	var ov envOverlay
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&ov, opts); err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err).
			WithDetail("Failed to read configuration from the environment")
	}

	setString(&c.Template, ov.Template)
	setString(&c.Data, ov.Data)
	setString(&c.Selector, ov.Selector)
	setString(&c.Server.Host, ov.Host)
	setString(&c.S3.Region, ov.Region)
	setString(&c.S3.Endpoint, ov.Endpoint)
	if ov.Strict != nil {
		c.Strict = *ov.Strict
	}
	if ov.Port != nil {
		c.Server.Port = *ov.Port
	}
	if ov.Metrics != nil {
		c.Server.Metrics = *ov.Metrics
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("server.port must be between 0 and 65535")
	}
	if strings.TrimSpace(c.Selector) == "" {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("selector must not be empty")
	}
	if strings.ContainsAny(c.Prefix, " \t\n=\"'") {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("prefix " + strconv.Quote(c.Prefix) + " is not a valid attribute name prefix")
	}
	for name := range c.Computed {
		if _, ok := c.Methods[name]; ok {
			return errors.New(errors.CodeConfigInvalid).
				WithDetail(strconv.Quote(name) + " is both a computed property and a method")
		}
	}
	for name, assignments := range c.Methods {
		if len(assignments) == 0 {
			return errors.New(errors.CodeConfigInvalid).
				WithDetail("method " + strconv.Quote(name) + " has no assignments")
		}
	}
	return nil
}

// ServerAddress returns the address string for the live server.
func (c *Config) ServerAddress() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// ServerURL returns the full URL for the live server.
func (c *Config) ServerURL() string {
	return "http://" + c.ServerAddress()
}

// TemplatePath returns the template location, resolved against the config
// directory unless it is absolute or a URL.
func (c *Config) TemplatePath() string {
	return c.resolve(c.Template)
}

// DataPath returns the data location, resolved like TemplatePath.
func (c *Config) DataPath() string {
	return c.resolve(c.Data)
}

func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || strings.Contains(path, "://") {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing vbind.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New(errors.CodeConfigNotFound).
				WithDetail("No vbind.json found in " + startDir + " or any parent directory").
				WithSuggestion("Run 'vbind init' to create one")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory
// or its nearest parent holding vbind.json.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
