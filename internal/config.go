package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/postport/internal/frontmatter"
	"github.com/starford/postport/internal/linkfix"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

var extRe = regexp.MustCompile(`^\.[A-Za-z0-9]+$`)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Migrate MigrateConfig     `yaml:"migrate"`
	Links   LinksConfig       `yaml:"links"`
}

// Validate validates the settings shared by every command. Each command
// validates its own section before it runs.
func (c *Config) Validate() error {
	return c.App.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level"`
	LogFormat string     `yaml:"log_format"`
	// Strict makes a run that had any per-item failure end in an error.
	Strict bool `yaml:"strict"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if c.LogFormat == "" {
		c.LogFormat = LogFormatText
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.LogFormat, validation.In(LogFormatText, LogFormatJSON)),
	)
}

// MigrateConfig holds the migrator's source and destination layout.
//
// Posts land in DestRoot/LocaleSubpath/<slug>/index.md.
type MigrateConfig struct {
	SourceRoot    string `yaml:"source_root"`
	DestRoot      string `yaml:"dest_root"`
	LocaleSubpath string `yaml:"locale_subpath"`
	DateSuffix    string `yaml:"date_suffix"`
}

// Validate validates the migrate configuration.
func (c *MigrateConfig) Validate() error {
	if c.DateSuffix == "" {
		c.DateSuffix = frontmatter.DefaultDateSuffix
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.SourceRoot, validation.Required),
		validation.Field(&c.DestRoot, validation.Required),
		validation.Field(&c.LocaleSubpath, validation.By(relativeSubpath)),
		validation.Field(&c.DateSuffix, validation.By(timestampSuffix)),
	); err != nil {
		return err
	}
	src, err := filepath.Abs(c.SourceRoot)
	if err != nil {
		return fmt.Errorf("migrate: resolve source_root: %w", err)
	}
	dst, err := filepath.Abs(c.DestRoot)
	if err != nil {
		return fmt.Errorf("migrate: resolve dest_root: %w", err)
	}
	if src == dst {
		return fmt.Errorf("migrate: source_root and dest_root are the same directory: %s", src)
	}
	return nil
}

// LinksConfig holds the link repair pass configuration.
type LinksConfig struct {
	ContentRoot string   `yaml:"content_root"`
	Extensions  []string `yaml:"extensions"`
	// Watch keeps repairing files as they change after the first pass.
	Watch bool `yaml:"watch"`
}

// Validate validates the links configuration.
func (c *LinksConfig) Validate() error {
	if len(c.Extensions) == 0 {
		c.Extensions = append([]string(nil), linkfix.DefaultExtensions...)
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.ContentRoot, validation.Required),
		validation.Field(&c.Extensions, validation.Each(validation.Required, validation.Match(extRe))),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
// The migrate source root has no default and must be configured.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelInfo,
			LogFormat: LogFormatText,
		},
		Migrate: MigrateConfig{
			DestRoot:      "./content",
			LocaleSubpath: filepath.Join("ko", "posts"),
			DateSuffix:    frontmatter.DefaultDateSuffix,
		},
		Links: LinksConfig{
			ContentRoot: "./content",
			Extensions:  append([]string(nil), linkfix.DefaultExtensions...),
		},
	}
}

func relativeSubpath(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if filepath.IsAbs(s) {
		return errors.New("must be a relative path")
	}
	cleaned := filepath.Clean(s)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return errors.New("must stay inside dest_root")
	}
	return nil
}

func timestampSuffix(value interface{}) error {
	s, _ := value.(string)
	if _, err := time.Parse(time.RFC3339, "2006-01-02"+s); err != nil {
		return errors.New("must turn a YYYY-MM-DD date into an RFC 3339 timestamp")
	}
	return nil
}
