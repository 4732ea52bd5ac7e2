// Package config reads the lifesim configuration file.
//
// The format is line based: `optionName value`, `#` comments and
// `[section]` headers for command-specific options. Options are declared in
// a Schema, which supplies types, defaults and environment overrides.
package config

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config is a parsed configuration file.
type Config struct {
	// Global holds options outside any section.
	Global map[string]string
	// Sections holds options under [name] headers.
	Sections map[string]map[string]string
	// Warnings lists problems found while loading; they never fail a load.
	Warnings []string
}

func New() *Config {
	return &Config{
		Global:   make(map[string]string),
		Sections: make(map[string]map[string]string),
	}
}

// Load reads the file at Path. A missing file yields an empty Config.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, fmt.Errorf("config: locate file: %w", err)
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the file at path. Symlinks are rejected.
func LoadFromPath(path string) (*Config, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("config: stat: %w", err)
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		return nil, fmt.Errorf("config: symlink not allowed: %s", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open: %w", err)
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader parses r and validates it against DefaultSchema.
func LoadFromReader(r io.Reader) (*Config, error) {
	c := New()
	scanner := bufio.NewScanner(r)
	section := ""
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSpace(strings.Trim(line, "[]"))
			continue
		}
		name, value, _ := strings.Cut(line, " ")
		value = strings.TrimSpace(value)
		if section == "" {
			c.Global[name] = value
		} else {
			c.Set(section, name, value)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}
	for _, issue := range DefaultSchema().Validate(c) {
		c.warn(issue)
	}
	return c, nil
}

func (c *Config) warn(msg string) {
	c.Warnings = append(c.Warnings, msg)
	slog.Warn("config: " + msg)
}

// Get returns a section option, falling back to the global option of the
// same name. An empty section reads globals only.
func (c *Config) Get(section, name string) (string, bool) {
	if section != "" {
		if v, ok := c.Sections[section][name]; ok {
			return v, true
		}
	}
	v, ok := c.Global[name]
	return v, ok
}

// Set stores an option; an empty section sets a global.
func (c *Config) Set(section, name, value string) {
	if section == "" {
		c.Global[name] = value
		return
	}
	if c.Sections[section] == nil {
		c.Sections[section] = make(map[string]string)
	}
	c.Sections[section][name] = value
}

// parseBool accepts true/false, 1/0, yes/no and on/off in any case.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean value: %s", s)
	}
}
