package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Type is the expected type of an option value.
type Type string

const (
	TypeString   Type = "string"
	TypeBool     Type = "bool"
	TypeInt      Type = "int"
	TypeFloat    Type = "float"
	TypeDuration Type = "duration"
)

// Option declares one configuration option.
type Option struct {
	Key         string
	Section     string // "" for global
	Type        Type
	Default     string
	Description string
	EnvVar      string // overrides the file when set
}

// Schema is the set of known options.
type Schema struct {
	options []*Option
	index   map[string]*Option
}

func NewSchema() *Schema { return &Schema{index: make(map[string]*Option)} }

func indexKey(section, key string) string { return section + "\x00" + key }

// Register adds opt, replacing an earlier option with the same section and
// key.
func (s *Schema) Register(opts ...Option) {
	for _, opt := range opts {
		ref := &opt
		if old, ok := s.index[indexKey(opt.Section, opt.Key)]; ok {
			*old = opt
			continue
		}
		s.options = append(s.options, ref)
		s.index[indexKey(opt.Section, opt.Key)] = ref
	}
}

// Lookup finds an option, falling back from section to global.
func (s *Schema) Lookup(section, key string) *Option {
	if o, ok := s.index[indexKey(section, key)]; ok {
		return o
	}
	if section != "" {
		return s.index[indexKey("", key)]
	}
	return nil
}

// Options lists a section's options in registration order.
func (s *Schema) Options(section string) []Option {
	var out []Option
	for _, o := range s.options {
		if o.Section == section {
			out = append(out, *o)
		}
	}
	return out
}

// Sections lists the named sections, sorted.
func (s *Schema) Sections() []string {
	var out []string
	for _, o := range s.options {
		if o.Section != "" && !slices.Contains(out, o.Section) {
			out = append(out, o.Section)
		}
	}
	slices.Sort(out)
	return out
}

// Validate reports unknown options and values of the wrong type, sorted.
func (s *Schema) Validate(c *Config) []string {
	var issues []string
	check := func(section, key, value string) {
		where := "global option"
		if section != "" {
			where = fmt.Sprintf("option in [%s]", section)
		}
		o := s.Lookup(section, key)
		if o == nil {
			issues = append(issues, fmt.Sprintf("unknown %s %q", where, key))
			return
		}
		if err := checkType(o.Type, value); err != nil {
			issues = append(issues, fmt.Sprintf("%s %q: %v", where, key, err))
		}
	}
	for k, v := range c.Global {
		check("", k, v)
	}
	for section, opts := range c.Sections {
		for k, v := range opts {
			check(section, k, v)
		}
	}
	slices.Sort(issues)
	return issues
}

func checkType(t Type, v string) error {
	var err error
	switch t {
	case TypeString, "":
	case TypeBool:
		_, err = parseBool(v)
	case TypeInt:
		_, err = strconv.Atoi(v)
	case TypeFloat:
		_, err = strconv.ParseFloat(v, 64)
	case TypeDuration:
		_, err = time.ParseDuration(v)
	default:
		return fmt.Errorf("unknown option type %q", t)
	}
	if err != nil {
		return fmt.Errorf("expected %s, got %q", t, v)
	}
	return nil
}

// Resolve returns the effective value of an option: its environment
// variable, then the file (section then global), then the default.
func (s *Schema) Resolve(c *Config, section, key string) string {
	o := s.Lookup(section, key)
	if o != nil && o.EnvVar != "" {
		if v, ok := os.LookupEnv(o.EnvVar); ok {
			return v
		}
	}
	if c != nil {
		if v, ok := c.Get(section, key); ok {
			return v
		}
	}
	if o != nil {
		return o.Default
	}
	return ""
}

// resolveTyped parses the resolved value, using the default when it does
// not parse.
func resolveTyped[T any](s *Schema, c *Config, section, key string, parse func(string) (T, error)) T {
	if v, err := parse(s.Resolve(c, section, key)); err == nil {
		return v
	}
	var zero T
	if o := s.Lookup(section, key); o != nil {
		if v, err := parse(o.Default); err == nil {
			return v
		}
	}
	return zero
}

func (s *Schema) String(c *Config, section, key string) string { return s.Resolve(c, section, key) }

func (s *Schema) Bool(c *Config, section, key string) bool {
	return resolveTyped(s, c, section, key, parseBool)
}

func (s *Schema) Int(c *Config, section, key string) int {
	return resolveTyped(s, c, section, key, strconv.Atoi)
}

func (s *Schema) Float(c *Config, section, key string) float64 {
	return resolveTyped(s, c, section, key, func(v string) (float64, error) { return strconv.ParseFloat(v, 64) })
}

func (s *Schema) Duration(c *Config, section, key string) time.Duration {
	return resolveTyped(s, c, section, key, time.ParseDuration)
}

// FormatHelp renders every option, globals first.
func (s *Schema) FormatHelp() string {
	var b strings.Builder
	b.WriteString("Global Options:\n")
	for _, o := range s.Options("") {
		writeOption(&b, o)
	}
	for _, sec := range s.Sections() {
		fmt.Fprintf(&b, "\n[%s] Options:\n", sec)
		for _, o := range s.Options(sec) {
			writeOption(&b, o)
		}
	}
	return b.String()
}

func writeOption(b *strings.Builder, o Option) {
	fmt.Fprintf(b, "  %-20s %s", o.Key, o.Description)
	var parts []string
	if o.Type != "" && o.Type != TypeString {
		parts = append(parts, "type: "+string(o.Type))
	}
	if o.Default != "" {
		parts = append(parts, "default: "+o.Default)
	}
	if o.EnvVar != "" {
		parts = append(parts, "env: "+o.EnvVar)
	}
	if len(parts) > 0 {
		fmt.Fprintf(b, " (%s)", strings.Join(parts, ", "))
	}
	b.WriteString("\n")
}

// DefaultSchema declares every lifesim option.
func DefaultSchema() *Schema {
	s := NewSchema()
	s.Register(
		Option{Key: "log.level", Type: TypeString, Default: "info", Description: "Log level: debug, info, warn, error", EnvVar: "LIFESIM_LOG_LEVEL"},
		Option{Key: "log.format", Type: TypeString, Default: "auto", Description: "Log format: text, json, auto", EnvVar: "LIFESIM_LOG_FORMAT"},
		Option{Key: "log.file", Type: TypeString, Description: "Also write JSON logs to this file", EnvVar: "LIFESIM_LOG_FILE"},

		Option{Key: "sim.ticks", Type: TypeInt, Default: "40", Description: "Steps to simulate, 0 for unbounded"},
		Option{Key: "sim.interval", Type: TypeDuration, Default: "50ms", Description: "Delay between steps"},
		Option{Key: "sim.radius", Type: TypeFloat, Default: "100", Description: "Nearby-actor radius for snapshots"},
		Option{Key: "sim.trace", Type: TypeBool, Default: "false", Description: "Log every behavior node tick at debug level"},
		Option{Key: "sim.seed", Type: TypeInt, Default: "1", Description: "Weather seed"},

		Option{Key: "archive.path", Type: TypeString, Description: "SQLite archive of decisions and events; empty disables", EnvVar: "LIFESIM_ARCHIVE"},
		Option{Key: "journal.path", Type: TypeString, Description: "Journal file saved after a run; empty disables"},

		Option{Key: "inspect.addr", Type: TypeString, Default: "127.0.0.1:8080", Description: "Listen address of the inspect server"},
		Option{Key: "inspect.rate", Type: TypeFloat, Default: "20", Description: "Requests per second allowed by the inspect server"},
		Option{Key: "inspect.burst", Type: TypeInt, Default: "40", Description: "Request burst allowed by the inspect server"},

		Option{Key: "urgent", Section: "behavior", Type: TypeString, Default: "has_needs && (hunger < 20 || energy < 20 || social < 20)", Description: "Expression gating urgent recovery"},
		Option{Key: "hungry", Section: "behavior", Type: TypeString, Default: "has_needs && hunger < 30", Description: "Expression gating eating"},
		Option{Key: "tired", Section: "behavior", Type: TypeString, Default: "has_needs && energy < 30", Description: "Expression gating rest"},
		Option{Key: "lonely", Section: "behavior", Type: TypeString, Default: "has_needs && social < 30", Description: "Expression gating socializing"},

		Option{Key: "limit", Section: "history", Type: TypeInt, Default: "20", Description: "Rows shown by history"},
		Option{Key: "styled", Section: "history", Type: TypeBool, Default: "true", Description: "Colour history output on terminals"},
	)
	return s
}
