package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// EnvPrefix starts every environment variable read by ApplyEnv.
const EnvPrefix = "MONOLCD_"

// LookupFunc reports the value of an environment variable.
type LookupFunc func(key string) (string, bool)

// envSetters maps variable names, without the prefix, to setters.
var envSetters = map[string]func(c *Config, v string) error{
	"SOURCE":       func(c *Config, v string) error { c.Source = v; return nil },
	"WIDTH":        intSetter(func(c *Config) *int { return &c.Width }),
	"HEIGHT":       intSetter(func(c *Config) *int { return &c.Height }),
	"SCALE":        floatSetter(func(c *Config) *float64 { return &c.Scale }),
	"ASPECT":       floatSetter(func(c *Config) *float64 { return &c.Aspect }),
	"INVERT":       boolSetter(func(c *Config) *bool { return &c.Invert }),
	"ON_COLOR":     func(c *Config, v string) error { c.OnColor = v; return nil },
	"OFF_COLOR":    func(c *Config, v string) error { c.OffColor = v; return nil },
	"SHOW_FPS":     boolSetter(func(c *Config) *bool { return &c.ShowFPS }),
	"POLL":         durationSetter(func(c *Config) *Duration { return &c.Poll }),
	"EXEC_TIMEOUT": durationSetter(func(c *Config) *Duration { return &c.ExecTimeout }),
	"ENTRY_POINTS": func(c *Config, v string) error { c.EntryPoints = splitList(v); return nil },
	"CACHE_SIZE":   intSetter(func(c *Config) *int { return &c.CacheSize }),
	"U8G2_ROOT":    func(c *Config, v string) error { c.U8g2Root = v; return nil },
	"FONT_CACHE":   func(c *Config, v string) error { c.FontCache = v; return nil },
	"FONT_SIZE":    floatSetter(func(c *Config) *float64 { return &c.FontSize }),
	"HEADLESS":     boolSetter(func(c *Config) *bool { return &c.Headless }),
	"SNAPSHOT":     func(c *Config, v string) error { c.Snapshot = v; return nil },
	"TICKS":        intSetter(func(c *Config) *int { return &c.Ticks }),
	"LOG_LEVEL":    func(c *Config, v string) error { c.LogLevel = v; return nil },
	"LOG_FILE":     func(c *Config, v string) error { c.LogFile = v; return nil },
}

// EnvNames returns the recognized environment variable names.
func EnvNames() []string {
	names := make([]string, 0, len(envSetters))
	for k := range envSetters {
		names = append(names, EnvPrefix+k)
	}
	return names
}

// ApplyEnv overlays MONOLCD_* variables onto c.
// Note: Empty string values are treated as valid values, not as unset.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	var errs []error
	for key, set := range envSetters {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			continue
		}
		if err := set(c, v); err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
		}
	}
	return errors.Join(errs...)
}

func intSetter(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid integer %q", v)
		}
		*field(c) = n
		return nil
	}
}

func floatSetter(field func(*Config) *float64) func(*Config, string) error {
	return func(c *Config, v string) error {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", v)
		}
		*field(c) = f
		return nil
	}
}

func boolSetter(field func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			*field(c) = true
		case "0", "false", "no", "off", "":
			*field(c) = false
		default:
			return fmt.Errorf("invalid boolean %q", v)
		}
		return nil
	}
}

func durationSetter(field func(*Config) *Duration) func(*Config, string) error {
	return func(c *Config, v string) error {
		d, err := ParseDuration(v)
		if err != nil {
			return err
		}
		*field(c) = d
		return nil
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
