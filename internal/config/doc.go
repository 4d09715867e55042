// Package config provides the configuration for monolcd.
//
// Settings are resolved in layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority (cmd/monolcd)
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← MONOLCD_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← .toml, .yaml or .yml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Basic Usage
//
//	cfg, err := config.Load("monolcd.toml")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
//	    return err
//	}
//	cfg.Source = "demo.lua"
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// A missing config file is not an error; Load returns the defaults.
package config
