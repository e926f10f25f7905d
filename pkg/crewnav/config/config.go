// Package config loads the application's static declaration surface: the
// route table, guard wiring, initial location, locale, and logging settings.
// The file is read once at startup; there is no hot reload.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/fieldstack/crewnav/pkg/crewnav/route"
)

// File is the top-level TOML document.
//
//	initial = "/home"
//	failure_fallback = "/login"
//
//	[[route]]
//	name = "home"
//	pattern = "/home"
//
//	[[route]]
//	name = "jobs"
//	pattern = "/jobs/:id"
//	capabilities = ["authenticated"]
//
//	[[guard]]
//	tag = "authenticated"
//	provider = "session-guard"
type File struct {
	Initial         string     `toml:"initial"`
	FailureFallback string     `toml:"failure_fallback"`
	Routes          []Route    `toml:"route"`
	Guards          []GuardRef `toml:"guard"`
	Locale          Locale     `toml:"locale"`
	Log             Log        `toml:"log"`
}

// Route declares one navigable route.
type Route struct {
	Name         string   `toml:"name"`
	Pattern      string   `toml:"pattern"`
	Capabilities []string `toml:"capabilities"`
}

// GuardRef wires a capability tag to a registry-provided guard instance.
// Order in the file is the guard chain's evaluation order.
type GuardRef struct {
	Tag      string `toml:"tag"`
	Provider string `toml:"provider"`
}

// Locale configures the message bundle directory and language preferences.
type Locale struct {
	Dir     string   `toml:"dir"`
	Default string   `toml:"default"`
	Accept  []string `toml:"accept"`
}

// Log configures the file logging destination and level.
type Log struct {
	Path  string `toml:"path"`
	Level string `toml:"level"`
}

// Load reads and validates a configuration file.
func Load(path string) (*File, error) {
	var f File
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	if f.Initial == "" {
		return fmt.Errorf("config: initial location is required")
	}
	if len(f.Routes) == 0 {
		return fmt.Errorf("config: at least one route is required")
	}
	for i, r := range f.Routes {
		if r.Name == "" || r.Pattern == "" {
			return fmt.Errorf("config: route %d: name and pattern are required", i)
		}
	}
	for i, g := range f.Guards {
		if g.Tag == "" || g.Provider == "" {
			return fmt.Errorf("config: guard %d: tag and provider are required", i)
		}
	}
	return nil
}

// BuildTable constructs the route table from the declared routes.
// A name or pattern collision fails the build: an ambiguous table never
// reaches the engine.
func (f *File) BuildTable() (*route.Table, error) {
	table := route.NewTable()
	for _, r := range f.Routes {
		def := route.Definition{Name: r.Name, Pattern: r.Pattern, Capabilities: r.Capabilities}
		if err := table.Register(def); err != nil {
			return nil, err
		}
	}
	return table, nil
}
