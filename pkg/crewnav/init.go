// Package crewnav implements the navigation engine for the Crew mobile
// workforce client: route matching, guard evaluation, redirect resolution,
// and the navigation stack, plus the bootstrap that wires configuration,
// localization, and the dependency registry together.
//
// The engine decides, for every requested navigation, whether it is
// permitted, where it ultimately lands, and how the stack evolves. Rendering
// of matched routes is the caller's concern; the engine only exposes state
// and observation hooks.
package crewnav

import (
	"fmt"
	"log/slog"

	"github.com/fieldstack/crewnav/pkg/crewnav/config"
	"github.com/fieldstack/crewnav/pkg/crewnav/guard"
	"github.com/fieldstack/crewnav/pkg/crewnav/internal"
	"github.com/fieldstack/crewnav/pkg/crewnav/locale"
	"github.com/fieldstack/crewnav/pkg/crewnav/registry"
	"github.com/fieldstack/crewnav/pkg/crewnav/route"
)

// Message IDs for the renderable navigation error states.
const (
	MsgNotFound     = "nav.not_found"
	MsgRedirectLoop = "nav.redirect_loop"
	MsgError        = "nav.error"
)

// Options configures application bootstrap.
type Options struct {
	ConfigPath string             // Path to the TOML declaration file (routes, guards, locale, log)
	Registry   *registry.Registry // Supplies guard instances referenced by the config; required when guards are declared
	Env        registry.Env       // Environment tag for registry resolution; empty = detect from ENVIRONMENT
	LogPath    string             // Overrides the config's log path
	LogLevel   string             // Overrides the config's log level
}

// App is the assembled application: the engine plus its collaborators.
// Created once by Init and process-scoped; there is no mutable package-level
// instance.
type App struct {
	Controller *Controller
	Table      *route.Table
	Chain      *guard.Chain
	Translator *locale.Translator
}

// Init loads configuration, builds the route table and guard chain, resolves
// guards through the registry, and assembles the controller. Configuration
// errors (duplicate routes, unknown guard providers) fail closed here, at
// startup.
func Init(options Options) (*App, error) {
	cfg, err := config.Load(options.ConfigPath)
	if err != nil {
		return nil, err
	}

	logPath := cfg.Log.Path
	if options.LogPath != "" {
		logPath = options.LogPath
	}
	if logPath != "" {
		internal.SetLogPath(logPath)
	}
	logLevel := cfg.Log.Level
	if options.LogLevel != "" {
		logLevel = options.LogLevel
	}
	if logLevel != "" {
		internal.SetRawLogLevel(logLevel)
	}

	table, err := cfg.BuildTable()
	if err != nil {
		return nil, err
	}

	chain := guard.NewChain()
	if cfg.FailureFallback != "" {
		chain.WithFailureFallback(cfg.FailureFallback)
	}
	if len(cfg.Guards) > 0 {
		if options.Registry == nil {
			return nil, fmt.Errorf("crewnav: config declares guards but no registry was supplied")
		}
		env := options.Env
		if env == registry.EnvAny {
			env = registry.CurrentEnv()
		}
		container, err := options.Registry.Build(env)
		if err != nil {
			return nil, err
		}
		for _, ref := range cfg.Guards {
			value, ok := container.Lookup(ref.Provider)
			if !ok {
				return nil, fmt.Errorf("crewnav: guard provider %q is not registered", ref.Provider)
			}
			g, ok := value.(guard.Guard)
			if !ok {
				return nil, fmt.Errorf("crewnav: provider %q does not implement guard.Guard", ref.Provider)
			}
			chain.Use(ref.Tag, g)
		}
	}

	var translator *locale.Translator
	if cfg.Locale.Dir != "" {
		translator, err = locale.Load(cfg.Locale.Dir, defaultLang(cfg.Locale.Default), cfg.Locale.Accept...)
		if err != nil {
			return nil, err
		}
	}

	controller := NewController(NewResolver(table, chain), cfg.Initial)

	return &App{
		Controller: controller,
		Table:      table,
		Chain:      chain,
		Translator: translator,
	}, nil
}

func defaultLang(lang string) string {
	if lang == "" {
		return "en"
	}
	return lang
}

// FailureMessage maps a navigation error to the localized, renderable error
// state the shell should display. Unresolvable routes and redirect loops
// always produce a deterministic message, never a partially mutated screen.
func (a *App) FailureMessage(err error) string {
	var id string
	var data map[string]any
	switch {
	case route.IsNotFound(err):
		id = MsgNotFound
	case IsRedirectLoop(err):
		id = MsgRedirectLoop
	default:
		id = MsgError
	}
	if a.Translator == nil {
		return id
	}
	if err != nil {
		data = map[string]any{"Error": err.Error()}
	}
	return a.Translator.T(id, data)
}

// Close releases bootstrap resources. Call before process exit.
func (a *App) Close() {
	internal.CloseLogger()
}

// GetLogger returns the application logger for structured logging.
func GetLogger() *slog.Logger {
	return internal.GetLogger()
}

// SetLogLevel sets the minimum log level for the application logger.
func SetLogLevel(level slog.Level) {
	internal.SetLogLevel(level)
}

// SetRawLogLevel parses and sets the log level from a string
// (e.g., "debug", "info", "error").
func SetRawLogLevel(level string) {
	internal.SetRawLogLevel(level)
}
