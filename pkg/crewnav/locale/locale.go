// Package locale wires go-i18n message bundles into the application.
// Message files are TOML documents named after their language tag
// (e.g., "en.toml", "pt-BR.toml") living in a single directory loaded once
// at startup.
package locale

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// Translator resolves message IDs against the loaded bundle, falling back
// through the accept list to the default language.
type Translator struct {
	localizer *i18n.Localizer
}

// Load builds a translator from the TOML message files in dir.
// defaultLang is the bundle's fallback language; accept lists the user's
// preferred languages in order.
func Load(dir string, defaultLang string, accept ...string) (*Translator, error) {
	tag, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("locale: invalid default language %q: %w", defaultLang, err)
	}

	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("locale: %w", err)
	}
	loaded := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
			continue
		}
		if _, err := bundle.LoadMessageFile(filepath.Join(dir, e.Name())); err != nil {
			return nil, fmt.Errorf("locale: loading %s: %w", e.Name(), err)
		}
		loaded++
	}
	if loaded == 0 {
		return nil, fmt.Errorf("locale: no message files in %s", dir)
	}

	langs := append(append([]string{}, accept...), defaultLang)
	return &Translator{localizer: i18n.NewLocalizer(bundle, langs...)}, nil
}

// T resolves a message ID with optional template data.
// An unknown ID returns the ID itself, so a missing translation degrades to
// a visible marker instead of an empty screen.
func (t *Translator) T(id string, data map[string]any) string {
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		return id
	}
	return msg
}
