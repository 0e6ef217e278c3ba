// Package i18n holds the server-side catalog of notification titles and
// messages. English is embedded; other locales can be loaded from disk.
package i18n

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const DefaultLocale = "en"

//go:embed locales/en/notifications.yaml
var embedded embed.FS

type Template struct {
	Title   string `yaml:"title"`
	Message string `yaml:"message"`
}

type Catalog map[string]Template

var (
	locales = make(map[string]Catalog)
	mu      sync.RWMutex
)

func init() {
	data, err := embedded.ReadFile("locales/en/notifications.yaml")
	if err != nil {
		panic(err)
	}
	catalog, err := parse(data)
	if err != nil {
		panic(fmt.Errorf("embedded notifications catalog: %w", err))
	}
	locales[DefaultLocale] = catalog
}

func parse(data []byte) (Catalog, error) {
	var file struct {
		Notifications Catalog `yaml:"NOTIFICATIONS"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	return file.Notifications, nil
}

// LoadTranslations reads <localePath>/<locale>/notifications.yaml for every
// locale directory. Keys missing from a loaded locale fall back to English.
func LoadTranslations(localePath string) error {
	entries, err := os.ReadDir(localePath)
	if err != nil {
		return err
	}

	loaded := make(map[string]Catalog)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		filePath := filepath.Join(localePath, entry.Name(), "notifications.yaml")
		data, err := os.ReadFile(filePath)
		if err != nil {
			continue
		}
		catalog, err := parse(data)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", filePath, err)
		}
		loaded[entry.Name()] = catalog
	}

	mu.Lock()
	defer mu.Unlock()
	for locale, catalog := range loaded {
		if locale == DefaultLocale {
			for k, v := range catalog {
				locales[DefaultLocale][k] = v
			}
			continue
		}
		locales[locale] = catalog
	}
	return nil
}

func lookup(locale, key string) (Template, bool) {
	mu.RLock()
	defer mu.RUnlock()

	if catalog, ok := locales[locale]; ok {
		if t, ok := catalog[key]; ok {
			return t, true
		}
	}
	if locale != DefaultLocale {
		if t, ok := locales[DefaultLocale][key]; ok {
			return t, true
		}
	}
	return Template{}, false
}

// Render fills the {placeholder} tokens of the template for key. An unknown
// key renders as the key itself.
func Render(locale, key string, vars map[string]string) (title, message string) {
	t, ok := lookup(locale, key)
	if !ok {
		return key, key
	}

	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	r := strings.NewReplacer(pairs...)
	return r.Replace(t.Title), strings.TrimSpace(r.Replace(t.Message))
}
