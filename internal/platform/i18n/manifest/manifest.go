// Package manifest holds the process-wide locale configuration: which
// locales exist, where their files live, and which locale and path part
// to use when a caller does not name one.
package manifest

import (
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/louisbranch/localegate/internal/platform/config"
	apperrors "github.com/louisbranch/localegate/internal/platform/errors"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultLocale is used when neither the manifest nor the environment names one.
	DefaultLocale = "en-US"
	// DefaultLocalesPath is the URL and directory segment holding locale files.
	DefaultLocalesPath = "/locales"
)

// Manifest describes the available locale files.
type Manifest struct {
	BasePath      string            `yaml:"basePath" json:"basePath" env:"BASE_PATH"`
	LocalesPath   string            `yaml:"localesPath" json:"localesPath" env:"LOCALES_PATH"`
	DefaultPath   string            `yaml:"defaultPath" json:"defaultPath" env:"DEFAULT_PATH"`
	DefaultLocale string            `yaml:"defaultLocale" json:"defaultLocale" env:"DEFAULT_LOCALE"`
	Locales       []string          `yaml:"locales" json:"locales" env:"LOCALES"`
	LocalesMap    map[string]string `yaml:"localesMap" json:"localesMap" env:"LOCALES_MAP"`
	// LocalesDir is the on-disk directory whose parent anchors locale path parts.
	LocalesDir string `yaml:"localesDir" json:"localesDir" env:"LOCALES_DIR"`
}

var (
	defaultMu       sync.RWMutex
	defaultManifest = New()
)

// New returns a manifest with every default filled in.
func New() *Manifest {
	m := &Manifest{}
	m.Normalize()
	return m
}

// Default returns the process-wide manifest.
func Default() *Manifest {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultManifest
}

// SetDefault replaces the process-wide manifest. A nil manifest restores defaults.
func SetDefault(m *Manifest) {
	if m == nil {
		m = New()
	}
	m.Normalize()
	defaultMu.Lock()
	defaultManifest = m
	defaultMu.Unlock()
}

// Parse decodes a YAML or JSON manifest document.
func Parse(data []byte) (*Manifest, error) {
	m := &Manifest{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeManifestInvalid, "decode manifest", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	m.Normalize()
	return m, nil
}

// Load reads a manifest file from disk.
func Load(filename string) (*Manifest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, apperrors.WrapWithMetadata(apperrors.CodeManifestRead, "read manifest",
			map[string]string{"path": filename}, err)
	}
	return Parse(data)
}

// FromEnv overlays LOCALEGATE_* environment variables onto m.
func (m *Manifest) FromEnv() error {
	if err := config.ParseEnvWithPrefix(m, config.EnvPrefix); err != nil {
		return apperrors.Wrap(apperrors.CodeManifestInvalid, "manifest env", err)
	}
	if err := m.Validate(); err != nil {
		return err
	}
	m.Normalize()
	return nil
}

// Validate reports malformed locale identifiers.
func (m *Manifest) Validate() error {
	check := func(value string) error {
		value = strings.TrimSpace(value)
		if value == "" {
			return nil
		}
		if _, err := language.Parse(value); err != nil {
			return apperrors.WrapWithMetadata(apperrors.CodeManifestInvalid, "invalid locale",
				map[string]string{"locale": value}, err)
		}
		return nil
	}
	if err := check(m.DefaultLocale); err != nil {
		return err
	}
	for _, locale := range m.Locales {
		if err := check(locale); err != nil {
			return err
		}
	}
	for from, to := range m.LocalesMap {
		if err := check(from); err != nil {
			return err
		}
		if err := check(to); err != nil {
			return err
		}
	}
	return nil
}

// Normalize trims values and fills defaults.
func (m *Manifest) Normalize() {
	m.BasePath = strings.TrimRight(strings.TrimSpace(m.BasePath), "/")
	m.LocalesPath = cleanURLPath(m.LocalesPath, DefaultLocalesPath)
	m.DefaultPath = cleanURLPath(m.DefaultPath, m.LocalesPath)
	m.DefaultLocale = strings.TrimSpace(m.DefaultLocale)
	if m.DefaultLocale == "" {
		m.DefaultLocale = DefaultLocale
	}

	seen := map[string]struct{}{}
	locales := make([]string, 0, len(m.Locales)+1)
	for _, locale := range append([]string{m.DefaultLocale}, m.Locales...) {
		locale = strings.TrimSpace(locale)
		if locale == "" {
			continue
		}
		if _, ok := seen[locale]; ok {
			continue
		}
		seen[locale] = struct{}{}
		locales = append(locales, locale)
	}
	sort.Strings(locales[1:])
	m.Locales = locales
	m.LocalesDir = strings.TrimSpace(m.LocalesDir)
}

// Tags returns the parsed language tags, default locale first.
func (m *Manifest) Tags() []language.Tag {
	tags := make([]language.Tag, 0, len(m.Locales))
	for _, locale := range m.Locales {
		if tag, err := language.Parse(locale); err == nil {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Match picks the supported locale that best serves the requested tags.
func (m *Manifest) Match(requested ...language.Tag) string {
	supported := make([]language.Tag, 0, len(m.Locales))
	locales := make([]string, 0, len(m.Locales))
	for _, locale := range m.Locales {
		tag, err := language.Parse(locale)
		if err != nil {
			continue
		}
		supported = append(supported, tag)
		locales = append(locales, locale)
	}
	if len(supported) == 0 {
		return m.DefaultLocale
	}
	_, index, confidence := language.NewMatcher(supported).Match(requested...)
	if confidence == language.No {
		return m.DefaultLocale
	}
	return locales[index]
}

// Supports reports whether locale is listed in the manifest.
func (m *Manifest) Supports(locale string) bool {
	locale = strings.TrimSpace(locale)
	for _, candidate := range m.Locales {
		if candidate == locale {
			return true
		}
	}
	return false
}

// MapLocale applies LocalesMap, returning locale unchanged when unmapped.
func (m *Manifest) MapLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	if mapped, ok := m.LocalesMap[locale]; ok && strings.TrimSpace(mapped) != "" {
		return strings.TrimSpace(mapped)
	}
	return locale
}

// LocaleURL returns the public URL for a locale file.
func (m *Manifest) LocaleURL(localeFile string) string {
	return m.BasePath + path.Clean("/"+strings.TrimPrefix(localeFile, "/"))
}

func cleanURLPath(value string, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return path.Clean("/" + strings.Trim(value, "/"))
}
