package manifest

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/louisbranch/localegate/internal/platform/errors"
	"golang.org/x/text/language"
)

func TestNewFillsDefaults(t *testing.T) {
	t.Parallel()

	m := New()
	if m.DefaultLocale != DefaultLocale {
		t.Fatalf("DefaultLocale = %q, want %q", m.DefaultLocale, DefaultLocale)
	}
	if m.DefaultPath != DefaultLocalesPath {
		t.Fatalf("DefaultPath = %q, want %q", m.DefaultPath, DefaultLocalesPath)
	}
	if len(m.Locales) != 1 || m.Locales[0] != DefaultLocale {
		t.Fatalf("Locales = %v, want [%s]", m.Locales, DefaultLocale)
	}
}

func TestParseJSONManifest(t *testing.T) {
	t.Parallel()

	m, err := Parse([]byte(`{
		"basePath": "/app/",
		"localesPath": "locales/",
		"defaultLocale": "fr-FR",
		"locales": ["pt-BR", "en-US", "pt-BR"],
		"localesMap": {"fr-CA": "fr-FR"}
	}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if m.BasePath != "/app" {
		t.Fatalf("BasePath = %q, want %q", m.BasePath, "/app")
	}
	if m.LocalesPath != "/locales" || m.DefaultPath != "/locales" {
		t.Fatalf("paths = %q %q, want /locales", m.LocalesPath, m.DefaultPath)
	}
	want := []string{"fr-FR", "en-US", "pt-BR"}
	if len(m.Locales) != len(want) {
		t.Fatalf("Locales = %v, want %v", m.Locales, want)
	}
	for i := range want {
		if m.Locales[i] != want[i] {
			t.Fatalf("Locales = %v, want %v", m.Locales, want)
		}
	}
	if got := m.MapLocale("fr-CA"); got != "fr-FR" {
		t.Fatalf("MapLocale(fr-CA) = %q, want fr-FR", got)
	}
	if got := m.MapLocale("de-DE"); got != "de-DE" {
		t.Fatalf("MapLocale(de-DE) = %q, want de-DE", got)
	}
}

func TestParseYAMLManifest(t *testing.T) {
	t.Parallel()

	m, err := Parse([]byte("defaultPath: /locales/app\nlocales:\n  - en-US\n  - es\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if m.DefaultPath != "/locales/app" {
		t.Fatalf("DefaultPath = %q, want /locales/app", m.DefaultPath)
	}
	if !m.Supports("es") {
		t.Fatal("expected es to be supported")
	}
}

func TestParseRejectsInvalidLocale(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`{"locales": ["not a locale!"]}`))
	if apperrors.GetCode(err) != apperrors.CodeManifestInvalid {
		t.Fatalf("code = %q, want %q", apperrors.GetCode(err), apperrors.CodeManifestInvalid)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if apperrors.GetCode(err) != apperrors.CodeManifestRead {
		t.Fatalf("code = %q, want %q", apperrors.GetCode(err), apperrors.CodeManifestRead)
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "manifest.json")
	if err := os.WriteFile(file, []byte(`{"defaultLocale":"pt-BR"}`), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	m, err := Load(file)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m.DefaultLocale != "pt-BR" {
		t.Fatalf("DefaultLocale = %q, want pt-BR", m.DefaultLocale)
	}
}

func TestFromEnvOverlays(t *testing.T) {
	t.Setenv("LOCALEGATE_DEFAULT_LOCALE", "es-MX")
	t.Setenv("LOCALEGATE_LOCALES", "en-US,es-MX")
	t.Setenv("LOCALEGATE_LOCALES_DIR", "/srv/public/locales")

	m := New()
	if err := m.FromEnv(); err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}
	if m.DefaultLocale != "es-MX" {
		t.Fatalf("DefaultLocale = %q, want es-MX", m.DefaultLocale)
	}
	if m.LocalesDir != "/srv/public/locales" {
		t.Fatalf("LocalesDir = %q", m.LocalesDir)
	}
	if !m.Supports("en-US") {
		t.Fatal("expected en-US to be supported")
	}
}

func TestMatch(t *testing.T) {
	t.Parallel()

	m := &Manifest{DefaultLocale: "en-US", Locales: []string{"pt-BR"}}
	m.Normalize()

	if got := m.Match(language.MustParse("pt")); got != "pt-BR" {
		t.Fatalf("Match(pt) = %q, want pt-BR", got)
	}
	if got := m.Match(language.Japanese); got != "en-US" {
		t.Fatalf("Match(ja) = %q, want en-US", got)
	}
}

func TestSetDefault(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	SetDefault(&Manifest{DefaultLocale: "de-DE"})
	if got := Default().DefaultLocale; got != "de-DE" {
		t.Fatalf("DefaultLocale = %q, want de-DE", got)
	}
	SetDefault(nil)
	if got := Default().DefaultLocale; got != DefaultLocale {
		t.Fatalf("DefaultLocale = %q, want %q", got, DefaultLocale)
	}
}

func TestLocaleURL(t *testing.T) {
	t.Parallel()

	m := &Manifest{BasePath: "/app"}
	m.Normalize()
	if got := m.LocaleURL("locales/emails/en-US.json"); got != "/app/locales/emails/en-US.json" {
		t.Fatalf("LocaleURL() = %q", got)
	}
}
