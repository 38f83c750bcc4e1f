package localeutil

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	apperrors "github.com/louisbranch/localegate/internal/platform/errors"
	"github.com/louisbranch/localegate/internal/platform/i18n/manifest"
)

func testUtils() *Utils {
	m := &manifest.Manifest{
		DefaultLocale: "en-US",
		Locales:       []string{"pt-BR", "fr"},
		LocalesMap:    map[string]string{"pt-PT": "pt-BR"},
	}
	m.Normalize()
	return New(m)
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"locales/en-US.json":        {Data: []byte(`{"home.title":"Home"}`)},
		"locales/emails/en-US.json": {Data: []byte(`{"emails.subject":"Subject"}`)},
		"locales/emails/fr.json":    {Data: []byte(`{"emails.subject":"Sujet"}`)},
		"locales/emails/pt-BR.json": {Data: []byte(`{"emails":{"subject":"Assunto","count":3}}`)},
		"locales/broken/en-US.json": {Data: []byte(`{"a": [1, 2]}`)},
		"locales/nested/en-US/extra.json": {Data: []byte(`{"x":"y"}`)},
	}
}

func TestLocaleFile(t *testing.T) {
	t.Parallel()

	u := testUtils()
	tests := []struct {
		pathPart string
		locale   string
		want     string
	}{
		{pathPart: "/locales", locale: "en-US", want: "/locales/en-US.json"},
		{pathPart: "locales/emails/", locale: "fr", want: "/locales/emails/fr.json"},
		{pathPart: "", locale: "en-US", want: "/locales/en-US.json"},
		{pathPart: "/locales/nested/$locale/extra", locale: "en-US", want: "/locales/nested/en-US/extra/en-US.json"},
		{pathPart: "/locales/nested/$locale/extra.json", locale: "en-US", want: "/locales/nested/en-US/extra.json"},
	}
	for _, tc := range tests {
		if got := u.LocaleFile(tc.pathPart, tc.locale); got != tc.want {
			t.Fatalf("LocaleFile(%q, %q) = %q, want %q", tc.pathPart, tc.locale, got, tc.want)
		}
	}
}

func TestFallbackLocale(t *testing.T) {
	t.Parallel()

	u := testUtils()
	tests := []struct {
		locale string
		want   string
		ok     bool
	}{
		{locale: "pt-BR", want: "pt", ok: true},
		{locale: "pt", want: "en-US", ok: true},
		{locale: "en-US", want: "en", ok: true},
		{locale: "", want: "en-US", ok: true},
	}
	for _, tc := range tests {
		got, ok := u.FallbackLocale(tc.locale)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("FallbackLocale(%q) = (%q, %t), want (%q, %t)", tc.locale, got, ok, tc.want, tc.ok)
		}
	}
}

func TestLoadFSExactLocale(t *testing.T) {
	t.Parallel()

	props, err := testUtils().LoadFS(testFS(), "/locales/emails", "fr")
	if err != nil {
		t.Fatalf("LoadFS() error = %v", err)
	}
	if props.Locale != "fr" || props.RequestedLocale != "fr" {
		t.Fatalf("locale = %q requested = %q, want fr", props.Locale, props.RequestedLocale)
	}
	if got := props.LocaleMessages()["emails.subject"]; got != "Sujet" {
		t.Fatalf("emails.subject = %q, want Sujet", got)
	}
	if props.Status["/locales/emails/fr.json"] != Loaded {
		t.Fatalf("status = %v, want loaded", props.Status)
	}
}

func TestLoadFSFlattensNestedMessages(t *testing.T) {
	t.Parallel()

	props, err := testUtils().LoadFS(testFS(), "/locales/emails", "pt-BR")
	if err != nil {
		t.Fatalf("LoadFS() error = %v", err)
	}
	messages := props.LocaleMessages()
	if messages["emails.subject"] != "Assunto" || messages["emails.count"] != "3" {
		t.Fatalf("messages = %v", messages)
	}
}

func TestLoadFSAppliesLocalesMap(t *testing.T) {
	t.Parallel()

	props, err := testUtils().LoadFS(testFS(), "/locales/emails", "pt-PT")
	if err != nil {
		t.Fatalf("LoadFS() error = %v", err)
	}
	if props.Locale != "pt-BR" || props.RequestedLocale != "pt-PT" {
		t.Fatalf("locale = %q requested = %q", props.Locale, props.RequestedLocale)
	}
	if props.Status["/locales/emails/pt-PT.json"] != Loaded {
		t.Fatalf("requested file status = %v, want loaded", props.Status)
	}
}

func TestLoadFSFallsBackToDefaultLocale(t *testing.T) {
	t.Parallel()

	props, err := testUtils().LoadFS(testFS(), "/locales/emails", "de-DE")
	if err != nil {
		t.Fatalf("LoadFS() error = %v", err)
	}
	if props.Locale != "en-US" {
		t.Fatalf("Locale = %q, want en-US", props.Locale)
	}
	if props.RequestedLocale != "de-DE" {
		t.Fatalf("RequestedLocale = %q, want de-DE", props.RequestedLocale)
	}
	for _, file := range []string{"/locales/emails/de-DE.json", "/locales/emails/de.json", "/locales/emails/en-US.json"} {
		if props.Status[file] != Loaded {
			t.Fatalf("status[%s] = %v, want loaded", file, props.Status[file])
		}
	}
}

func TestLoadFSMissingEverywhereReportsError(t *testing.T) {
	t.Parallel()

	props, err := testUtils().LoadFS(testFS(), "/locales/missing", "pt-BR")
	if err != nil {
		t.Fatalf("LoadFS() error = %v", err)
	}
	if props.Locale != "pt-BR" {
		t.Fatalf("Locale = %q, want pt-BR", props.Locale)
	}
	if len(props.LocaleMessages()) != 0 {
		t.Fatalf("messages = %v, want empty", props.LocaleMessages())
	}
	if props.Status["/locales/missing/pt-BR.json"] != Error {
		t.Fatalf("status = %v, want error", props.Status)
	}
	if len(props.Status) != 4 {
		t.Fatalf("attempted files = %v, want 4 (pt-BR, pt, en-US, en)", props.Status)
	}
}

func TestLoadFSInvalidFile(t *testing.T) {
	t.Parallel()

	_, err := testUtils().LoadFS(testFS(), "/locales/broken", "en-US")
	if apperrors.GetCode(err) != apperrors.CodeLocaleFileInvalid {
		t.Fatalf("code = %q, want %q (err=%v)", apperrors.GetCode(err), apperrors.CodeLocaleFileInvalid, err)
	}
}

func TestLoadFSRejectsInvalidLocale(t *testing.T) {
	t.Parallel()

	_, err := testUtils().LoadFS(testFS(), "/locales", "../../etc/passwd")
	if apperrors.GetCode(err) != apperrors.CodeLocaleInvalid {
		t.Fatalf("code = %q, want %q", apperrors.GetCode(err), apperrors.CodeLocaleInvalid)
	}
}

func TestServerLoadDataReadsDisk(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	dir := filepath.Join(root, "locales", "emails")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "en-US.json"), []byte(`{"emails.subject":"Subject"}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	props, err := testUtils().ServerLoadData("/locales/emails", "en-US", root)
	if err != nil {
		t.Fatalf("ServerLoadData() error = %v", err)
	}
	if got := props.LocaleMessages()["emails.subject"]; got != "Subject" {
		t.Fatalf("emails.subject = %q, want Subject", got)
	}
}

func TestParseMessagesRejectsDuplicateFlattenedKeys(t *testing.T) {
	t.Parallel()

	if _, err := ParseMessages([]byte(`{"a.b":"x","a":{"b":"y"}}`)); err == nil {
		t.Fatal("expected duplicate key error")
	}
}

func TestLoadStateString(t *testing.T) {
	t.Parallel()

	want := map[LoadState]string{NotLoaded: "notloaded", Loading: "loading", Loaded: "loaded", Error: "error"}
	for state, name := range want {
		if state.String() != name {
			t.Fatalf("String() = %q, want %q", state.String(), name)
		}
	}
	if Loading.Settled() || !Error.Settled() {
		t.Fatal("Settled() mismatch")
	}
}
