// Package i18nhttp resolves the request locale and exposes it to views and
// initial props hooks.
package i18nhttp

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/louisbranch/localegate/internal/platform/i18n/intlstate"
	"github.com/louisbranch/localegate/internal/platform/i18n/manifest"
	"golang.org/x/text/language"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the user's language preference.
	LangCookieName = "lg_lang"
)

// Locals is the response-local locale data for one request.
type Locals struct {
	Locale     string
	LocalesDir string
}

type localsContextKey struct{}

// ResolveLocale determines the best supported locale for the request.
// The bool indicates whether the lang query param should be persisted as a cookie.
func ResolveLocale(r *http.Request, m *manifest.Manifest) (string, bool) {
	if m == nil {
		m = manifest.Default()
	}
	if r == nil {
		return m.DefaultLocale, false
	}

	if langValue := strings.TrimSpace(r.URL.Query().Get(LangParam)); langValue != "" {
		if locale, ok := supportedLocale(m, langValue); ok {
			return locale, true
		}
	}

	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if locale, ok := supportedLocale(m, cookie.Value); ok {
			return locale, false
		}
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			return m.Match(tags...), false
		}
	}

	return m.DefaultLocale, false
}

func supportedLocale(m *manifest.Manifest, value string) (string, bool) {
	tag, err := language.Parse(strings.TrimSpace(value))
	if err != nil {
		return "", false
	}
	locale := m.MapLocale(tag.String())
	if !m.Supports(locale) {
		return "", false
	}
	return locale, true
}

// SetLanguageCookie persists the selected language on the response.
func SetLanguageCookie(w http.ResponseWriter, locale string) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    locale,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// LanguageURL returns the current URL with the language param updated.
func LanguageURL(path string, rawQuery string, locale string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		path = "/"
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		query = url.Values{}
	}
	query.Set(LangParam, locale)
	return (&url.URL{Path: path, RawQuery: query.Encode()}).String()
}

// WithLocals stores response-local locale data in context.
func WithLocals(ctx context.Context, locals Locals) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, localsContextKey{}, locals)
}

// LocalsFromContext returns the response-local locale data, if any.
func LocalsFromContext(ctx context.Context) (Locals, bool) {
	if ctx == nil {
		return Locals{}, false
	}
	locals, ok := ctx.Value(localsContextKey{}).(Locals)
	return locals, ok
}

// Middleware resolves the request locale and attaches it, the status store,
// and the response locals to the request context.
func Middleware(m *manifest.Manifest, store *intlstate.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			current := m
			if current == nil {
				current = manifest.Default()
			}
			locale, persist := ResolveLocale(r, current)
			if persist {
				SetLanguageCookie(w, locale)
			}
			w.Header().Add("Vary", "Accept-Language")
			w.Header().Set("Content-Language", locale)

			ctx := intlstate.WithLocale(r.Context(), locale)
			if store != nil {
				ctx = intlstate.WithStore(ctx, store)
			}
			ctx = WithLocals(ctx, Locals{Locale: locale, LocalesDir: current.LocalesDir})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
