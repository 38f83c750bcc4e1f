// Package localeassets serves locale files as JSON so browsers and HTMX
// fragments can fetch the messages a page needs.
package localeassets

import (
	"errors"
	"log/slog"
	"net/http"
	"path"
	"strings"

	apperrors "github.com/louisbranch/localegate/internal/platform/errors"
	"github.com/louisbranch/localegate/internal/platform/i18n/intlstate"
	"github.com/louisbranch/localegate/internal/platform/i18n/localeutil"
	"github.com/louisbranch/localegate/internal/platform/i18n/manifest"
	"github.com/louisbranch/localegate/internal/platform/logging"
	"github.com/louisbranch/localegate/internal/services/web/platform/httpx"
	"golang.org/x/text/language"
)

const cacheControl = "public, max-age=300"

var errUnsupported = errors.New("locale not listed in manifest")

// Payload is the JSON body returned for one locale file.
type Payload struct {
	Locale   string            `json:"locale"`
	Messages map[string]string `json:"messages"`
}

// Handler serves GET <pathPart>/<locale>.json from store, applying the
// locale fallback chain.
func Handler(store *intlstate.Store, logger *slog.Logger) http.Handler {
	logger = logging.OrDefault(logger)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			httpx.MethodNotAllowed(w, http.MethodGet, http.MethodHead)
			return
		}
		pathPart, locale, ok := splitLocaleFile(r.URL.Path)
		if !ok {
			http.NotFound(w, r)
			return
		}

		if err := checkLocale(store.Utils().Manifest(), locale); err != nil {
			httpx.WriteError(w, err)
			return
		}

		props, err := store.Load(pathPart, locale)
		if err != nil {
			if httpx.ErrorStatus(err) >= http.StatusInternalServerError {
				logger.ErrorContext(r.Context(), "serve locale file", slog.String("path", r.URL.Path), slog.Any("error", err))
			}
			httpx.WriteError(w, err)
			return
		}
		if props.Status[store.Utils().LocaleFile(pathPart, locale)] == localeutil.Error {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Cache-Control", cacheControl)
		if err := httpx.WriteJSON(w, http.StatusOK, Payload{Locale: props.Locale, Messages: props.LocaleMessages()}); err != nil {
			logger.WarnContext(r.Context(), "write locale file", slog.String("path", r.URL.Path), slog.Any("error", err))
		}
	})
}

// checkLocale accepts only locales the manifest serves, directly or through
// LocalesMap.
func checkLocale(m *manifest.Manifest, locale string) error {
	if _, err := language.Parse(locale); err != nil {
		return apperrors.WrapWithMetadata(apperrors.CodeLocaleInvalid, "invalid locale",
			map[string]string{"locale": locale}, err)
	}
	if !m.Supports(m.MapLocale(locale)) {
		return apperrors.WrapWithMetadata(apperrors.CodeLocaleUnsupported, "unsupported locale",
			map[string]string{"locale": locale}, errUnsupported)
	}
	return nil
}

func splitLocaleFile(urlPath string) (string, string, bool) {
	cleaned := path.Clean("/" + urlPath)
	base := path.Base(cleaned)
	if !strings.HasSuffix(base, ".json") {
		return "", "", false
	}
	locale := strings.TrimSuffix(base, ".json")
	dir := path.Dir(cleaned)
	if locale == "" || dir == "/" {
		return "", "", false
	}
	return dir, locale, true
}
