// Package pagerender serves locale-gated pages for full-page and HTMX requests.
package pagerender

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	apperrors "github.com/louisbranch/localegate/internal/platform/errors"
	"github.com/louisbranch/localegate/internal/platform/i18n/intlstate"
	"github.com/louisbranch/localegate/internal/platform/logging"
	"github.com/louisbranch/localegate/internal/services/shared/htmx"
	"github.com/louisbranch/localegate/internal/services/shared/i18nhttp"
	"github.com/louisbranch/localegate/internal/services/web/platform/httpx"
	"github.com/louisbranch/localegate/internal/services/web/platform/localegate"
	webtemplates "github.com/louisbranch/localegate/internal/services/web/templates"
)

// Page is a component rendered from merged initial props.
type Page = localegate.Component[localegate.Props]

// Options controls page serving.
type Options struct {
	StatusCode int
	Logger     *slog.Logger
}

// ServerContext builds the initial props context for r. HTMX requests are
// client navigations and carry no response, so they skip locale prefetch.
func ServerContext(r *http.Request) localegate.ServerContext {
	sc := localegate.ServerContext{Request: r}
	if r == nil || htmx.IsHTMXRequest(r) {
		return sc
	}
	locals, ok := i18nhttp.LocalsFromContext(r.Context())
	if !ok {
		return sc
	}
	sc.Response = &localegate.Response{Locals: localegate.Locals{
		Intl:       &localegate.IntlLocals{Locale: locals.Locale},
		LocalesDir: locals.LocalesDir,
	}}
	return sc
}

// InitialProps runs the page's initial props hook and hydrates the request
// status store with any locale data it loaded. Hook errors without a code
// are wrapped as CodeInitialProps.
func InitialProps(ctx context.Context, r *http.Request, page Page) (localegate.Props, error) {
	props := localegate.Props{}
	if page.InitialProps == nil {
		return props, nil
	}
	loaded, err := page.InitialProps(ctx, ServerContext(r))
	if err != nil {
		if apperrors.GetCode(err) == apperrors.CodeUnknown {
			err = apperrors.WrapWithMetadata(apperrors.CodeInitialProps, "initial props",
				map[string]string{"page": page.Label()}, err)
		}
		return nil, err
	}
	if loaded != nil {
		props = loaded
	}
	if localesProps, ok := props.LocalesProps(); ok {
		if store := intlstate.StoreFromContext(ctx); store != nil {
			store.Hydrate(localesProps)
		}
	}
	return props, nil
}

// ServePage runs initial props, renders the page, and writes the response.
// HTMX requests receive only the page fragment.
func ServePage(w http.ResponseWriter, r *http.Request, page Page, options Options) {
	if w == nil || r == nil {
		return
	}
	logger := logging.OrDefault(options.Logger)
	ctx := webtemplates.WithRequestURL(r.Context(), r.URL.RequestURI())

	props, err := InitialProps(ctx, r, page)
	if err != nil {
		logger.ErrorContext(ctx, "page initial props",
			slog.String("page", page.Label()),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		httpx.WriteError(w, err)
		return
	}

	body := page.View(props)
	var buf bytes.Buffer
	if htmx.IsHTMXRequest(r) {
		err = body.Render(ctx, &buf)
	} else {
		lang := intlstate.LocaleFromContext(ctx)
		err = webtemplates.Document(page.Meta.Title, page.Meta.Description, lang).Render(templ.WithChildren(ctx, body), &buf)
	}
	if err != nil {
		logger.ErrorContext(ctx, "render page", slog.String("page", page.Label()), slog.Any("error", err))
		httpx.WriteError(w, err)
		return
	}

	statusCode := options.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	if err := httpx.WriteHTML(w, statusCode, buf.Bytes()); err != nil {
		logger.WarnContext(ctx, "write page", slog.String("page", page.Label()), slog.Any("error", err))
	}
}

// Handler adapts page to an http.Handler.
func Handler(page Page, options Options) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServePage(w, r, page, options)
	})
}
