package localegate

import (
	"context"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/louisbranch/localegate/internal/platform/i18n/localeutil"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// LocalesPropsKey holds the server-loaded localeutil.LocalesProps in Props.
const LocalesPropsKey = "localesProps"

const tracerName = "github.com/louisbranch/localegate/internal/services/web/platform/localegate"

// Props is the merged result of initial props hooks.
type Props map[string]any

// IntlLocals is the request-scoped locale data attached to a response.
type IntlLocals struct {
	Locale string
}

// Locals is response-local data available to initial props hooks.
type Locals struct {
	Intl *IntlLocals
	// LocalesDir is the on-disk locales directory.
	LocalesDir string
}

// Response carries response-local data during server rendering.
type Response struct {
	Locals Locals
}

// ServerContext is passed to initial props hooks. A nil Response means the
// page is being built for client navigation and locale prefetch is skipped.
type ServerContext struct {
	Request  *http.Request
	Response *Response
}

// InitialPropsFunc supplies props before the first render of a page.
type InitialPropsFunc func(ctx context.Context, sc ServerContext) (Props, error)

// LocalesProps returns the server-loaded locale data stored in p.
func (p Props) LocalesProps() (localeutil.LocalesProps, bool) {
	if p == nil {
		return localeutil.LocalesProps{}, false
	}
	switch value := p[LocalesPropsKey].(type) {
	case localeutil.LocalesProps:
		return value, true
	case *localeutil.LocalesProps:
		if value == nil {
			return localeutil.LocalesProps{}, false
		}
		return *value, true
	default:
		return localeutil.LocalesProps{}, false
	}
}

func initialPropsHook[P any](inner *Component[P], localePathPart string, s settings) InitialPropsFunc {
	tracer := otel.Tracer(tracerName)

	return func(ctx context.Context, sc ServerContext) (Props, error) {
		ctx, span := tracer.Start(ctx, "localegate.initial_props", trace.WithAttributes(
			attribute.String("localegate.component", inner.Label()),
			attribute.String("localegate.path_part", localePathPart),
			attribute.Bool("localegate.server_response", sc.Response != nil),
		))
		defer span.End()

		props := Props{}
		if sc.Response != nil {
			locale := s.manifest.DefaultLocale
			if intl := sc.Response.Locals.Intl; intl != nil && strings.TrimSpace(intl.Locale) != "" {
				locale = strings.TrimSpace(intl.Locale)
			}
			localesParentDir := filepath.Dir(sc.Response.Locals.LocalesDir)
			span.SetAttributes(attribute.String("localegate.locale", locale))

			localesProps, err := s.loader.ServerLoadData(localePathPart, locale, localesParentDir)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "load locale data")
				return nil, err
			}
			props[LocalesPropsKey] = localesProps
		}

		if inner.InitialProps == nil {
			return props, nil
		}
		innerProps, err := inner.InitialProps(ctx, sc)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "wrapped initial props")
			return nil, err
		}
		if _, loaded := props[LocalesPropsKey]; loaded {
			if _, overridden := innerProps[LocalesPropsKey]; overridden {
				s.logger.WarnContext(ctx, "wrapped initial props replaced server-loaded locale data",
					slog.String("component", inner.Label()),
					slog.String("path_part", localePathPart),
				)
			}
		}
		for key, value := range innerProps {
			props[key] = value
		}
		return props, nil
	}
}
