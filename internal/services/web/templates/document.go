// Package templates holds the shared document shell and placeholders for web pages.
package templates

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/a-h/templ"
	"github.com/louisbranch/localegate/internal/platform/timeouts"
	"github.com/louisbranch/localegate/internal/services/shared/htmx"
)

const htmxScript = "https://unpkg.com/htmx.org@2.0.4"

type requestURLContextKey struct{}

// WithRequestURL stores the URL a placeholder should poll.
func WithRequestURL(ctx context.Context, url string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestURLContextKey{}, url)
}

// RequestURLFromContext returns the URL stored by WithRequestURL.
func RequestURLFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestURLContextKey{}).(string)
	return value
}

// Document renders the full HTML shell around the context children.
func Document(title string, description string, lang string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if strings.TrimSpace(lang) == "" {
			lang = "en"
		}
		var b strings.Builder
		b.WriteString(`<!doctype html><html lang="`)
		b.WriteString(templ.EscapeString(lang))
		b.WriteString(`"><head><meta charset="utf-8">`)
		b.WriteString(htmx.TitleTag(title))
		if description = strings.TrimSpace(description); description != "" {
			b.WriteString(`<meta name="description" content="`)
			b.WriteString(templ.EscapeString(description))
			b.WriteString(`">`)
		}
		b.WriteString(`<script src="` + htmxScript + `"></script></head><body><main id="main">`)
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := templ.GetChildren(ctx).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

// Loading renders a loading ring that asks the server for the page again
// until the page's locale messages are available.
func Loading() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div class="loading loading-ring loading-md" aria-busy="true"`)
		if url := RequestURLFromContext(ctx); url != "" {
			writeAttributes(&b, htmx.PollAttributes(url, timeouts.LoadingPoll))
		}
		b.WriteString(`></div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeAttributes(b *strings.Builder, attrs templ.Attributes) {
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value, ok := attrs[key].(string)
		if !ok {
			continue
		}
		b.WriteString(" ")
		b.WriteString(key)
		b.WriteString(`="`)
		b.WriteString(templ.EscapeString(value))
		b.WriteString(`"`)
	}
}
