package web

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/louisbranch/localegate/internal/platform/i18n/localeutil"
	"github.com/louisbranch/localegate/internal/platform/i18n/manifest"
	"github.com/louisbranch/localegate/internal/services/shared/i18nhttp"
	"github.com/louisbranch/localegate/internal/services/web/platform/localegate"
	"github.com/louisbranch/localegate/internal/services/web/platform/pagerender"
	webtemplates "github.com/louisbranch/localegate/internal/services/web/templates"
)

const (
	emailsPathPart = "/locales/emails"
	defaultFolder  = "inbox"
)

var emailFolders = map[string]struct{}{
	"inbox":   {},
	"sent":    {},
	"archive": {},
}

type pages struct {
	home   pagerender.Page
	emails pagerender.Page
}

func newPages(m *manifest.Manifest) pages {
	options := localegate.Options{
		Loading:  webtemplates.Loading(),
		Manifest: m,
		Loader:   localeutil.New(m),
	}
	return pages{
		home:   localegate.Wrap(homePage(m.Locales), "", options),
		emails: localegate.Wrap(emailsPage(m.Locales), emailsPathPart, options),
	}
}

func homePage(locales []string) pagerender.Page {
	return pagerender.Page{
		Name: "HomePage",
		Meta: localegate.PageMeta{Title: "localegate"},
		Render: func(localegate.Props) templ.Component {
			return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				loc := webtemplates.LocalizerFromContext(ctx)
				var b strings.Builder
				b.WriteString(`<section id="home"><h1>`)
				b.WriteString(templ.EscapeString(webtemplates.T(loc, "home.title")))
				b.WriteString(`</h1><p>`)
				b.WriteString(templ.EscapeString(webtemplates.T(loc, "home.tagline")))
				b.WriteString(`</p><a href="/emails">`)
				b.WriteString(templ.EscapeString(webtemplates.T(loc, "home.emails_link")))
				b.WriteString(`</a>`)
				writeLanguageLinks(ctx, &b, "/", locales)
				b.WriteString(`</section>`)
				_, err := io.WriteString(w, b.String())
				return err
			})
		},
	}
}

func emailsPage(locales []string) pagerender.Page {
	return pagerender.Page{
		Name: "EmailsPage",
		Meta: localegate.PageMeta{Title: "Emails", Description: "Mail folders"},
		InitialProps: func(_ context.Context, sc localegate.ServerContext) (localegate.Props, error) {
			folder := defaultFolder
			if sc.Request != nil {
				requested := strings.ToLower(strings.TrimSpace(sc.Request.URL.Query().Get("folder")))
				if _, ok := emailFolders[requested]; ok {
					folder = requested
				}
			}
			return localegate.Props{"folder": folder}, nil
		},
		Render: func(props localegate.Props) templ.Component {
			folder, _ := props["folder"].(string)
			if folder == "" {
				folder = defaultFolder
			}
			return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				loc := webtemplates.LocalizerFromContext(ctx)
				var b strings.Builder
				b.WriteString(`<section id="emails"><h1>`)
				b.WriteString(templ.EscapeString(webtemplates.T(loc, "emails.title")))
				b.WriteString(`</h1><h2 data-folder="`)
				b.WriteString(templ.EscapeString(folder))
				b.WriteString(`">`)
				b.WriteString(templ.EscapeString(webtemplates.T(loc, "emails.folder."+folder)))
				b.WriteString(`</h2>`)
				writeLanguageLinks(ctx, &b, "/emails", locales)
				b.WriteString(`</section>`)
				_, err := io.WriteString(w, b.String())
				return err
			})
		},
	}
}

func writeLanguageLinks(ctx context.Context, b *strings.Builder, path string, locales []string) {
	locals, ok := i18nhttp.LocalsFromContext(ctx)
	if !ok {
		return
	}
	b.WriteString(`<nav class="languages">`)
	for _, locale := range locales {
		b.WriteString(`<a href="`)
		b.WriteString(templ.EscapeString(i18nhttp.LanguageURL(path, "", locale)))
		b.WriteString(`"`)
		if locale == locals.Locale {
			b.WriteString(` aria-current="true"`)
		}
		b.WriteString(`>`)
		b.WriteString(templ.EscapeString(locale))
		b.WriteString(`</a>`)
	}
	b.WriteString(`</nav>`)
}
