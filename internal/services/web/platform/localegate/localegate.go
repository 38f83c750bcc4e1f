// Package localegate wraps page components so they render only after the
// locale messages they need are loaded, and optionally preloads those
// messages while the server builds the page's initial props.
package localegate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/a-h/templ"
	"github.com/louisbranch/localegate/internal/platform/i18n/intlstate"
	"github.com/louisbranch/localegate/internal/platform/i18n/localeutil"
	"github.com/louisbranch/localegate/internal/platform/i18n/manifest"
	"github.com/louisbranch/localegate/internal/platform/logging"
)

const unnamedComponent = "Component"

// PageMeta holds the statics a page declares for the document shell.
type PageMeta struct {
	Title       string
	Description string
}

// Component declares a renderable page and the capabilities it exposes.
type Component[P any] struct {
	// Name is the declared component name.
	Name string
	// DisplayName overrides Name in diagnostics.
	DisplayName string
	// Render builds the view for one set of props.
	Render func(P) templ.Component
	// Meta is copied onto wrappers unchanged.
	Meta PageMeta
	// InitialProps is the optional server prefetch hook.
	InitialProps InitialPropsFunc
	// WrappedComponent is set on wrappers and points at the inner component.
	WrappedComponent *Component[P]
}

// Label returns DisplayName, then Name, then "Component".
func (c Component[P]) Label() string {
	if name := strings.TrimSpace(c.DisplayName); name != "" {
		return name
	}
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	return unnamedComponent
}

// View returns the component's view for props, or an empty view when the
// component declares no renderer.
func (c Component[P]) View(props P) templ.Component {
	if c.Render == nil {
		return templ.NopComponent
	}
	return c.Render(props)
}

// StatusFunc reports the load state of a locale path part at render time.
type StatusFunc func(ctx context.Context, localePathPart string) localeutil.LoadState

// ServerLoader loads locale messages synchronously during server rendering.
type ServerLoader interface {
	ServerLoadData(localePathPart string, locale string, localesDir string) (localeutil.LocalesProps, error)
}

// Options configures a locale-required wrapper.
type Options struct {
	// Loading renders while the locale file is loading. Nil renders nothing.
	Loading templ.Component
	// InitialProps attaches the server prefetch hook even when the wrapped
	// component declares none.
	InitialProps bool

	// Status defaults to intlstate.Status.
	Status StatusFunc
	// Loader defaults to localeutil.New(Manifest).
	Loader ServerLoader
	// Manifest defaults to manifest.Default().
	Manifest *manifest.Manifest
	Logger   *slog.Logger
}

type settings struct {
	loading      templ.Component
	initialProps bool
	status       StatusFunc
	loader       ServerLoader
	manifest     *manifest.Manifest
	logger       *slog.Logger
}

func (o Options) resolve() settings {
	s := settings{
		loading:      o.Loading,
		initialProps: o.InitialProps,
		status:       o.Status,
		loader:       o.Loader,
		manifest:     o.Manifest,
		logger:       logging.OrDefault(o.Logger),
	}
	if s.loading == nil {
		s.loading = templ.NopComponent
	}
	if s.status == nil {
		s.status = intlstate.Status
	}
	if s.manifest == nil {
		s.manifest = manifest.Default()
	}
	if s.loader == nil {
		s.loader = localeutil.New(s.manifest)
	}
	return s
}

// WithLocaleRequired returns a function that wraps a component so it renders
// the loading placeholder until localePathPart is loaded for the request
// locale. An empty localePathPart uses the manifest default path.
func WithLocaleRequired[P any](localePathPart string, options Options) func(Component[P]) Component[P] {
	s := options.resolve()
	localePathPart = strings.TrimSpace(localePathPart)
	if localePathPart == "" {
		localePathPart = s.manifest.DefaultPath
	}

	return func(component Component[P]) Component[P] {
		inner := component
		wrapper := Component[P]{
			Name:             inner.Name,
			DisplayName:      fmt.Sprintf("withLocaleRequired(%s)", inner.Label()),
			Meta:             inner.Meta,
			WrappedComponent: &inner,
		}
		wrapper.Render = func(props P) templ.Component {
			return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				if s.status(ctx, localePathPart) == localeutil.Loading {
					return s.loading.Render(ctx, w)
				}
				return inner.View(props).Render(ctx, w)
			})
		}
		if s.initialProps || inner.InitialProps != nil {
			wrapper.InitialProps = initialPropsHook(&inner, localePathPart, s)
		}
		return wrapper
	}
}

// Wrap is WithLocaleRequired applied to component, letting P be inferred.
func Wrap[P any](component Component[P], localePathPart string, options Options) Component[P] {
	return WithLocaleRequired[P](localePathPart, options)(component)
}
