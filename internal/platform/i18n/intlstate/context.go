package intlstate

import (
	"context"
	"strings"

	"github.com/louisbranch/localegate/internal/platform/i18n/localeutil"
)

type localeContextKey struct{}

type storeContextKey struct{}

// WithLocale stores the request locale in context.
func WithLocale(ctx context.Context, locale string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, localeContextKey{}, strings.TrimSpace(locale))
}

// LocaleFromContext returns the request locale stored in context.
func LocaleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(localeContextKey{}).(string)
	return value
}

// WithStore stores the status store in context.
func WithStore(ctx context.Context, store *Store) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, storeContextKey{}, store)
}

// StoreFromContext returns the status store stored in context.
func StoreFromContext(ctx context.Context) *Store {
	if ctx == nil {
		return nil
	}
	value, _ := ctx.Value(storeContextKey{}).(*Store)
	return value
}

// Status reports the load state of pathPart for the context locale using the
// context store. Without a store nothing can be loaded, so NotLoaded is
// returned and callers render as if ready.
func Status(ctx context.Context, pathPart string) localeutil.LoadState {
	store := StoreFromContext(ctx)
	if store == nil {
		return localeutil.NotLoaded
	}
	return store.Status(ctx, pathPart)
}
