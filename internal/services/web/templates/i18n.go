package templates

import (
	"context"
	"fmt"

	"github.com/louisbranch/localegate/internal/platform/i18n/intlstate"
	"golang.org/x/text/message"
)

// Localizer provides translated strings for web templ components.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// T returns a translated string or a key-derived fallback.
func T(loc Localizer, key message.Reference, args ...any) string {
	if loc != nil {
		return loc.Sprintf(key, args...)
	}
	if keyString, ok := key.(string); ok {
		if len(args) > 0 {
			return fmt.Sprintf(keyString, args...)
		}
		return keyString
	}
	return ""
}

// LocalizerFromContext returns a printer over the messages loaded for the
// request locale, or nil when the request carries no status store.
func LocalizerFromContext(ctx context.Context) Localizer {
	store := intlstate.StoreFromContext(ctx)
	if store == nil {
		return nil
	}
	return store.Printer(ctx)
}
