// Package htmx holds the small HTMX conventions shared by web views.
package htmx

import (
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
)

// RequestHeaderKey is the HTMX request header used to detect partial updates.
const RequestHeaderKey = "HX-Request"

// IsHTMXRequest reports whether the request was initiated by HTMX.
func IsHTMXRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.EqualFold(r.Header.Get(RequestHeaderKey), "true")
}

// TitleTag formats an escaped `<title>` element.
func TitleTag(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	return "<title>" + html.EscapeString(title) + "</title>"
}

// PollAttributes makes an element replace itself with a fresh render of url
// once delay has passed.
func PollAttributes(url string, delay time.Duration) templ.Attributes {
	if delay <= 0 {
		delay = time.Millisecond
	}
	return templ.Attributes{
		"hx-get":     url,
		"hx-trigger": fmt.Sprintf("load delay:%dms", delay.Milliseconds()),
		"hx-swap":    "outerHTML",
		"hx-target":  "this",
	}
}
