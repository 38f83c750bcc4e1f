package htmx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIsHTMXRequest(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if IsHTMXRequest(req) {
		t.Fatal("plain request reported as HTMX")
	}
	req.Header.Set(RequestHeaderKey, "TRUE")
	if !IsHTMXRequest(req) {
		t.Fatal("HTMX request not detected")
	}
	if IsHTMXRequest(nil) {
		t.Fatal("nil request reported as HTMX")
	}
}

func TestTitleTag(t *testing.T) {
	t.Parallel()

	if got := TitleTag("  "); got != "" {
		t.Fatalf("TitleTag(blank) = %q", got)
	}
	if got := TitleTag("Inbox & more"); got != "<title>Inbox &amp; more</title>" {
		t.Fatalf("TitleTag() = %q", got)
	}
}

func TestPollAttributes(t *testing.T) {
	t.Parallel()

	attrs := PollAttributes("/emails?lang=pt-BR", 250*time.Millisecond)
	if attrs["hx-get"] != "/emails?lang=pt-BR" {
		t.Fatalf("hx-get = %v", attrs["hx-get"])
	}
	if attrs["hx-trigger"] != "load delay:250ms" {
		t.Fatalf("hx-trigger = %v", attrs["hx-trigger"])
	}
	if attrs["hx-swap"] != "outerHTML" {
		t.Fatalf("hx-swap = %v", attrs["hx-swap"])
	}
}
