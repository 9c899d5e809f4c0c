package images

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestResolver(t *testing.T, baseURL string) *Resolver {
	t.Helper()
	r, err := NewResolver(Config{
		APIKey:         "test-key",
		SearchEngineID: "test-cx",
		BaseURL:        baseURL,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return r
}

func TestResolve_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("q") != "Naira Nigeria news" {
			t.Errorf("expected regional query, got %q", q.Get("q"))
		}
		if q.Get("num") != "1" || q.Get("safe") != "medium" || q.Get("searchType") != "image" || q.Get("imgSize") != "medium" {
			t.Errorf("unexpected search params: %v", q)
		}
		if q.Get("key") != "test-key" || q.Get("cx") != "test-cx" {
			t.Errorf("expected credentials in query, got key=%q cx=%q", q.Get("key"), q.Get("cx"))
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items":[{"link":"https://img.example.com/naira.jpg"}]}`)
	}))
	defer ts.Close()

	r := newTestResolver(t, ts.URL)
	got := r.Resolve(context.Background(), "Naira")
	if got != "https://img.example.com/naira.jpg" {
		t.Errorf("expected first result link, got %q", got)
	}
}

func TestResolve_HTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	r := newTestResolver(t, ts.URL)
	if got := r.Resolve(context.Background(), "Naira"); got != DefaultPlaceholder {
		t.Errorf("expected placeholder on HTTP 500, got %q", got)
	}
}

func TestResolve_EmptyItems(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[]}`)
	}))
	defer ts.Close()

	r := newTestResolver(t, ts.URL)
	if got := r.Resolve(context.Background(), "Naira"); got != DefaultPlaceholder {
		t.Errorf("expected placeholder on empty items, got %q", got)
	}
}

func TestResolve_MalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": not json`)
	}))
	defer ts.Close()

	r := newTestResolver(t, ts.URL)
	if got := r.Resolve(context.Background(), "Naira"); got != DefaultPlaceholder {
		t.Errorf("expected placeholder on malformed body, got %q", got)
	}
}

func TestResolve_NetworkFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // closed before use

	r := newTestResolver(t, ts.URL)
	if got := r.Resolve(context.Background(), "Naira"); got != DefaultPlaceholder {
		t.Errorf("expected placeholder on connection failure, got %q", got)
	}
}

func TestResolve_NeverEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[{"link":""}]}`)
	}))
	defer ts.Close()

	r := newTestResolver(t, ts.URL)
	got := r.Resolve(context.Background(), "Naira")
	if got == "" {
		t.Fatal("Resolve must never return an empty string")
	}
	if got != DefaultPlaceholder {
		t.Errorf("expected placeholder for blank link, got %q", got)
	}
}
