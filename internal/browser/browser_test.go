package browser

import (
	"errors"
	"strings"
	"testing"
)

const trendsTableHTML = `<html><body>
<table class="trends-table">
<tbody>
<tr><td><a href="/t/1">  Naira  </a></td><td>120K</td></tr>
<tr><td><a href="/t/2">Lagos</a></td><td>98K</td></tr>
<tr><td><a href="/t/3">   </a></td><td>90K</td></tr>
<tr><td><a href="/t/4">Peter Obi</a></td><td>77K</td></tr>
<tr><td><a href="/t/5">Davido</a></td><td>60K</td></tr>
<tr><td><a href="/t/6">BBNaija</a></td><td>55K</td></tr>
<tr><td><a href="/t/7">Abuja</a></td><td>41K</td></tr>
</tbody>
</table>
</body></html>`

func TestParseItems_TrimsAndDropsEmpty(t *testing.T) {
	items, err := parseItems(trendsTableHTML, "table.trends-table tbody tr td:first-child a", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"Naira", "Lagos", "Peter Obi", "Davido", "BBNaija", "Abuja"}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %d: %v", len(want), len(items), items)
	}
	for i, w := range want {
		if items[i] != w {
			t.Errorf("item %d: expected %q, got %q", i, w, items[i])
		}
	}
}

func TestParseItems_TruncatesToMax(t *testing.T) {
	items, err := parseItems(trendsTableHTML, "table.trends-table tbody tr td:first-child a", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(items) != 5 {
		t.Fatalf("expected exactly 5 items, got %d: %v", len(items), items)
	}
	if items[0] != "Naira" || items[4] != "BBNaija" {
		t.Errorf("expected rank order preserved, got %v", items)
	}
}

func TestParseItems_OrderedList(t *testing.T) {
	html := `<html><body>
	<ol class="trend-card__list">
	<li><a href="#">First</a></li>
	<li><a href="#">Second</a></li>
	</ol>
	</body></html>`

	items, err := parseItems(html, "ol.trend-card__list li a", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 || items[0] != "First" || items[1] != "Second" {
		t.Errorf("expected [First Second], got %v", items)
	}
}

func TestParseItems_NoMatches(t *testing.T) {
	items, err := parseItems("<html><body><p>nothing here</p></body></html>", "table.trends-table tr a", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no items, got %v", items)
	}
}

func TestLoadError(t *testing.T) {
	cause := errors.New("context deadline exceeded")
	err := &LoadError{URL: "https://getdaytrends.com/nigeria/", Cause: cause}

	if !strings.Contains(err.Error(), "getdaytrends.com") {
		t.Errorf("expected URL in message, got %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected LoadError to unwrap to its cause")
	}
}

func TestHostOf(t *testing.T) {
	if got := hostOf("https://trends24.in/nigeria/"); got != "trends24.in" {
		t.Errorf("expected trends24.in, got %q", got)
	}
	if got := hostOf("://bad"); got != "" {
		t.Errorf("expected empty host for invalid URL, got %q", got)
	}
}
