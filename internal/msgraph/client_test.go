package msgraph

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testClient(srv *httptest.Server) *Client {
	return &Client{
		httpClient: srv.Client(),
		baseURL:    srv.URL,
		logger:     slog.New(slog.DiscardHandler),
	}
}

func TestGetCalendarViewPaging(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Prefer"); got != `outlook.timezone="Europe/Berlin"` {
			t.Errorf("Prefer header = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `{"value":[{"id":"b","subject":"Second"}]}`)
			return
		}
		if got := r.URL.Query().Get("startDateTime"); got != "2026-02-27T00:00:00Z" {
			t.Errorf("startDateTime = %q", got)
		}
		if !strings.Contains(r.URL.Query().Get("$select"), "bodyPreview") {
			t.Errorf("$select = %q", r.URL.Query().Get("$select"))
		}
		fmt.Fprintf(w, `{"value":[{"id":"a","subject":"First"}],"@odata.nextLink":"%s/me/calendarView?page=2"}`, srv.URL)
	}))
	defer srv.Close()

	from := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)
	events, err := testClient(srv).GetCalendarView(t.Context(), from, from.Add(24*time.Hour), "Europe/Berlin")
	if err != nil {
		t.Fatalf("GetCalendarView: %v", err)
	}
	if len(events) != 2 || events[0].ID != "a" || events[1].ID != "b" {
		t.Errorf("events = %+v, want a and b", events)
	}
}

func TestGetCalendarViewGraphError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":"ErrorAccessDenied","message":"Access is denied."}}`)
	}))
	defer srv.Close()

	_, err := testClient(srv).GetCalendarView(t.Context(), time.Now(), time.Now(), "")
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
	if !strings.Contains(err.Error(), "403 (ErrorAccessDenied): Access is denied.") {
		t.Errorf("err = %v", err)
	}
}
