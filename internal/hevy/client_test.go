package hevy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/claude/hevyplan/internal/models"
)

// newTestServer creates an httptest server that routes requests to handler
// functions keyed by path.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// pagedTemplates serves pageCount pages of two templates each, failing with
// failStatus on failPage (0 disables failure).
func pagedTemplates(t *testing.T, pageCount, failPage, failStatus int, seen *[]int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("api-key"); got != "secret" {
			t.Errorf("api-key header = %q, want secret", got)
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		*seen = append(*seen, page)
		if page == failPage {
			http.Error(w, `{"error":"boom"}`, failStatus)
			return
		}
		writeTestJSON(t, w, templatesPage{
			Page:      page,
			PageCount: pageCount,
			ExerciseTemplates: []models.CatalogEntry{
				{ID: fmt.Sprintf("p%d-a", page), Title: fmt.Sprintf("Template %d A", page)},
				{ID: fmt.Sprintf("p%d-b", page), Title: fmt.Sprintf("Template %d B", page)},
			},
		})
	}
}

// TestFetchCatalogAllPages verifies 1-indexed pagination runs until page_count
// and keeps server order.
func TestFetchCatalogAllPages(t *testing.T) {
	var seen []int
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/exercise_templates": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("pageSize"); got != "100" {
				t.Errorf("pageSize = %q, want 100", got)
			}
			pagedTemplates(t, 3, 0, 0, &seen)(w, r)
		},
	})

	c := NewClient(ts.URL, "secret", 5*time.Second)
	entries, err := c.FetchCatalog(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 6 {
		t.Fatalf("entries = %d, want 6", len(entries))
	}
	if entries[0].ID != "p1-a" || entries[5].ID != "p3-b" {
		t.Errorf("order = %s..%s, want p1-a..p3-b", entries[0].ID, entries[5].ID)
	}
	if fmt.Sprint(seen) != "[1 2 3]" {
		t.Errorf("pages requested = %v, want [1 2 3]", seen)
	}
}

// TestFetchCatalogSinglePage verifies a page_count of 1 stops after the first request.
func TestFetchCatalogSinglePage(t *testing.T) {
	var seen []int
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/exercise_templates": pagedTemplates(t, 1, 0, 0, &seen),
	})

	entries, err := NewClient(ts.URL, "secret", time.Second).FetchCatalog(context.Background(), 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || len(seen) != 1 {
		t.Errorf("entries = %d, pages = %v", len(entries), seen)
	}
}

// TestFetchCatalogPartial verifies a failed page stops the loop and returns
// the pages already accumulated alongside the error.
func TestFetchCatalogPartial(t *testing.T) {
	var seen []int
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/exercise_templates": pagedTemplates(t, 4, 3, http.StatusInternalServerError, &seen),
	})

	entries, err := NewClient(ts.URL, "secret", time.Second).FetchCatalog(context.Background(), 100)
	if err == nil {
		t.Fatal("expected page error")
	}
	if len(entries) != 4 {
		t.Errorf("entries = %d, want 4 (pages 1-2)", len(entries))
	}
	if fmt.Sprint(seen) != "[1 2 3]" {
		t.Errorf("pages requested = %v, want [1 2 3]", seen)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("err = %v, want APIError 500", err)
	}
}

// TestFetchCatalogUnauthorized verifies a rejected credential yields an empty
// catalog and an APIError carrying the body.
func TestFetchCatalogUnauthorized(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/exercise_templates": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "invalid api key", http.StatusUnauthorized)
		},
	})

	entries, err := NewClient(ts.URL, "wrong", time.Second).FetchCatalog(context.Background(), 100)
	if len(entries) != 0 {
		t.Errorf("entries = %d, want 0", len(entries))
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", apiErr.StatusCode)
	}
}

// TestCreateRoutine verifies the request envelope and that the raw response is returned.
func TestCreateRoutine(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/routines": func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("method = %s, want POST", r.Method)
			}
			if got := r.Header.Get("api-key"); got != "secret" {
				t.Errorf("api-key = %q", got)
			}
			if got := r.Header.Get("Content-Type"); got != "application/json" {
				t.Errorf("content-type = %q", got)
			}
			var req models.CreateRoutineRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if req.Routine.Title != "Chest - Monday" {
				t.Errorf("title = %q", req.Routine.Title)
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"routine":[{"id":"r-1","title":"Chest - Monday"}]}`))
		},
	})

	resp, err := NewClient(ts.URL, "secret", time.Second).CreateRoutine(context.Background(), models.RoutinePayload{Title: "Chest - Monday"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp) != `{"routine":[{"id":"r-1","title":"Chest - Monday"}]}` {
		t.Errorf("response = %s", resp)
	}
}

// TestCreateRoutineRejected verifies a non-2xx response surfaces the raw server body.
func TestCreateRoutineRejected(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/routines": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"exercise_template_id invalid"}`))
		},
	})

	_, err := NewClient(ts.URL, "secret", time.Second).CreateRoutine(context.Background(), models.RoutinePayload{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if apiErr.Body != `{"error":"exercise_template_id invalid"}` {
		t.Errorf("body = %q", apiErr.Body)
	}
	if apiErr.Op != "POST /routines" {
		t.Errorf("op = %q", apiErr.Op)
	}
}

// TestCreateRoutineTimeout verifies a slow server is reported as ErrTimeout
// rather than hanging or surfacing a generic transport error.
func TestCreateRoutineTimeout(t *testing.T) {
	release := make(chan struct{})
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/routines": func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		},
	})
	defer close(release)

	_, err := NewClient(ts.URL, "secret", 50*time.Millisecond).CreateRoutine(context.Background(), models.RoutinePayload{})
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("err = %v, want ErrTimeout", err)
	}
}

// TestFetchCatalogContextDeadline verifies a context deadline maps to ErrTimeout.
func TestFetchCatalogContextDeadline(t *testing.T) {
	release := make(chan struct{})
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/exercise_templates": func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		},
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	entries, err := NewClient(ts.URL, "secret", 0).FetchCatalog(ctx, 100)
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("err = %v, want ErrTimeout", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %d, want 0", len(entries))
	}
}
