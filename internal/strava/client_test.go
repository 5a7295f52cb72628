package strava

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

func testTokenSource() oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"})
}

func TestListRoutes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/athletes/42/routes" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); !strings.Contains(got, "test-token") {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("X-RateLimit-Usage", "5,50")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"id": 1, "name": "Coast Loop", "type": 2, "distance": 42195, "elevation_gain": 120},
			{"id": 2, "name": "Gravel Ride", "type": 1, "distance": 60000, "elevation_gain": 800}
		]`)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(testTokenSource(), srv.URL)
	routes, err := c.ListRoutes(context.Background(), 42, 1, 100)
	if err != nil {
		t.Fatalf("ListRoutes: %v", err)
	}
	if len(routes) != 2 {
		t.Fatalf("got %d routes", len(routes))
	}
	if routes[0].Name != "Coast Loop" || !routes[0].IsRun() {
		t.Errorf("route 0 = %+v", routes[0])
	}
	if routes[1].IsRun() {
		t.Error("ride classified as run")
	}

	short, daily := c.RateLimitStatus()
	if short != 95 || daily != 950 {
		t.Errorf("rate limit status = %d, %d", short, daily)
	}
}

func TestGetAllRoutesPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		w.Header().Set("Content-Type", "application/json")
		switch page {
		case "1":
			// A full page forces a second request.
			var items []string
			for i := 0; i < 100; i++ {
				items = append(items, fmt.Sprintf(`{"id": %d, "name": "r%d", "type": 2}`, i+1, i+1))
			}
			fmt.Fprint(w, "["+strings.Join(items, ",")+"]")
		default:
			fmt.Fprint(w, `[{"id": 101, "name": "last", "type": 2}]`)
		}
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(testTokenSource(), srv.URL)
	routes, err := c.GetAllRoutes(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetAllRoutes: %v", err)
	}
	if len(routes) != 101 {
		t.Errorf("got %d routes, want 101", len(routes))
	}
	if routes[100].Name != "last" {
		t.Errorf("final route = %+v", routes[100])
	}
}

func TestExportRouteGPX(t *testing.T) {
	const gpxBody = `<?xml version="1.0"?><gpx version="1.1"><trk><name>Coast Loop</name></trk></gpx>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/routes/7/export_gpx" {
			t.Errorf("path = %q", r.URL.Path)
		}
		fmt.Fprint(w, gpxBody)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(testTokenSource(), srv.URL)
	data, err := c.ExportRouteGPX(context.Background(), 7)
	if err != nil {
		t.Fatalf("ExportRouteGPX: %v", err)
	}
	if string(data) != gpxBody {
		t.Errorf("body = %q", data)
	}
}

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Rate Limit Exceeded"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(testTokenSource(), srv.URL)
	_, err := c.ListRoutes(context.Background(), 42, 1, 100)
	if err == nil {
		t.Fatal("expected error on 429")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error %q does not carry the status code", err)
	}
}
