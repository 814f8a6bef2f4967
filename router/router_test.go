// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pqtoolkit/pq-toolkit-api/testutil"
)

func newTestRouter(t *testing.T) *http.ServeMux {
	t.Helper()
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig(t)
	return NewRouter(db, cfg, testutil.SetupTestStore(t))
}

func TestHealthEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "pq-toolkit API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	mux := newTestRouter(t)

	// 400, 401 and 404 are all valid handler responses here
	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/auth/login"},
		{"GET", "/api/v1/experiments"},
		{"POST", "/api/v1/experiments"},
		{"DELETE", "/api/v1/experiments"},
		{"GET", "/api/v1/experiments/showcase"},
		{"GET", "/api/v1/experiments/exp1"},
		{"POST", "/api/v1/experiments/exp1"},
		{"GET", "/api/v1/experiments/exp1/results"},
		{"POST", "/api/v1/experiments/exp1/results"},
		{"GET", "/api/v1/experiments/exp1/results/token"},
		{"GET", "/api/v1/experiments/exp1/samples"},
		{"POST", "/api/v1/experiments/exp1/samples"},
		{"GET", "/api/v1/experiments/exp1/samples/a.mp3"},
		{"DELETE", "/api/v1/experiments/exp1/samples/a.mp3"},
		{"GET", "/api/v1/samples"},
		{"POST", "/api/v1/samples"},
		{"GET", "/api/v1/samples/search"},
		{"GET", "/api/v1/samples/a.mp3"},
		{"DELETE", "/api/v1/samples/a.mp3"},
		{"POST", "/api/v1/samples/a.mp3/rate"},
		{"GET", "/api/v1/tests/t1"},
		{"GET", "/api/v1/tests/t1/results"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	mux := newTestRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/experiments"},
		{"DELETE", "/api/v1/experiments"},
		{"POST", "/api/v1/experiments/exp1"},
		{"POST", "/api/v1/experiments/exp1/samples"},
		{"DELETE", "/api/v1/experiments/exp1/samples/a.mp3"},
		{"POST", "/api/v1/samples"},
		{"DELETE", "/api/v1/samples/a.mp3"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("Expected 401 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestSpecificMethodRouting(t *testing.T) {
	mux := newTestRouter(t)

	testCases := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"POST to health endpoint", "POST", "/health", http.StatusMethodNotAllowed},
		{"PUT to experiments", "PUT", "/api/v1/experiments", http.StatusMethodNotAllowed},
		{"DELETE a test", "DELETE", "/api/v1/tests/t1", http.StatusMethodNotAllowed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != tc.expectedStatus {
				t.Errorf("Expected %d for %s %s, got %d", tc.expectedStatus, tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestShowcaseIsNotAnExperimentName(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("GET", "/api/v1/experiments/showcase", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	// An empty showcase is 200 with {}, a lookup of "showcase" would be 404
	testutil.AssertStatus(t, w, http.StatusOK)
}
