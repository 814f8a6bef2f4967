// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pqtoolkit/pq-toolkit-api/auth"
	"github.com/pqtoolkit/pq-toolkit-api/blobstore"
	"github.com/pqtoolkit/pq-toolkit-api/cliparse"
	"github.com/pqtoolkit/pq-toolkit-api/db"
)

var dbCounter atomic.Int64

// SetupTestDB creates a fresh in-memory SQLite database with the full schema.
// Every call gets its own database; it is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	name := fmt.Sprintf("file:pqtest%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", dbCounter.Add(1))
	conn, err := db.Open(db.TypeSQLite, name)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SetupTestStore creates a blob store rooted in a temporary directory.
func SetupTestStore(t *testing.T) *blobstore.FSStore {
	t.Helper()
	store, err := blobstore.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create blob store: %v", err)
	}
	return store
}

// GetTestConfig returns a standard test configuration
func GetTestConfig(t *testing.T) cliparse.Config {
	t.Helper()
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  "file::memory:",
		DatabaseType: db.TypeSQLite,
		SamplesDir:   t.TempDir(),
		JWTSecret:    "test-jwt-secret",
		TokenTTL:     time.Hour,
	}
}

// CreateTestAdmin inserts an admin with the given password and returns a
// bearer token for it.
func CreateTestAdmin(t *testing.T, conn *sql.DB, cfg cliparse.Config, username, password string) string {
	t.Helper()

	hashed, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	id, _ := auth.GenerateID(16)
	_, err = conn.Exec(`
		INSERT INTO admins (id, username, hashed_password)
		VALUES ($1, $2, $3)
	`, id, username, hashed)
	if err != nil {
		t.Fatalf("Failed to create test admin: %v", err)
	}

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	token, _, err := issuer.Issue(username)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return token
}

// ABExperimentConfig returns an upload with one AB test per test number.
func ABExperimentConfig(numbers ...int) []byte {
	tests := make([]map[string]any, 0, len(numbers))
	for _, n := range numbers {
		tests = append(tests, map[string]any{
			"testNumber": n,
			"type":       "AB",
			"samples": []map[string]string{
				{"sampleId": "s1", "assetPath": "a.mp3"},
				{"sampleId": "s2", "assetPath": "b.mp3"},
			},
			"questions": []map[string]string{
				{"questionId": "q1", "text": "Which one sounds better?"},
			},
		})
	}
	data, _ := json.Marshal(map[string]any{
		"name":        "Test Experiment",
		"description": "A test experiment",
		"endText":     "Thank you",
		"tests":       tests,
	})
	return data
}

// MixedExperimentConfig returns an upload with one test of each type:
// AB as 1, ABX as 2, MUSHRA as 3 and APE as 4.
func MixedExperimentConfig() []byte {
	samples := []map[string]string{
		{"sampleId": "s1", "assetPath": "a.mp3"},
		{"sampleId": "s2", "assetPath": "b.mp3"},
	}
	data, _ := json.Marshal(map[string]any{
		"name":        "Mixed Experiment",
		"description": "One test of every type",
		"endText":     "Thank you",
		"tests": []map[string]any{
			{"testNumber": 1, "type": "AB", "samples": samples},
			{
				"testNumber": 2,
				"type":       "ABX",
				"xSampleId":  "s1",
				"samples":    samples,
				"questions":  []map[string]string{{"questionId": "q1", "text": "Which one is X?"}},
			},
			{
				"testNumber": 3,
				"type":       "MUSHRA",
				"reference":  map[string]string{"sampleId": "ref", "assetPath": "ref.mp3"},
				"anchors":    []map[string]string{{"sampleId": "a1", "assetPath": "anchor.mp3"}},
				"samples":    samples,
				"question":   "Rate the quality",
			},
			{
				"testNumber": 4,
				"type":       "APE",
				"axis":       []map[string]string{{"questionId": "x", "text": "Brightness"}},
				"samples":    samples,
			},
		},
	})
	return data
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		var jsonBody []byte
		switch b := body.(type) {
		case []byte:
			jsonBody = b
		case string:
			jsonBody = []byte(b)
		default:
			jsonBody, _ = json.Marshal(body)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// MultipartRequest builds a multipart upload with one file part per entry
// of files, all under the given form field.
func MultipartRequest(method, path, field string, files map[string]string, headers map[string]string) *http.Request {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range files {
		fw, _ := mw.CreateFormFile(field, name)
		fw.Write([]byte(content))
	}
	mw.Close()

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

// BearerHeader returns the Authorization header map for token.
func BearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
