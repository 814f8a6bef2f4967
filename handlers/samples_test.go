// Copyright (c) 2025 The pq-toolkit Authors.
// Licensed under the MIT License. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pqtoolkit/pq-toolkit-api/models"
	"github.com/pqtoolkit/pq-toolkit-api/testutil"
)

func newSampleHandler(t *testing.T, files map[string]string) *SampleHandler {
	t.Helper()
	h := NewSampleHandler(testutil.SetupTestDB(t), testutil.SetupTestStore(t))
	if len(files) > 0 {
		req := testutil.MultipartRequest("POST", "/api/v1/samples", "files", files, nil)
		w := httptest.NewRecorder()
		h.Upload(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)
	}
	return h
}

func rateSample(h *SampleHandler, filename string, body interface{}) *httptest.ResponseRecorder {
	req := testutil.MakeRequest("POST", "/api/v1/samples/"+filename+"/rate", body, nil)
	req.SetPathValue("filename", filename)
	w := httptest.NewRecorder()
	h.Rate(w, req)
	return w
}

func TestUploadSamples(t *testing.T) {
	h := newSampleHandler(t, nil)

	t.Run("no files", func(t *testing.T) {
		req := testutil.MultipartRequest("POST", "/api/v1/samples", "files", nil, nil)
		w := httptest.NewRecorder()
		h.Upload(w, req)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("not multipart", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/api/v1/samples", `{"files":[]}`, nil)
		w := httptest.NewRecorder()
		h.Upload(w, req)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("several files", func(t *testing.T) {
		req := testutil.MultipartRequest("POST", "/api/v1/samples", "files",
			map[string]string{"a.mp3": "aaa", "b.mp3": "bbb"}, nil)
		w := httptest.NewRecorder()
		h.Upload(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/api/v1/samples", nil)
	w := httptest.NewRecorder()
	h.List(w, req)

	var page []models.SampleRatingSummary
	testutil.AssertJSON(t, w, &page)
	if len(page) != 2 {
		t.Errorf("Expected 2 samples, got %d", len(page))
	}
}

func TestRateSample(t *testing.T) {
	h := newSampleHandler(t, map[string]string{"a.mp3": "aaa", "b.mp3": "bbb"})

	testutil.AssertStatus(t, rateSample(h, "a.mp3", models.RateSampleRequest{Rating: intPtr(2)}), http.StatusOK)
	testutil.AssertStatus(t, rateSample(h, "a.mp3", models.RateSampleRequest{Rating: intPtr(4)}), http.StatusOK)
	testutil.AssertStatus(t, rateSample(h, "missing.mp3", models.RateSampleRequest{Rating: intPtr(4)}), http.StatusNotFound)
	testutil.AssertStatus(t, rateSample(h, "a.mp3", map[string]string{}), http.StatusBadRequest)
	testutil.AssertStatus(t, rateSample(h, "a.mp3", "{bad"), http.StatusBadRequest)

	req := httptest.NewRequest("GET", "/api/v1/samples?first_result=0&max_results=1", nil)
	w := httptest.NewRecorder()
	h.List(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var page []models.SampleRatingSummary
	testutil.AssertJSON(t, w, &page)
	if len(page) != 1 {
		t.Fatalf("Expected 1 sample, got %d", len(page))
	}
	if page[0].Filename != "a.mp3" || page[0].AverageRating != 3 {
		t.Errorf("Expected a.mp3 with average 3, got %+v", page[0])
	}
}

func TestListSamples_BadPaging(t *testing.T) {
	h := newSampleHandler(t, nil)

	for _, query := range []string{"first_result=x", "max_results=-1"} {
		req := httptest.NewRequest("GET", "/api/v1/samples?"+query, nil)
		w := httptest.NewRecorder()
		h.List(w, req)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	}
}

func TestGetSample(t *testing.T) {
	h := newSampleHandler(t, map[string]string{"a.mp3": "audio-bytes"})

	req := httptest.NewRequest("GET", "/api/v1/samples/a.mp3", nil)
	req.SetPathValue("filename", "a.mp3")
	w := httptest.NewRecorder()
	h.Get(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); ct != "audio/mpeg" {
		t.Errorf("Expected Content-Type audio/mpeg, got %s", ct)
	}
	if w.Body.String() != "audio-bytes" {
		t.Errorf("Expected sample body, got %q", w.Body.String())
	}

	req = httptest.NewRequest("GET", "/api/v1/samples/missing.mp3", nil)
	req.SetPathValue("filename", "missing.mp3")
	w = httptest.NewRecorder()
	h.Get(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestSearchAndDeleteSample(t *testing.T) {
	h := newSampleHandler(t, map[string]string{"Piano.mp3": "p", "violin.mp3": "v"})

	req := httptest.NewRequest("GET", "/api/v1/samples/search?title=piano", nil)
	w := httptest.NewRecorder()
	h.Search(w, req)

	var matches []string
	testutil.AssertJSON(t, w, &matches)
	if len(matches) != 1 || matches[0] != "Piano.mp3" {
		t.Errorf("Expected [Piano.mp3], got %v", matches)
	}

	del := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("DELETE", "/api/v1/samples/Piano.mp3", nil)
		req.SetPathValue("filename", "Piano.mp3")
		w := httptest.NewRecorder()
		h.Delete(w, req)
		return w
	}
	testutil.AssertStatus(t, del(), http.StatusOK)
	testutil.AssertStatus(t, del(), http.StatusNotFound)
}

func TestExperimentSampleHandlers(t *testing.T) {
	h := newSampleHandler(t, nil)

	req := testutil.MultipartRequest("POST", "/api/v1/experiments/exp1/samples", "file",
		map[string]string{"ref.mp3": "reference"}, nil)
	req.SetPathValue("name", "exp1")
	w := httptest.NewRecorder()
	h.UploadExperiment(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	req = httptest.NewRequest("GET", "/api/v1/experiments/exp1/samples", nil)
	req.SetPathValue("name", "exp1")
	w = httptest.NewRecorder()
	h.ListExperiment(w, req)
	var names []string
	testutil.AssertJSON(t, w, &names)
	if len(names) != 1 || names[0] != "ref.mp3" {
		t.Errorf("Expected [ref.mp3], got %v", names)
	}

	req = httptest.NewRequest("GET", "/api/v1/experiments/exp1/samples/ref.mp3", nil)
	req.SetPathValue("name", "exp1")
	req.SetPathValue("filename", "ref.mp3")
	w = httptest.NewRecorder()
	h.GetExperiment(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)
	if w.Body.String() != "reference" {
		t.Errorf("Expected sample body, got %q", w.Body.String())
	}

	req = httptest.NewRequest("DELETE", "/api/v1/experiments/exp1/samples/ref.mp3", nil)
	req.SetPathValue("name", "exp1")
	req.SetPathValue("filename", "ref.mp3")
	w = httptest.NewRecorder()
	h.DeleteExperiment(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	// Global listing never saw the experiment sample
	req = httptest.NewRequest("GET", "/api/v1/samples", nil)
	w = httptest.NewRecorder()
	h.List(w, req)
	var page []models.SampleRatingSummary
	testutil.AssertJSON(t, w, &page)
	if len(page) != 0 {
		t.Errorf("Expected empty global listing, got %v", page)
	}
}

func intPtr(v int) *int {
	return &v
}
