package testutil

import (
	"errors"
	"net/http"
	"testing"
)

// The failure paths of these helpers call t.Errorf/t.Fatalf, which cannot be
// observed without a mock testing.T; they are exercised indirectly by every
// test that uses them. Only the success paths are asserted here.

func TestAssertStatusCode(t *testing.T) {
	t.Parallel()

	AssertStatusCode(t, http.StatusOK, http.StatusOK)
	AssertStatusCode(t, http.StatusNotFound, http.StatusNotFound)
}

func TestAssertNoError(t *testing.T) {
	t.Parallel()

	AssertNoError(t, nil)
}

func TestAssertError(t *testing.T) {
	t.Parallel()

	AssertError(t, errors.New("something wrong"))
}

func TestNewTestRequest(t *testing.T) {
	t.Parallel()

	req := NewTestRequest(http.MethodPost, "/api/test")
	if req.Method != http.MethodPost {
		t.Errorf("method = %s, want POST", req.Method)
	}
	if req.URL.Path != "/api/test" {
		t.Errorf("path = %s, want /api/test", req.URL.Path)
	}
}

func TestNewTestRecorder(t *testing.T) {
	t.Parallel()

	rec := NewTestRecorder()
	if rec == nil {
		t.Fatal("recorder is nil")
	}
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	rec := NewTestRecorder()
	rec.Body.WriteString(`{"count": 3}`)

	var payload struct {
		Count int `json:"count"`
	}
	DecodeJSON(t, rec, &payload)
	if payload.Count != 3 {
		t.Errorf("count = %d, want 3", payload.Count)
	}
}
