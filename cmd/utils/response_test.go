package utils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func TestWriteData(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteData(rec, 200, map[string]interface{}{"count": 3})

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if !env.Success {
		t.Error("success = false, want true")
	}
	if env.Message != "" {
		t.Errorf("message = %q, want empty", env.Message)
	}
	if env.Data == nil {
		t.Error("data missing")
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, 404, "Booking not found")

	if rec.Code != 404 {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if env.Success {
		t.Error("success = true, want false")
	}
	if env.Message != "Booking not found" {
		t.Errorf("message = %q", env.Message)
	}
	if env.Data != nil {
		t.Errorf("data = %v, want omitted", env.Data)
	}
}

func TestWriteMessageOmitsEmptyData(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteMessage(rec, 201, "Created", nil)

	var raw map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if _, present := raw["data"]; present {
		t.Error("data key present in body, want omitted")
	}
	if raw["message"] != "Created" {
		t.Errorf("message = %v", raw["message"])
	}
}
