package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/nishirajsingh/AyurSutra/cmd/models"
	"github.com/nishirajsingh/AyurSutra/cmd/utils"
)

func requestWithUser(method, target, body string, user *models.User) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if user != nil {
		req = req.WithContext(context.WithValue(req.Context(), utils.UserKey, user))
	}
	return req
}

// Validation failures must reject the request before any storage access.
func TestCreateBookingValidation(t *testing.T) {
	patient := &models.User{Role: models.RolePatient}
	patient.ID = 1
	practitioner := &models.User{Role: models.RolePractitioner}
	practitioner.ID = 2

	tests := []struct {
		name       string
		user       *models.User
		body       string
		wantStatus int
	}{
		{
			"no authenticated user",
			nil,
			`{"practitioner":2,"therapyType":"Abhyanga","date":"2025-06-02","time":"10:00"}`,
			http.StatusUnauthorized,
		},
		{
			"practitioner cannot book",
			practitioner,
			`{"practitioner":2,"therapyType":"Abhyanga","date":"2025-06-02","time":"10:00"}`,
			http.StatusForbidden,
		},
		{
			"malformed body",
			patient,
			`{not json`,
			http.StatusBadRequest,
		},
		{
			"missing required fields",
			patient,
			`{"practitioner":2}`,
			http.StatusBadRequest,
		},
		{
			"bad date format",
			patient,
			`{"practitioner":2,"therapyType":"Abhyanga","date":"02-06-2025","time":"10:00"}`,
			http.StatusBadRequest,
		},
		{
			"bad time format",
			patient,
			`{"practitioner":2,"therapyType":"Abhyanga","date":"2025-06-02","time":"10am"}`,
			http.StatusBadRequest,
		},
		{
			"notes too long",
			patient,
			`{"practitioner":2,"therapyType":"Abhyanga","date":"2025-06-02","time":"10:00","notes":"` +
				strings.Repeat("x", 501) + `"}`,
			http.StatusBadRequest,
		},
		{
			"negative amount",
			patient,
			`{"practitioner":2,"therapyType":"Abhyanga","date":"2025-06-02","time":"10:00","amount":-500}`,
			http.StatusBadRequest,
		},
		{
			"negative duration",
			patient,
			`{"practitioner":2,"therapyType":"Abhyanga","date":"2025-06-02","time":"10:00","duration":-30}`,
			http.StatusBadRequest,
		},
	}

	h := NewHandler(nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.CreateBooking(rec, requestWithUser("POST", "/bookings", tt.body, tt.user))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var env utils.Envelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("invalid envelope: %v", err)
			}
			if env.Success {
				t.Error("success = true on rejected request")
			}
			if env.Message == "" {
				t.Error("rejection carries no message")
			}
		})
	}
}

func TestUpdateStatusValidation(t *testing.T) {
	patient := &models.User{Role: models.RolePatient}
	patient.ID = 1

	h := NewHandler(nil, nil)

	rec := httptest.NewRecorder()
	req := requestWithUser("PUT", "/bookings/abc/status", `{"status":"confirmed"}`, patient)
	h.UpdateStatus(rec, mux.SetURLVars(req, map[string]string{"id": "abc"}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id: status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	rec = httptest.NewRecorder()
	h.UpdateStatus(rec, requestWithUser("PUT", "/bookings/1/status", `{"status":"confirmed"}`, nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no user: status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestSubmitFeedbackValidation(t *testing.T) {
	patient := &models.User{Role: models.RolePatient}
	patient.ID = 1

	h := NewHandler(nil, nil)

	for _, rating := range []int{0, 6, -1} {
		rec := httptest.NewRecorder()
		body := `{"rating":` + strconv.Itoa(rating) + `}`
		req := requestWithUser("PUT", "/bookings/1/feedback", body, patient)
		h.SubmitFeedback(rec, mux.SetURLVars(req, map[string]string{"id": "1"}))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("rating %d: status = %d, want %d", rating, rec.Code, http.StatusBadRequest)
		}
	}
}
