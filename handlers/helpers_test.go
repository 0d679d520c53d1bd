package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/smashpoint/badminton-league/services"
)

func TestReadJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid body", `{"name":"Ana"}`, ""},
		{"empty body", ``, "body must not be empty"},
		{"malformed json", `{"name":`, "badly-formed JSON"},
		{"unknown field", `{"nickname":"Ana"}`, "unknown key"},
		{"wrong type", `{"name":42}`, "incorrect JSON type"},
		{"trailing garbage", `{"name":"Ana"}{"name":"Ben"}`, "single JSON value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			var dst payload
			err := readJSON(w, r, &dst)

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("readJSON() unexpected error: %v", err)
				}
				if dst.Name != "Ana" {
					t.Errorf("decoded name = %q, want %q", dst.Name, "Ana")
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("readJSON() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	err := writeJSON(w, http.StatusCreated, jsonResponse{"greeting": "hello"}, http.Header{
		"X-Custom": []string{"yes"},
	})
	if err != nil {
		t.Fatalf("writeJSON() error: %v", err)
	}

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	if got := w.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}
	if got := w.Header().Get("X-Custom"); got != "yes" {
		t.Errorf("X-Custom = %q, want yes", got)
	}

	var decoded map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if decoded["greeting"] != "hello" {
		t.Errorf("body = %v, want greeting hello", decoded)
	}
}

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", services.ErrMatchNotFound, http.StatusNotFound},
		{"email taken", services.ErrEmailTaken, http.StatusConflict},
		{"team full", services.ErrTeamFull, http.StatusConflict},
		{"match finished", services.ErrMatchFinished, http.StatusBadRequest},
		{"all sets complete", services.ErrAllSetsComplete, http.StatusBadRequest},
		{"wrong set", services.ErrWrongSet, http.StatusBadRequest},
		{"set already complete", services.ErrSetAlreadyComplete, http.StatusBadRequest},
		{"illegal status change", services.ErrIllegalStatusChange, http.StatusBadRequest},
		{"invalid score", services.ErrInvalidScore, http.StatusBadRequest},
		{"invalid set number", services.ErrInvalidSetNumber, http.StatusBadRequest},
		{"password too short", services.ErrPasswordTooShort, http.StatusBadRequest},
		{"bad credentials", services.ErrInvalidCredentials, http.StatusUnauthorized},
		{"not a member", services.ErrNotTeamMember, http.StatusForbidden},
		{"admin only", services.ErrAdminOnly, http.StatusForbidden},
		{"avatar type", services.ErrUnsupportedAvatarType, http.StatusUnsupportedMediaType},
		{"unexpected error", http.ErrBodyNotAllowed, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)

			mapServiceErrorToHTTP(w, r, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var decoded map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
				t.Fatalf("error body is not valid JSON: %v", err)
			}
			if _, ok := decoded["error"]; !ok {
				t.Error("error body missing the error envelope")
			}
		})
	}
}
