package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"smart_temperature/internal/service"
)

func TestAuthHandlers_LoginAndLogout(t *testing.T) {
	auth := &mockAuth{loginToken: "tok123"}
	s := &service.Service{Authorization: auth}
	r := newTestRouter(s)

	// login success
	body := bytes.NewBufferString(`{"password":"admin123"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login status=%d, body=%s", w.Code, w.Body.String())
	}
	var m map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m["token"] != "tok123" || m["success"] != true {
		t.Fatalf("unexpected login response: %v", m)
	}
	if auth.lastLoginPassword != "admin123" {
		t.Fatalf("Login got password %q", auth.lastLoginPassword)
	}

	// login invalid body → 400
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"password":1}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad body, got %d", w.Code)
	}

	// logout is stateless and always succeeds
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("logout status=%d, body=%s", w.Code, w.Body.String())
	}
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m["success"] != true {
		t.Fatalf("unexpected logout response: %v", m)
	}
}

func TestAuthHandlers_LoginWrongPassword(t *testing.T) {
	auth := &mockAuth{loginErr: service.ErrInvalidPassword}
	s := &service.Service{Authorization: auth}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (body=%s)", w.Code, w.Body.String())
	}
	var m map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m["success"] != false || m["message"] != "incorrect password" {
		t.Fatalf("unexpected response: %v", m)
	}
}

func TestAuthHandlers_ChangePassword(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{name: "success", err: nil, wantCode: http.StatusOK, wantMsg: "password changed successfully"},
		{name: "wrong old password", err: service.ErrInvalidPassword, wantCode: http.StatusBadRequest, wantMsg: "old password incorrect"},
		{name: "too short", err: service.ErrPasswordTooShort, wantCode: http.StatusBadRequest, wantMsg: service.ErrPasswordTooShort.Error()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &mockAuth{changeErr: tc.err}
			s := &service.Service{Authorization: auth}
			r := newTestRouter(s)

			body := bytes.NewBufferString(`{"old_password":"old-pass","new_password":"new-pass"}`)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/auth/change-password", body)
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != tc.wantCode {
				t.Fatalf("status: got %d, want %d (body=%s)", w.Code, tc.wantCode, w.Body.String())
			}
			var m map[string]any
			_ = json.Unmarshal(w.Body.Bytes(), &m)
			if m["message"] != tc.wantMsg {
				t.Fatalf("message: got %v, want %q", m["message"], tc.wantMsg)
			}
			if tc.err == nil && auth.lastNewPassword != "new-pass" {
				t.Fatalf("ChangePassword got new password %q", auth.lastNewPassword)
			}
		})
	}
}
