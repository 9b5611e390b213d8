package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"openwonder/api/internal/models"
	"openwonder/api/internal/repository"
)

type fakeSessionStore struct {
	sessions map[string]models.Session
}

func (f *fakeSessionStore) GetByToken(_ context.Context, token string) (models.Session, error) {
	if s, ok := f.sessions[token]; ok {
		return s, nil
	}
	return models.Session{}, repository.ErrSessionNotFound
}

type fakeUserStore struct {
	users map[string]models.User
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return models.User{}, repository.ErrUserNotFound
}

func authTestRouter(t *testing.T) (*gin.Engine, *bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := &fakeSessionStore{sessions: map[string]models.Session{
		"good-token": {ID: "s1", UserID: "u1", Token: "good-token"},
		"banned-tok": {ID: "s2", UserID: "u2", Token: "banned-tok"},
	}}
	users := &fakeUserStore{users: map[string]models.User{
		"u1": {ID: "u1", Username: "alice", Status: models.UserStatusActive},
		"u2": {ID: "u2", Username: "mallory", Status: models.UserStatusBanned},
	}}

	reached := false
	router := gin.New()
	router.GET("/protected", Auth(sessions, users), func(c *gin.Context) {
		reached = true
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"user_id": user.ID})
	})
	return router, &reached
}

func TestAuthGate(t *testing.T) {
	tests := []struct {
		name        string
		header      string
		wantStatus  int
		wantErrorID float64
		wantReached bool
	}{
		{"no header", "", http.StatusUnauthorized, 1, false},
		{"not bearer", "Basic abc123", http.StatusUnauthorized, 1, false},
		{"bare token without scheme", "good-token", http.StatusUnauthorized, 1, false},
		{"unknown token", "Bearer abc123", http.StatusUnauthorized, 2, false},
		{"case-sensitive token match", "Bearer GOOD-TOKEN", http.StatusUnauthorized, 2, false},
		{"banned account", "Bearer banned-tok", http.StatusForbidden, 7, false},
		{"valid session", "Bearer good-token", http.StatusOK, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, reached := authTestRouter(t)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if *reached != tt.wantReached {
				t.Errorf("handler reached = %v, want %v", *reached, tt.wantReached)
			}

			if tt.wantErrorID > 0 {
				var body map[string]any
				if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
					t.Fatalf("unmarshal body: %v", err)
				}
				errs, ok := body["errors"].(map[string]any)
				if !ok {
					t.Fatalf("no errors object in %s", rec.Body.String())
				}
				if errs["error_id"] != tt.wantErrorID {
					t.Errorf("error_id = %v, want %v", errs["error_id"], tt.wantErrorID)
				}
			}
		})
	}
}
