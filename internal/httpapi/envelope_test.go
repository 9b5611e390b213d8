package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestEnvelopeShapes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("ok", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)

		OK(c, gin.H{"message": "done"})

		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		if body["api_status"] != float64(200) {
			t.Errorf("api_status = %v", body["api_status"])
		}
		if body["message"] != "done" {
			t.Errorf("payload lost: %v", body)
		}
	})

	t.Run("fail", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)

		Fail(c, http.StatusUnauthorized, ErrorInvalidSession, "the session id is wrong")

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d", rec.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		errs, ok := body["errors"].(map[string]any)
		if !ok {
			t.Fatalf("no errors object: %s", rec.Body.String())
		}
		if errs["error_id"] != float64(ErrorInvalidSession) {
			t.Errorf("error_id = %v", errs["error_id"])
		}
		if errs["error_text"] != "the session id is wrong" {
			t.Errorf("error_text = %v", errs["error_text"])
		}
	})

	t.Run("denied is 403", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)

		Denied(c)

		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})
}
