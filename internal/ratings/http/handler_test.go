package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudnative-denmark/conference-companion/internal/ratings/repository"
	"github.com/cloudnative-denmark/conference-companion/internal/ratings/service"
)

type noSpeakers struct{}

func (noSpeakers) SpeakerSessionIDs(string) []string { return nil }

// fakeAuth trusts the X-Test-User and X-Test-Admin headers.
func fakeAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid := c.GetHeader("X-Test-User"); uid != "" {
			c.Set("firebase_uid", uid)
		}
		c.Set("is_admin", c.GetHeader("X-Test-Admin") == "true")
		c.Next()
	}
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	ratings := service.NewRatingService(repository.NewMemoryRepository(nil))
	feedback := service.NewFeedbackService(ratings, noSpeakers{})
	viewer := func(ctx context.Context, uid string, isAdmin bool) (service.Viewer, error) {
		return service.Viewer{UserID: uid, IsAdmin: isAdmin}, nil
	}

	r := gin.New()
	api := r.Group("/api/v1", fakeAuth())
	New(ratings, feedback, viewer).Register(api, api)
	return r
}

func request(r *gin.Engine, method, path, user string, admin bool, body any) (*httptest.ResponseRecorder, map[string]any) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	if admin {
		req.Header.Set("X-Test-Admin", "true")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func createRating(t *testing.T, r *gin.Engine, user string) string {
	t.Helper()
	w, body := request(r, http.MethodPost, "/api/v1/ratings", user, false,
		map[string]any{"session_id": "s1", "stars": 4, "comment": "Good"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return body["rating"].(map[string]any)["id"].(string)
}

func TestCreateRating(t *testing.T) {
	r := setupRouter()

	w, _ := request(r, http.MethodPost, "/api/v1/ratings", "", false, map[string]any{"session_id": "s1", "stars": 4})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	createRating(t, r, "u1")

	w, body := request(r, http.MethodPost, "/api/v1/ratings", "u1", false, map[string]any{"session_id": "s1", "stars": 2})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "you have already rated this session", body["error"])

	w, body = request(r, http.MethodPost, "/api/v1/ratings", "u2", false, map[string]any{"session_id": "s1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "stars is required", body["error"])
}

func TestUpdateAndDeleteRating(t *testing.T) {
	r := setupRouter()
	id := createRating(t, r, "u1")

	w, _ := request(r, http.MethodPatch, "/api/v1/ratings/"+id, "u2", false, map[string]any{"stars": 1})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body := request(r, http.MethodPatch, "/api/v1/ratings/"+id, "u1", false, map[string]any{"comment": "Great"})
	require.Equal(t, http.StatusOK, w.Code)
	rating := body["rating"].(map[string]any)
	assert.Equal(t, "Great", rating["comment"])
	assert.Equal(t, "pending", rating["status"])

	w, _ = request(r, http.MethodPatch, "/api/v1/ratings/missing", "u1", false, map[string]any{"stars": 3})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = request(r, http.MethodDelete, "/api/v1/ratings/"+id, "u1", false, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	_, body = request(r, http.MethodGet, "/api/v1/sessions/s1/ratings/me", "u1", false, nil)
	assert.Nil(t, body["rating"])
}

func TestModerationFlow(t *testing.T) {
	r := setupRouter()
	id := createRating(t, r, "u1")

	_, body := request(r, http.MethodGet, "/api/v1/admin/ratings/pending", "admin1", true, nil)
	assert.Len(t, body["ratings"], 1)

	w, body := request(r, http.MethodPost, "/api/v1/admin/ratings/"+id+"/moderate", "admin1", true, map[string]any{"status": "publish"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "status must be one of: approved, rejected, hidden", body["error"])

	w, body = request(r, http.MethodPost, "/api/v1/admin/ratings/"+id+"/moderate", "admin1", true, map[string]any{"status": "approved"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin1", body["rating"].(map[string]any)["moderated_by"])

	_, body = request(r, http.MethodGet, "/api/v1/sessions/s1/ratings", "u2", false, nil)
	assert.Len(t, body["ratings"], 1)

	_, body = request(r, http.MethodGet, "/api/v1/ratings/me", "u1", false, nil)
	assert.Len(t, body["ratings"], 1)

	_, body = request(r, http.MethodGet, "/api/v1/admin/ratings", "admin1", true, nil)
	assert.Len(t, body["ratings"], 1)
}

func TestListFeedback(t *testing.T) {
	r := setupRouter()
	createRating(t, r, "u1")

	_, body := request(r, http.MethodGet, "/api/v1/feedback", "admin1", true, nil)
	assert.Len(t, body["ratings"], 1)

	_, body = request(r, http.MethodGet, "/api/v1/feedback?filter=approved", "admin1", true, nil)
	assert.Len(t, body["ratings"], 0)

	_, body = request(r, http.MethodGet, "/api/v1/feedback", "u1", false, nil)
	assert.Len(t, body["ratings"], 0)

	w, _ := request(r, http.MethodGet, "/api/v1/feedback?filter=nope", "admin1", true, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
