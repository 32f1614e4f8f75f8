package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/d60-Lab/vidtube/internal/model"
	"github.com/d60-Lab/vidtube/pkg/auth"
)

func init() { gin.SetMode(gin.TestMode) }

type stubVerifier map[string]model.Principal

func (s stubVerifier) Parse(raw string) (auth.Identity, error) {
	if p, ok := s[raw]; ok {
		return auth.Identity{Subject: p.ID, Username: p.Username}, nil
	}
	return auth.Identity{}, errors.New("bad token")
}

func serve(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	v := stubVerifier{"good": {ID: "u1", Username: "alice"}}
	handler := func(c *gin.Context) { c.String(http.StatusOK, Principal(c).ID) }

	required := gin.New()
	required.GET("/", Auth(v, true), handler)
	optional := gin.New()
	optional.GET("/", Auth(v, false), handler)

	w := serve(required, "Bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(required, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(required, "Bearer bad").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(required, "Basic good").Code)

	w = serve(optional, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, http.StatusUnauthorized, serve(optional, "Bearer bad").Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	r := gin.New()
	r.GET("/", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, "").Code)
	assert.Equal(t, http.StatusOK, serve(r, "").Code)
	w := serve(r, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, serve(r, "").Code)

	now = now.Add(time.Hour)
	assert.Equal(t, 1, rl.Sweep())
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.GET("/", Timeout(time.Minute), func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		assert.True(t, ok)
		c.Status(http.StatusOK)
	})
	assert.Equal(t, http.StatusOK, serve(r, "").Code)
}
