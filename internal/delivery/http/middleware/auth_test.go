package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubVerifier struct {
	userID int
	err    error
	got    string
}

func (s *stubVerifier) Verify(token string) (int, error) {
	s.got = token
	return s.userID, s.err
}

func newAuthEngine(v TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", NewAuthMiddleware(v).RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.MustGet(UserIDKey)})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		verifier *stubVerifier
		status   int
	}{
		{"valid token", "Bearer good", &stubVerifier{userID: 7}, http.StatusOK},
		{"missing header", "", &stubVerifier{userID: 7}, http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", &stubVerifier{userID: 7}, http.StatusUnauthorized},
		{"empty token", "Bearer  ", &stubVerifier{userID: 7}, http.StatusUnauthorized},
		{"rejected token", "Bearer bad", &stubVerifier{err: errors.New("nope")}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			newAuthEngine(tt.verifier).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"user_id":7}`, rec.Body.String())
				assert.Equal(t, "good", tt.verifier.got)
			}
		})
	}
}
