package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// fakeToken implements Token
type fakeToken struct {
	data map[string]interface{}
}

func (t *fakeToken) Claims(v interface{}) error {
	if mm, ok := v.(*map[string]interface{}); ok {
		*mm = t.data
		return nil
	}
	return fmt.Errorf("unsupported claims type")
}

// fakeVerifier implements Verifier
type fakeVerifier struct{}

func (f *fakeVerifier) Verify(ctx context.Context, raw string) (Token, error) {
	switch raw {
	case "goodtoken":
		return &fakeToken{data: map[string]interface{}{"sub": "user1", "email": "test@example.com"}}, nil
	case "admintoken":
		return &fakeToken{data: map[string]interface{}{"sub": "admin1", "role": "admin"}}, nil
	case "kctoken":
		return &fakeToken{data: map[string]interface{}{
			"sub":          "kc1",
			"realm_access": map[string]interface{}{"roles": []interface{}{"offline_access", "admin"}},
		}}, nil
	}
	return nil, fmt.Errorf("invalid token")
}

func serve(g *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, req)
	return rw
}

func TestAuthMiddleware_RejectsBadHeaders(t *testing.T) {
	g := gin.New()
	g.GET("/", AuthMiddleware(&fakeVerifier{}), func(c *gin.Context) { c.Status(http.StatusOK) })

	require.Equal(t, http.StatusUnauthorized, serve(g, "").Code)
	require.Equal(t, http.StatusUnauthorized, serve(g, "BadHeader").Code)
	require.Equal(t, http.StatusUnauthorized, serve(g, "Bearer nope").Code)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	g := gin.New()
	g.GET("/", AuthMiddleware(&fakeVerifier{}), func(c *gin.Context) {
		claims, ok := c.Get("claims")
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"claims": claims})
	})
	rw := serve(g, "Bearer goodtoken")

	require.Equal(t, http.StatusOK, rw.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &got))
	require.Contains(t, got, "claims")
}

func TestRequireAdmin(t *testing.T) {
	g := gin.New()
	g.GET("/", AuthMiddleware(&fakeVerifier{}), RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	require.Equal(t, http.StatusForbidden, serve(g, "Bearer goodtoken").Code)
	require.Equal(t, http.StatusOK, serve(g, "Bearer admintoken").Code)
	require.Equal(t, http.StatusOK, serve(g, "Bearer kctoken").Code)
}
