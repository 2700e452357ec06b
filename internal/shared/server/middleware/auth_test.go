package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"resume-builder/internal/shared/auth"
)

func newAuthRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(mw)
	router.GET("/api/v1/resume", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": UserIDFromContext(c),
			"email":  UserEmailFromContext(c),
		})
	})
	router.OPTIONS("/api/v1/resume", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestAuthAllowsOptionsWithoutIdentity(t *testing.T) {
	router := newAuthRouter(Auth())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/resume", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestAuthIdentities(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENV", "dev")
	token, err := auth.SignJWT(auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-42"},
		Email:            "ada@example.com",
	})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}

	cases := []struct {
		name   string
		header string
		value  string
		status int
		want   string
	}{
		{name: "bearer", header: "Authorization", value: "Bearer " + token, status: http.StatusOK, want: "user-42"},
		{name: "guest", header: "X-Guest-Id", value: "g1", status: http.StatusOK, want: "guest:g1"},
		{name: "bad scheme", header: "Authorization", value: "Basic abc", status: http.StatusUnauthorized},
		{name: "bad token", header: "Authorization", value: "Bearer nope", status: http.StatusUnauthorized},
		{name: "missing", status: http.StatusUnauthorized},
	}
	router := newAuthRouter(Auth())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/resume", nil)
			if tc.header != "" {
				req.Header.Set(tc.header, tc.value)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			if resp.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.Code)
			}
			if tc.want != "" && !strings.Contains(resp.Body.String(), `"userId":"`+tc.want+`"`) {
				t.Fatalf("expected user %q in %s", tc.want, resp.Body.String())
			}
		})
	}
}

func TestLocalIdentity(t *testing.T) {
	router := newAuthRouter(LocalIdentity("local"))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/resume", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), `"userId":"local"`) {
		t.Fatalf("unexpected response %d %s", resp.Code, resp.Body.String())
	}
}
