package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"jobcard-automation/pkg/log"
)

func TestAdminAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(token string) *gin.Engine {
		r := gin.New()
		r.GET("/admin", New(log.NewNop(), token).AdminAuth(), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return r
	}

	tests := []struct {
		name   string
		token  string
		header map[string]string
		want   int
	}{
		{name: "Open When Unset", token: "", want: http.StatusOK},
		{name: "Missing Token", token: "s3cret", want: http.StatusUnauthorized},
		{name: "Wrong Token", token: "s3cret", header: map[string]string{"X-Admin-Token": "nope"}, want: http.StatusUnauthorized},
		{name: "Header Token", token: "s3cret", header: map[string]string{"X-Admin-Token": "s3cret"}, want: http.StatusOK},
		{name: "Bearer Token", token: "s3cret", header: map[string]string{"Authorization": "Bearer s3cret"}, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			newRouter(tt.token).ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}
