package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"goose_server/internal/service"
)

func TestJWTMiddleware(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	service.InitJWT()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWT(), func(c *gin.Context) {
		uid, _ := c.Get("user_id")
		c.JSON(200, gin.H{"user_id": uid})
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		req, _ := http.NewRequest("GET", srv.URL+"/protected", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		res, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if res.StatusCode != tc.want {
			t.Fatalf("%s: status = %d, want %d", tc.name, res.StatusCode, tc.want)
		}
	}

	token, err := service.GenerateJWT(42)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	req, _ := http.NewRequest("GET", srv.URL+"/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("valid token: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("valid token: status = %d, want 200", res.StatusCode)
	}
}
