package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestOriginAllowed(t *testing.T) {
	tests := []struct {
		name    string
		origin  string
		allowed []string
		want    bool
	}{
		{"empty origin", "", nil, false},
		{"localhost by default", "http://localhost:3000", nil, true},
		{"remote by default", "https://example.com", nil, false},
		{"exact match", "https://example.com", []string{"https://example.com/"}, true},
		{"host match", "https://example.com", []string{"example.com"}, true},
		{"wildcard", "https://anything.dev", []string{"*"}, true},
		{"not listed", "https://evil.dev", []string{"https://example.com"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OriginAllowed(tt.origin, tt.allowed))
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware(nil))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
}

func TestIPWhitelist(t *testing.T) {
	open := NewIPWhitelist(nil)
	assert.True(t, open.IsAllowed("203.0.113.9"))

	wl := NewIPWhitelist([]string{"10.0.0.2"})
	assert.True(t, wl.IsAllowed("127.0.0.1"))
	assert.True(t, wl.IsAllowed("10.0.0.2"))
	assert.True(t, wl.IsAllowed("10.0.0.2:5555"))
	assert.False(t, wl.IsAllowed("10.0.0.3"))
}

func TestInputValidator(t *testing.T) {
	v := NewInputValidator()
	assert.True(t, v.ValidateClientName("my-laptop.local"))
	assert.False(t, v.ValidateClientName(""))
	assert.False(t, v.ValidateClientName("bad name"))

	assert.True(t, v.ValidateToken("aaaaaaaa.bbbbbbbbbb.cccccccc"))
	assert.False(t, v.ValidateToken("short.a.b"))
	assert.False(t, v.ValidateToken("no-dots-no-dots-no-dots"))
}

func TestAuthFailureLimiterBlocks(t *testing.T) {
	l := NewAuthFailureLimiter()
	for i := 0; i < 10; i++ {
		assert.False(t, l.Blocked("1.2.3.4"))
		l.Fail("1.2.3.4")
	}
	assert.True(t, l.Blocked("1.2.3.4"))
	assert.False(t, l.Blocked("5.6.7.8"))
}

func TestBearerToken(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodGet, "/ws?token=fromquery", nil)
	assert.Equal(t, "fromquery", BearerToken(c))

	c.Request.Header.Set("Authorization", "Bearer fromheader")
	assert.Equal(t, "fromheader", BearerToken(c))
}
