package middleware

import (
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"diskmosaic/internal/logging"
	"diskmosaic/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Package-level security logger instance
var GlobalSecurityLogger *SecurityLogger

// ClaimsKey is the gin context key holding the validated token claims.
const ClaimsKey = "claims"

// RateLimiter implements token bucket rate limiting per IP
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
	}
}

// GetLimiter gets or creates a limiter for an IP address
func (rl *RateLimiter) GetLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, exists := rl.limiters[ip]; exists {
		return limiter
	}

	// 100 requests per second per IP, burst of 200
	limiter := rate.NewLimiter(rate.Limit(100), 200)
	rl.limiters[ip] = limiter
	return limiter
}

// RateLimitMiddleware enforces rate limiting per IP
func RateLimitMiddleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.GetLimiter(ip).Allow() {
			logging.Warn("rate limit exceeded", zap.String("ip", ip))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": 60,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// AuthFailureLimiter limits failed token checks per IP. It is much stricter
// than the general limiter so tokens cannot be guessed.
type AuthFailureLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
}

// NewAuthFailureLimiter creates a new failed-auth limiter
func NewAuthFailureLimiter() *AuthFailureLimiter {
	return &AuthFailureLimiter{
		limiters: make(map[string]*rate.Limiter),
	}
}

// GetLimiter gets or creates a limiter for an IP address
func (al *AuthFailureLimiter) GetLimiter(ip string) *rate.Limiter {
	al.mu.Lock()
	defer al.mu.Unlock()

	if limiter, exists := al.limiters[ip]; exists {
		return limiter
	}

	// 5 failures per minute per IP, burst of 10
	limiter := rate.NewLimiter(rate.Every(12*time.Second), 10)
	al.limiters[ip] = limiter
	return limiter
}

// Blocked reports whether ip has used up its failure budget, without
// consuming any of it.
func (al *AuthFailureLimiter) Blocked(ip string) bool {
	return al.GetLimiter(ip).Tokens() < 1
}

// Fail consumes one failure from ip's budget.
func (al *AuthFailureLimiter) Fail(ip string) {
	al.GetLimiter(ip).Allow()
}

// BearerToken extracts a token from the Authorization header, falling
// back to the token query parameter used by websocket clients.
func BearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return c.Query("token")
}

// RequireToken rejects requests without a valid token and stores the
// claims under ClaimsKey.
func RequireToken(failures *AuthFailureLimiter) gin.HandlerFunc {
	validator := NewInputValidator()
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if failures.Blocked(ip) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "too many failed authentication attempts",
				"retry_after": 60,
			})
			return
		}

		token := BearerToken(c)
		if token == "" {
			failures.Fail(ip)
			GlobalSecurityLogger.LogFailedAuth(ip, "missing token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token required in Authorization header or query parameter"})
			return
		}
		if !validator.ValidateToken(token) {
			failures.Fail(ip)
			GlobalSecurityLogger.LogFailedAuth(ip, "malformed token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, err := services.ValidateToken(token)
		if err != nil {
			failures.Fail(ip)
			GlobalSecurityLogger.LogFailedAuth(ip, "invalid token: "+err.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// SecurityHeadersMiddleware adds security headers to all responses
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Content-Security-Policy", "default-src 'self'")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// CORSMiddleware configures CORS with security restrictions
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := strings.TrimRight(c.GetHeader("Origin"), "/")

		if OriginAllowed(origin, allowedOrigins) {
			c.Header("Vary", "Origin")
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Header("Access-Control-Max-Age", "86400")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// OriginAllowed matches origin against full origins, bare hosts or "*".
// With no list configured only local origins are allowed.
func OriginAllowed(origin string, allowedOrigins []string) bool {
	if origin == "" {
		return false
	}
	parsed, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if len(allowedOrigins) == 0 {
		host := parsed.Hostname()
		return host == "localhost" || host == "127.0.0.1" || host == "::1"
	}
	for _, o := range allowedOrigins {
		trimmed := strings.TrimRight(strings.TrimSpace(o), "/")
		switch {
		case trimmed == "":
			continue
		case trimmed == "*" || trimmed == origin:
			return true
		case !strings.Contains(trimmed, "://") && parsed.Host == trimmed:
			return true
		}
	}
	return false
}

// IPWhitelist restricts access to configured IPs
type IPWhitelist struct {
	ips map[string]bool
	mu  sync.RWMutex
}

// NewIPWhitelist creates a new IP whitelist
func NewIPWhitelist(ips []string) *IPWhitelist {
	wl := &IPWhitelist{
		ips: make(map[string]bool),
	}
	for _, ip := range ips {
		wl.ips[strings.TrimSpace(ip)] = true
	}
	return wl
}

// IsAllowed checks if an IP is whitelisted
func (wl *IPWhitelist) IsAllowed(ip string) bool {
	wl.mu.RLock()
	defer wl.mu.RUnlock()

	// Allow localhost always
	if ip == "127.0.0.1" || ip == "::1" || ip == "localhost" {
		return true
	}

	// If no whitelist configured, allow all
	if len(wl.ips) == 0 {
		return true
	}

	// Strip port from IP if present
	ipOnly, _, _ := net.SplitHostPort(ip)
	if ipOnly == "" {
		ipOnly = ip
	}

	return wl.ips[ipOnly]
}

// IPWhitelistMiddleware enforces IP whitelisting
func IPWhitelistMiddleware(whitelist *IPWhitelist) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !whitelist.IsAllowed(ip) {
			logging.Warn("access denied for non-whitelisted IP", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		c.Next()
	}
}

// SecurityLogger logs security events. A nil logger is a no-op.
type SecurityLogger struct {
	log *zap.Logger
}

// NewSecurityLogger creates a new security logger
func NewSecurityLogger() *SecurityLogger {
	sl := &SecurityLogger{log: logging.Component("security")}
	GlobalSecurityLogger = sl
	return sl
}

// LogFailedAuth logs failed authentication attempts
func (sl *SecurityLogger) LogFailedAuth(ip string, reason string) {
	if sl == nil {
		return
	}
	sl.log.Warn("failed authentication", zap.String("ip", ip), zap.String("reason", reason))
}

// LogTokenGenerated logs successful token generation
func (sl *SecurityLogger) LogTokenGenerated(clientName string) {
	if sl == nil {
		return
	}
	sl.log.Info("token generated", zap.String("client", clientName))
}

// LogWebSocketConnected logs successful WebSocket connections
func (sl *SecurityLogger) LogWebSocketConnected(ip string, clientName string) {
	if sl == nil {
		return
	}
	sl.log.Info("websocket connected", zap.String("ip", ip), zap.String("client", clientName))
}

// LogWebSocketDisconnected logs WebSocket disconnections
func (sl *SecurityLogger) LogWebSocketDisconnected(ip string, clientID string) {
	if sl == nil {
		return
	}
	sl.log.Info("websocket disconnected", zap.String("ip", ip), zap.String("client", clientID))
}

// InputValidator validates and sanitizes user input
type InputValidator struct{}

// NewInputValidator creates a new input validator
func NewInputValidator() *InputValidator {
	return &InputValidator{}
}

// ValidateToken checks if token format is valid
func (iv *InputValidator) ValidateToken(token string) bool {
	// JWT tokens are in format: header.payload.signature
	if len(token) < 20 || len(token) > 4096 {
		return false
	}
	return strings.Count(token, ".") == 2
}

// ValidateClientName checks if a client name is safe
func (iv *InputValidator) ValidateClientName(name string) bool {
	if len(name) < 1 || len(name) > 255 {
		return false
	}

	// Allow alphanumeric, hyphens, underscores, dots
	for _, c := range name {
		if !((c >= 'a' && c <= 'z') ||
			(c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') ||
			c == '-' || c == '_' || c == '.') {
			return false
		}
	}

	return true
}
