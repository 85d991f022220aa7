package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"diskmosaic/internal/logging"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const tokenIssuer = "disk-mosaic"

// ErrAuthNotInitialized is returned by token operations before InitAuthService.
var ErrAuthNotInitialized = errors.New("auth service not initialized")

// AuthService manages JWT token generation and validation
type AuthService struct {
	secretKey   string
	tokenExpiry time.Duration
}

// CustomClaims represents the JWT claims structure
type CustomClaims struct {
	ClientName string `json:"client_name"`
	jwt.RegisteredClaims
}

var authService *AuthService

// secretKeyFile returns where the generated key is persisted.
func secretKeyFile() string {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return filepath.Join(os.TempDir(), ".disk-mosaic", "secret-key")
	}
	return filepath.Join(homeDir, ".disk-mosaic", "secret-key")
}

// loadOrCreateSecret reads the persisted key, or generates and persists one.
func loadOrCreateSecret(keyFile string) string {
	log := logging.Component("auth")

	if data, err := os.ReadFile(keyFile); err == nil && len(data) > 0 {
		secret := strings.TrimSpace(string(data))
		log.Info("loaded persisted secret key", zap.String("file", keyFile), zap.Int("length", len(secret)))
		return secret
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "disk-mosaic"
	}

	var secret string
	randomBytes := make([]byte, 16)
	if _, err := rand.Read(randomBytes); err != nil {
		secret = fmt.Sprintf("disk-mosaic-%s-%d-backup", hostname, time.Now().UnixNano())
		log.Warn("random generation failed, using fallback key", zap.Error(err))
	} else {
		secret = fmt.Sprintf("disk-mosaic-%s-%s", hostname, hex.EncodeToString(randomBytes))
	}

	if err := os.MkdirAll(filepath.Dir(keyFile), 0o700); err != nil {
		log.Warn("could not create key directory", zap.String("file", keyFile), zap.Error(err))
	} else if err := os.WriteFile(keyFile, []byte(secret), 0o600); err != nil {
		log.Warn("could not persist secret key", zap.String("file", keyFile), zap.Error(err))
	} else {
		log.Info("generated and persisted secret key", zap.String("file", keyFile), zap.Int("length", len(secret)))
	}
	return secret
}

// InitAuthService initializes the authentication service. An empty
// secretKey loads or creates the persisted one.
func InitAuthService(secretKey string, tokenExpiry time.Duration) *AuthService {
	if secretKey == "" {
		secretKey = loadOrCreateSecret(secretKeyFile())
	}
	if tokenExpiry == 0 {
		tokenExpiry = 90 * 24 * time.Hour
	}

	secretKey = strings.TrimSpace(secretKey)

	// HMAC-SHA256 wants at least 32 bytes of key.
	if len(secretKey) < 32 {
		logging.Warn("secret key shorter than 32 bytes, padding", zap.Int("length", len(secretKey)))
		paddingBytes := make([]byte, 32-len(secretKey))
		_, _ = rand.Read(paddingBytes)
		secretKey = secretKey + hex.EncodeToString(paddingBytes)
	}

	authService = &AuthService{
		secretKey:   secretKey,
		tokenExpiry: tokenExpiry,
	}

	return authService
}

// GenerateToken creates a new JWT token for a named client
func GenerateToken(clientName string) (string, error) {
	if authService == nil {
		return "", ErrAuthNotInitialized
	}

	now := time.Now()
	claims := CustomClaims{
		ClientName: clientName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(authService.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(authService.secretKey))
}

// ValidateToken verifies and parses a JWT token
func ValidateToken(tokenString string) (*CustomClaims, error) {
	if authService == nil {
		return nil, ErrAuthNotInitialized
	}

	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(authService.secretKey), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// GetAuthService returns the initialized auth service
func GetAuthService() *AuthService {
	return authService
}

// GetTokenExpiry returns when a token issued now will expire
func GetTokenExpiry() time.Time {
	if authService == nil {
		return time.Time{}
	}
	return time.Now().Add(authService.tokenExpiry)
}
