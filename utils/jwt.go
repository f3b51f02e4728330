package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"fieldpulse/config"
	"fieldpulse/models"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type Claims struct {
	UserID       uint   `json:"user_id"`
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateJWTToken issues an access token (15 minutes) and a refresh
// token (7 days) for the user.
func GenerateJWTToken(user *models.User) (string, string, error) {
	accessClaims := &Claims{
		UserID:       user.ID,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	accessTokenString, err := accessToken.SignedString([]byte(config.AppConfig.JWTSecret))
	if err != nil {
		return "", "", err
	}

	refreshClaims := &Claims{
		UserID:       user.ID,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(refreshTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	refreshTokenString, err := refreshToken.SignedString([]byte(config.AppConfig.JWTSecret))
	if err != nil {
		return "", "", err
	}

	return accessTokenString, refreshTokenString, nil
}

func ParseJWTToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// HashToken is the digest refresh tokens are stored under; the raw token
// never touches the database.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// StoreRefreshToken persists an issued refresh token so the session can
// be looked up and revoked individually.
func StoreRefreshToken(user *models.User, token, userAgent, ip string) error {
	return config.DB.Create(&models.RefreshToken{
		UserID:    user.ID,
		TokenHash: HashToken(token),
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}).Error
}

// RevokeRefreshTokens marks every live session of the user as revoked.
func RevokeRefreshTokens(userID uint) error {
	return config.DB.Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", time.Now()).Error
}

// RefreshTokens exchanges a valid, still-stored refresh token for a fresh
// pair, rotating the stored session: the presented token is revoked and
// the replacement persisted.
func RefreshTokens(refreshToken, userAgent, ip string) (string, string, error) {
	claims, err := ParseJWTToken(refreshToken)
	if err != nil {
		return "", "", err
	}

	if time.Until(claims.ExpiresAt.Time) <= 0 {
		return "", "", errors.New("refresh token expired")
	}

	var user models.User
	if err := config.DB.First(&user, claims.UserID).Error; err != nil {
		return "", "", errors.New("user not found")
	}

	// A bumped token version invalidates every outstanding refresh token.
	if claims.TokenVersion != user.TokenVersion {
		return "", "", errors.New("token has been revoked")
	}

	var stored models.RefreshToken
	err = config.DB.Where("user_id = ? AND token_hash = ? AND revoked_at IS NULL",
		user.ID, HashToken(refreshToken)).First(&stored).Error
	if err != nil {
		return "", "", errors.New("refresh token not recognized")
	}
	if time.Now().After(stored.ExpiresAt) {
		return "", "", errors.New("refresh token expired")
	}

	access, refresh, err := GenerateJWTToken(&user)
	if err != nil {
		return "", "", err
	}
	if err := config.DB.Model(&stored).Update("revoked_at", time.Now()).Error; err != nil {
		return "", "", err
	}
	if err := StoreRefreshToken(&user, refresh, userAgent, ip); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
