package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName 是浏览器端会话 Cookie 的名称，值为签名后的会话 ID。
const CookieName = "folio_admin_session"

// signSessionID wraps the session id in an HS256 JWT so the cookie value is
// tamper evident. The bearer token itself never reaches the browser.
func signSessionID(sid string, key []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   sid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign session cookie: %w", err)
	}
	return signed, nil
}

// parseSessionID 解析并校验 Cookie，返回其中的会话 ID。
func parseSessionID(value string, key []byte) (string, error) {
	if value == "" {
		return "", errors.New("cookie value is empty")
	}

	token, err := jwt.ParseWithClaims(value, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return key, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse session cookie: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid session cookie claims")
	}
	return claims.Subject, nil
}
