package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims описывает пользовательские данные, хранящиеся в JWT.
// Email кладётся в subject.
type CustomClaims struct {
	UserUID    string `json:"user_uid"`
	Role       string `json:"role"`
	Name       string `json:"name,omitempty"`
	Membership string `json:"membership,omitempty"`
	jwt.RegisteredClaims
}

// Email возвращает email владельца токена.
func (c *CustomClaims) Email() string {
	return c.Subject
}

// IsAdmin сообщает, выдан ли токен администратору.
func (c *CustomClaims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// GenerateToken создает JWT токен, подписанный HS512.
func (j *MakerImpl) GenerateToken(id Identity) (string, error) {
	now := time.Now()
	claims := CustomClaims{
		UserUID:    id.UserUID,
		Role:       id.Role,
		Name:       id.Name,
		Membership: id.Membership,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken парсит JWT токен, проверяет его подпись и валидность.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%s: token has no subject", op)
	}
	return claims, nil
}
