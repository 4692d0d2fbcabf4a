package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTMaker_GenerateAndParseToken_ValidCases(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	tokenTTL := 15 * time.Minute
	maker := NewJWTMaker(secretKey, tokenTTL)

	tests := []struct {
		name      string
		email     string
		role      string
		uid       string
		userName  string
		wantAdmin bool
	}{
		{
			name:      "admin user",
			email:     "admin@carrydrop.jp",
			role:      RoleAdmin,
			uid:       "11111111-1111-1111-1111-111111111111",
			userName:  "Admin",
			wantAdmin: true,
		},
		{
			name:     "regular user",
			email:    "traveler@example.com",
			role:     RoleUser,
			uid:      "22222222-2222-2222-2222-222222222222",
			userName: "Aiko",
		},
		{
			name:  "user without name",
			email: "noname@example.com",
			role:  RoleUser,
			uid:   "33333333-3333-3333-3333-333333333333",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(Identity{
				Email:      tt.email,
				UserUID:    tt.uid,
				Name:       tt.userName,
				Role:       tt.role,
				Membership: "SILVER",
			})
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)

			assert.Equal(t, tt.email, claims.Email())
			assert.Equal(t, tt.role, claims.Role)
			assert.Equal(t, tt.uid, claims.UserUID)
			assert.Equal(t, tt.userName, claims.Name)
			assert.Equal(t, tt.wantAdmin, claims.IsAdmin())
			assert.Equal(t, "SILVER", claims.Membership)
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second)
			assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestJWTMaker_ParseToken_InvalidTokens(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	maker := NewJWTMaker(secretKey, 15*time.Minute)

	id := Identity{Email: "user@example.com", UserUID: "uid", Role: RoleUser}

	validToken, err := maker.GenerateToken(id)
	require.NoError(t, err)

	expired, err := NewJWTMaker(secretKey, -time.Hour).GenerateToken(id)
	require.NoError(t, err)

	wrongSecret, err := NewJWTMaker("wrong_secret_key", time.Hour).GenerateToken(id)
	require.NoError(t, err)

	hs256, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, CustomClaims{
		Role: RoleAdmin,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   "user@example.com",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(secretKey))
	require.NoError(t, err)

	noSubject, err := maker.GenerateToken(Identity{UserUID: "uid", Role: RoleUser})
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "malformed token", token: "invalid.token.here"},
		{name: "expired token", token: expired},
		{name: "wrong secret key", token: wrongSecret},
		{name: "tampered token", token: validToken + "tampered"},
		{name: "unexpected signing method", token: hs256},
		{name: "missing subject", token: noSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}
