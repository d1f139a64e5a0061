package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretKey = "test-secret-key-for-predictable-results"

func TestGenerateToken(t *testing.T) {
	issuer := NewIssuer(testSecretKey)

	tests := []struct {
		name      string
		tokenType TokenType
		duration  time.Duration
	}{
		{
			name:      "success: generate admin token",
			tokenType: TokenTypeAdmin,
			duration:  30 * time.Minute,
		},
		{
			name:      "success: generate long lived admin token",
			tokenType: TokenTypeAdmin,
			duration:  24 * time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenString, err := issuer.GenerateToken(tt.tokenType, tt.duration)
			require.NoError(t, err)
			require.NotEmpty(t, tokenString)

			claims, err := issuer.VerifyToken(tokenString)
			require.NoError(t, err)
			assert.Equal(t, tt.tokenType, claims.Type)
			assert.Equal(t, issuerName, claims.Issuer)
			assert.WithinDuration(t, time.Now().Add(tt.duration), claims.ExpiresAt.Time, time.Second*5)
		})
	}
}

func TestGenerateToken_NoSecret(t *testing.T) {
	issuer := NewIssuer("")

	tokenString, err := issuer.GenerateToken(TokenTypeAdmin, time.Hour)
	assert.ErrorIs(t, err, ErrNoSecret)
	assert.Empty(t, tokenString)
	assert.False(t, issuer.Enabled())
}

func TestVerifyToken(t *testing.T) {
	issuer := NewIssuer(testSecretKey)

	validAdminToken, _ := issuer.GenerateToken(TokenTypeAdmin, time.Hour)
	expiredToken, _ := issuer.GenerateToken(TokenTypeAdmin, -time.Hour)

	claimsWithWrongMethod := TokenClaims{
		Type: TokenTypeAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuerName,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tokenWithWrongMethod := jwt.NewWithClaims(jwt.SigningMethodNone, claimsWithWrongMethod)
	wrongMethodTokenString, _ := tokenWithWrongMethod.SignedString(jwt.UnsafeAllowNoneSignatureType)

	foreignIssuer := jwt.NewWithClaims(jwt.SigningMethodHS256, TokenClaims{
		Type: TokenTypeAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	foreignIssuerString, _ := foreignIssuer.SignedString([]byte(testSecretKey))

	tests := []struct {
		name              string
		tokenString       string
		issuer            *Issuer
		expectError       bool
		expectedErrorType error
		expectedTokenType TokenType
	}{
		{
			name:              "success: verify valid token",
			tokenString:       validAdminToken,
			expectedTokenType: TokenTypeAdmin,
		},
		{
			name:              "failure: verify expired token",
			tokenString:       expiredToken,
			expectError:       true,
			expectedErrorType: jwt.ErrTokenExpired,
		},
		{
			name:              "failure: verify token with invalid signature",
			tokenString:       validAdminToken,
			issuer:            NewIssuer("different-secret-key"),
			expectError:       true,
			expectedErrorType: jwt.ErrTokenSignatureInvalid,
		},
		{
			name:              "failure: verify malformed token",
			tokenString:       "not-a-valid-jwt-token",
			expectError:       true,
			expectedErrorType: jwt.ErrTokenMalformed,
		},
		{
			name:              "failure: verify token with wrong signing method",
			tokenString:       wrongMethodTokenString,
			expectError:       true,
			expectedErrorType: ErrInvalidSigningMethod,
		},
		{
			name:              "failure: verify token from another issuer",
			tokenString:       foreignIssuerString,
			expectError:       true,
			expectedErrorType: jwt.ErrTokenInvalidIssuer,
		},
		{
			name:              "failure: verify without secret",
			tokenString:       validAdminToken,
			issuer:            NewIssuer(""),
			expectError:       true,
			expectedErrorType: ErrNoSecret,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := issuer
			if tt.issuer != nil {
				i = tt.issuer
			}

			claims, err := i.VerifyToken(tt.tokenString)

			if tt.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErrorType)
				assert.Nil(t, claims)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, claims)
				assert.Equal(t, tt.expectedTokenType, claims.Type)
			}
		})
	}
}

func TestIsValidToken(t *testing.T) {
	issuer := NewIssuer(testSecretKey)

	validAdminToken, _ := issuer.GenerateToken(TokenTypeAdmin, time.Hour)
	expiredAdminToken, _ := issuer.GenerateToken(TokenTypeAdmin, -time.Hour)

	tests := []struct {
		name              string
		tokenString       string
		expectedOK        bool
		expectedTokenType TokenType
	}{
		{
			name:              "success: valid token",
			tokenString:       validAdminToken,
			expectedOK:        true,
			expectedTokenType: TokenTypeAdmin,
		},
		{
			name:              "failure: expired token",
			tokenString:       expiredAdminToken,
			expectedOK:        false,
			expectedTokenType: TokenTypeUndefined,
		},
		{
			name:              "failure: invalid token string",
			tokenString:       "invalid-token",
			expectedOK:        false,
			expectedTokenType: TokenTypeUndefined,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenType, ok := issuer.IsValidToken(tt.tokenString)
			assert.Equal(t, tt.expectedOK, ok)
			assert.Equal(t, tt.expectedTokenType, tokenType)
		})
	}
}
