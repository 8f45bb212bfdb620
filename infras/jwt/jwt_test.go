package jwt_test

import (
	"stays/config"
	"stays/infras/jwt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(accessMin, refreshMin int) jwt.JWT {
	cfg := &config.Config{}
	cfg.App.Name = "stays"
	cfg.JWT.AccessSecret = "access-secret"
	cfg.JWT.RefreshSecret = "refresh-secret"
	cfg.JWT.AccessExpireMin = accessMin
	cfg.JWT.RefreshExpireMin = refreshMin

	return jwt.New(cfg)
}

func TestJWT_RoundTrip(t *testing.T) {
	svc := newService(15, 60)
	identity := jwt.Identity{UserID: "user-1", Email: "guest@example.com", Role: "user"}

	pair, err := svc.GenerateTokenPair(identity)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(900), pair.ExpiresIn)

	claims, err := svc.ValidateToken(pair.AccessToken, jwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, identity, claims.Identity())
	assert.Equal(t, "stays", claims.Issuer)

	_, err = svc.ValidateToken(pair.AccessToken, jwt.RefreshToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	refreshed, err := svc.RefreshTokens(pair.RefreshToken)
	require.NoError(t, err)

	claims, err = svc.ValidateToken(refreshed.AccessToken, jwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestJWT_Expired(t *testing.T) {
	svc := newService(-1, -1)

	pair, err := svc.GenerateTokenPair(jwt.Identity{UserID: "user-1"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.AccessToken, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrExpiredToken)

	_, err = svc.RefreshTokens(pair.RefreshToken)
	assert.ErrorIs(t, err, jwt.ErrExpiredToken)
}

func TestJWT_Garbage(t *testing.T) {
	_, err := newService(15, 60).ValidateToken("not.a.token", jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	_, err = newService(15, 60).ValidateToken("whatever", jwt.TokenType("id"))
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "bearer", header: "Bearer abc.def", want: "abc.def"},
		{name: "missing", header: "", wantErr: jwt.ErrMissingHeader},
		{name: "basic auth", header: "Basic dXNlcg==", wantErr: jwt.ErrMalformedToken},
		{name: "empty bearer", header: "Bearer ", wantErr: jwt.ErrMalformedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := jwt.ExtractTokenFromHeader(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
