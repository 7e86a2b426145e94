package auth0_test

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/bookshelf/pkg/auth0"
)

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func TestVerifier_Claims_Disabled(t *testing.T) {
	t.Parallel()
	v, err := auth0.NewVerifier(auth0.Config{Enable: false})
	require.NoError(t, err)

	tests := []struct {
		name      string
		token     string
		wantSub   string
		wantAdmin bool
		wantErr   bool
	}{
		{
			name: "admin group",
			token: sign(t, jwt.MapClaims{
				"sub":            "u-1",
				"cognito:groups": []string{"readers", "admin"},
				"scope":          "openid profile",
			}),
			wantSub:   "u-1",
			wantAdmin: true,
		},
		{
			name:    "no groups",
			token:   auth0.Bearer + sign(t, jwt.MapClaims{"sub": "u-2", "name": "Ann"}),
			wantSub: "u-2",
		},
		{
			name:    "garbage",
			token:   "not-a-jwt",
			wantErr: true,
		},
		{
			name:    "empty",
			token:   "",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			claims, err := v.Claims(context.Background(), tt.token)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantSub, claims.Subject)
			require.Equal(t, tt.wantAdmin, claims.InGroup(auth0.AdminGroup))
		})
	}
}

func TestCustomClaims_HasScope(t *testing.T) {
	t.Parallel()
	c := auth0.CustomClaims{Scope: "openid profile email"}
	require.True(t, c.HasScope("profile"))
	require.False(t, c.HasScope("admin"))
}
