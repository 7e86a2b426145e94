package validate

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"notblank"`
	Password string `json:"password" validate:"min=8"`
}

func TestDescribe(t *testing.T) {
	t.Parallel()
	v := NewCustomValidator()
	tests := []struct {
		name   string
		input  signup
		field  string
		reason string
	}{
		{"missing email", signup{Name: "a", Password: "12345678"}, "email", "is required"},
		{"bad email", signup{Email: "a", Name: "a", Password: "12345678"}, "email", "must be a valid email"},
		{"blank name", signup{Email: "a@b.c", Name: "  ", Password: "12345678"}, "name", "is required"},
		{"short password", signup{Email: "a@b.c", Name: "a", Password: "123"}, "password", "must be at least 8"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			field, reason, ok := Describe(v.Validate(tt.input))
			require.True(t, ok)
			require.Equal(t, tt.field, field)
			require.Equal(t, tt.reason, reason)
		})
	}

	require.NoError(t, v.Validate(signup{Email: "a@b.c", Name: "a", Password: "12345678"}))
	_, _, ok := Describe(errors.New("other"))
	require.False(t, ok)
}
