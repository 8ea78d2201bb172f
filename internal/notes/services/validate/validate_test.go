package validate_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/Leopold1975/notes_app/internal/notes/services/validate"
	"github.com/stretchr/testify/require"
)

func TestUsername(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"Kody_1", "kody_1", false},
		{"  ab  ", "ab", true},
		{strings.Repeat("a", 21), strings.Repeat("a", 21), true},
		{"has space", "has space", true},
		{"dash-ed", "dash-ed", true},
	}

	for _, tc := range tests {
		errs := validate.Errors{}
		got := validate.Username(errs, "username", tc.in)

		require.Equal(t, tc.want, got)
		require.Equal(t, tc.wantErr, errs.Err() != nil, "input %q", tc.in)
	}
}

func TestEmail(t *testing.T) {
	valid := []string{"kody@example.com", " Kody@Example.COM "}
	invalid := []string{"", "kody", "@example.com", "kody@example", "kody@@example.com", "kody@.com", "ko dy@example.com"}

	for _, v := range valid {
		errs := validate.Errors{}
		got := validate.Email(errs, "email", v)
		require.NoError(t, errs.Err(), v)
		require.Equal(t, "kody@example.com", got)
	}

	for _, v := range invalid {
		errs := validate.Errors{}
		validate.Email(errs, "email", v)
		require.Error(t, errs.Err(), v)
	}
}

func TestPassword(t *testing.T) {
	tests := []struct {
		password string
		msg      string
	}{
		{"12345", "Password is too short"},
		{"123456", ""},
		{strings.Repeat("x", validate.PasswordMax), ""},
		{strings.Repeat("x", validate.PasswordMax+1), "Password is too long"},
		{strings.Repeat("ж", 37), "Password is too long"},
	}

	for _, tt := range tests {
		errs := validate.Errors{}
		validate.Password(errs, "password", tt.password)
		require.Equal(t, tt.msg, errs["password"], tt.password)
	}
}

func TestErrors(t *testing.T) {
	errs := validate.Errors{}
	require.NoError(t, errs.Err())

	validate.Password(errs, "password", "123")
	validate.Password(errs, "password", strings.Repeat("x", 101))
	validate.Confirm(errs, "confirmPassword", "123", "124")
	validate.Text(errs, "title", "Title", "   ", validate.TitleMax)

	err := errs.Err()
	require.ErrorIs(t, err, validate.ErrValidation)

	var verrs validate.Errors
	require.True(t, errors.As(err, &verrs))
	require.Equal(t, "Password is too short", verrs["password"])
	require.Equal(t, "The passwords must match", verrs["confirmPassword"])
	require.Equal(t, "Title is required", verrs["title"])
	require.Equal(t,
		"validation error: confirmPassword: The passwords must match; password: Password is too short; title: Title is required",
		err.Error())
}
