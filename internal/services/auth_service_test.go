package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artisanhub/internal/services"
)

func userSignup(email, pass string) services.UserSignup {
	return services.UserSignup{Name: "Mira", Email: email, Password: pass, Picture: file("me.png", "img")}
}

func TestSignupUserHashesPassword(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	u, err := f.auth.SignupUser(ctx, userSignup("Mira@X.com", "Passw0rd!"))
	require.NoError(t, err)
	assert.Equal(t, "mira@x.com", u.Email)
	assert.True(t, strings.HasPrefix(u.Hash, "$2"), "bcrypt hash expected")
	assert.NotContains(t, u.Hash, "Passw0rd!")
	assert.Equal(t, 1, f.blobs.count())
}

func TestLoginExactMatch(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.auth.SignupUser(ctx, userSignup("u@x.com", "Passw0rd!"))
	require.NoError(t, err)

	u, err := f.auth.Login(ctx, "u@x.com", "Passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, "u@x.com", u.Email)

	for _, tc := range []struct{ email, pass string }{
		{"u@x.com", "Passw0rd"},
		{"u@x.com", "passw0rd!"},
		{"v@x.com", "Passw0rd!"},
		{"u@x.com", ""},
		{"not-an-email", "Passw0rd!"},
	} {
		_, err := f.auth.Login(ctx, tc.email, tc.pass)
		assert.ErrorIs(t, err, services.ErrBadCreds, "%s/%s", tc.email, tc.pass)
	}
}

func TestSignupUserRejectsDuplicateEmail(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.auth.SignupUser(ctx, userSignup("u@x.com", "Passw0rd!"))
	require.NoError(t, err)
	_, err = f.auth.SignupUser(ctx, userSignup("U@x.com", "Passw0rd!"))
	require.ErrorIs(t, err, services.ErrDuplicateEmail)
	assert.Equal(t, 1, f.blobs.count(), "no second picture stored")
}

func TestSignupUserValidation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.auth.SignupUser(ctx, userSignup("u@x.com", "weak"))
	requireField(t, err, "password")

	in := userSignup("u@x.com", "Passw0rd!")
	in.Picture = file("me.bmp", "img")
	_, err = f.auth.SignupUser(ctx, in)
	requireField(t, err, "profile_pic")

	in.Picture = nil
	_, err = f.auth.SignupUser(ctx, in)
	requireField(t, err, "profile_pic")

	n, _ := f.stores.Users.Count(ctx)
	assert.Zero(t, n)
	assert.Zero(t, f.blobs.count())
}

func artisanSignup(email string) services.ArtisanSignup {
	return services.ArtisanSignup{
		Name: "Asha", Phone: "+91 98765 43210", Email: email,
		Address: "12 Potter Lane", Skills: "wheel-thrown ceramics",
		Picture: file("../../asha.JPG", "img"),
	}
}

func TestSignupArtisan(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a, err := f.auth.SignupArtisan(ctx, artisanSignup("a@x.com"))
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", a.Email)
	assert.True(t, strings.HasSuffix(a.ProfilePic, "_asha.JPG"), a.ProfilePic)
	assert.NotContains(t, a.ProfilePic, "/")
	assert.Empty(t, a.BankInfo)

	_, err = f.auth.SignupArtisan(ctx, artisanSignup("a@x.com"))
	require.ErrorIs(t, err, services.ErrDuplicateEmail)
}

func TestSignupArtisanRequiresFields(t *testing.T) {
	f := newFixture(t, nil)
	in := artisanSignup("a@x.com")
	in.Skills = "  "
	_, err := f.auth.SignupArtisan(context.Background(), in)
	requireField(t, err, "skills")
	assert.Zero(t, f.blobs.count())
}

func TestSignupArtisanBlobFailureCreatesNothing(t *testing.T) {
	f := newFixture(t, nil)
	f.blobs.failAt = 1
	_, err := f.auth.SignupArtisan(context.Background(), artisanSignup("a@x.com"))
	require.Error(t, err)
	n, _ := f.stores.Artisans.Count(context.Background())
	assert.Zero(t, n)
}
