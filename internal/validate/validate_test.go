package validate_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"artisanhub/internal/validate"
)

func TestAllowedFile(t *testing.T) {
	cases := []struct {
		name string
		exts validate.ExtSet
		want bool
	}{
		{"Photo.JPG", validate.ImageExts, true},
		{"photo.jpeg", validate.ImageExts, true},
		{"anim.gif", validate.ImageExts, true},
		{"model", validate.ModelExts, false},
		{"a.b.stl", validate.ModelExts, true},
		{"scene.GLTF", validate.ModelExts, true},
		{"virus.exe", validate.ModelExts, false},
		{"photo.png.exe", validate.ImageExts, false},
		{"trailingdot.", validate.ImageExts, false},
		{".png", validate.ImageExts, true},
		{"", validate.ImageExts, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, validate.AllowedFile(tc.name, tc.exts), tc.name)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"../../etc/passwd":      "passwd",
		`..\..\win\evil.png`:    "evil.png",
		"my photo (1).jpg":      "my_photo_1.jpg",
		"  spaced   name.png  ": "spaced_name.png",
		".hidden.png":           "hidden.png",
		"../..":                 "",
		"vase\x00.glb":          "vase.glb",
		"Über.stl":              "ber.stl",
	}
	for in, want := range cases {
		assert.Equal(t, want, validate.SanitizeFilename(in), in)
	}
}

func TestExtSetString(t *testing.T) {
	assert.Equal(t, "gif, jpeg, jpg, png", validate.ImageExts.String())
}

func TestPrice(t *testing.T) {
	p, ok := validate.Price(" 12.5 ")
	assert.True(t, ok)
	assert.Equal(t, "12.50", p)

	_, ok = validate.Price("-1")
	assert.False(t, ok)
	_, ok = validate.Price("ten")
	assert.False(t, ok)
	_, ok = validate.Price("")
	assert.False(t, ok)
}

func TestEmailNormalizes(t *testing.T) {
	e, ok := validate.Email("  A@X.com ")
	assert.True(t, ok)
	assert.Equal(t, "a@x.com", e)

	_, ok = validate.Email("not-an-email")
	assert.False(t, ok)
}

func TestPassword(t *testing.T) {
	assert.True(t, validate.Password("Passw0rd!"))
	assert.False(t, validate.Password("password"))
	assert.False(t, validate.Password("Sh0rt!"))
}

func TestOptionalKeepsRunesWhole(t *testing.T) {
	in := strings.Repeat("a", 199) + "é"
	out := validate.Optional(in, 200)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, strings.Repeat("a", 199), out)

	assert.Equal(t, "नीला", validate.Optional("  नीला  ", 200))
	assert.Equal(t, "abc", validate.Optional("abcdef", 3))
}

func TestStorageName(t *testing.T) {
	cases := map[string]string{
		"vase.png":          "vase.png",
		"फूलदान.png":        "upload.png",
		"../../फूलदान.JPG": "upload.jpg",
		"Über.stl":          "ber.stl",
		"noext":             "noext",
		"":                  "upload",
	}
	for in, want := range cases {
		assert.Equal(t, want, validate.StorageName(in), in)
	}
	assert.True(t, validate.AllowedFile("फूलदान.png", validate.ImageExts))
}
