package validate

import (
	"regexp"
	"sort"
	"strings"
)

// ExtSet is a set of lowercase file extensions without the dot.
type ExtSet map[string]struct{}

func NewExtSet(exts ...string) ExtSet {
	s := make(ExtSet, len(exts))
	for _, e := range exts {
		s[strings.ToLower(e)] = struct{}{}
	}
	return s
}

var (
	ImageExts = NewExtSet("png", "jpg", "jpeg", "gif")
	ModelExts = NewExtSet("glb", "gltf", "obj", "stl")
)

// String lists the members, sorted, for user-facing messages.
func (s ExtSet) String() string {
	out := make([]string, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}

// AllowedFile reports whether filename has a '.' and its lowercased suffix
// after the final '.' is in exts.
func AllowedFile(filename string, exts ExtSet) bool {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 {
		return false
	}
	_, ok := exts[strings.ToLower(filename[i+1:])]
	return ok
}

var reUnsafe = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// SanitizeFilename strips any directory part and unsafe characters so the
// result can be used as a storage key. It may return "".
func SanitizeFilename(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.Join(strings.Fields(name), "_")
	name = reUnsafe.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// StorageName is SanitizeFilename for names that must keep their extension.
// When nothing of the base survives sanitizing (e.g. an all-Devanagari name)
// it falls back to "upload.<ext>".
func StorageName(name string) string {
	clean := SanitizeFilename(name)
	if strings.LastIndexByte(clean, '.') > 0 {
		return clean
	}
	var ext string
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		ext = strings.ToLower(reUnsafe.ReplaceAllString(name[i+1:], ""))
	}
	switch {
	case ext != "":
		return "upload." + ext
	case clean != "":
		return clean
	default:
		return "upload"
	}
}
