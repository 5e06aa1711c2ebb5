package compile

import (
	"strconv"
	"strings"
)

// SanitizeName converts an arbitrary display name into a legal prim name:
// letters, digits and underscores only, no leading digit, no runs of
// underscores, never empty.
func SanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	s := b.String()
	if s != "" && s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	if s == "" {
		s = "_unnamed"
	}
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return s
}

// uniqueNamer hands out sanitized prim names, suffixing duplicates so
// sibling prims never collide.
type uniqueNamer struct {
	taken map[string]int
}

func newUniqueNamer() *uniqueNamer {
	return &uniqueNamer{taken: make(map[string]int)}
}

func (u *uniqueNamer) name(raw string) string {
	s := SanitizeName(raw)
	n := u.taken[s]
	u.taken[s] = n + 1
	if n == 0 {
		return s
	}
	return u.name(s + "_" + strconv.Itoa(n+1))
}
