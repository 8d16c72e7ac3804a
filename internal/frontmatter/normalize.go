package frontmatter

import (
	"regexp"
	"strings"
)

var (
	unsafeRe    = regexp.MustCompile(`[^\w\s-]`)
	separatorRe = regexp.MustCompile(`[-\s]+`)
)

// Normalize turns a title or slug into a directory-safe token made of
// lowercase ASCII word characters and single hyphens. It is idempotent.
func Normalize(s string) string {
	s = unsafeRe.ReplaceAllString(s, "")
	s = separatorRe.ReplaceAllString(s, "-")
	return strings.Trim(strings.ToLower(s), "-")
}
