// Package linkfix repairs the doubled-link pattern [text]([inner](url))
// that front-matter migrations leave behind, rewriting it to [text](inner).
package linkfix

import "regexp"

// The bracket and paren exclusions keep adjacent links on one line from
// merging into a single match.
var nestedLinkRe = regexp.MustCompile(`\[([^\]]+)\]\(\[([^\]]+)\]\([^\)]+\)\)`)

// Repair rewrites every non-overlapping [TEXT]([INNER](ANY)) occurrence to
// [TEXT](INNER) in a single left-to-right pass. The result is not fed back
// through the pattern, so deeper nesting is only partially repaired.
func Repair(content string) string {
	return nestedLinkRe.ReplaceAllString(content, "[${1}](${2})")
}
