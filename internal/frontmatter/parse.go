// Package frontmatter reads the flat Gatsby front-matter dialect and writes
// the Hugo one. It is deliberately not a YAML parser: the input is a block
// of `key: value` lines plus at most one `tags:` block sequence.
package frontmatter

import (
	"regexp"
	"strings"

	"github.com/starford/postport/internal/models"
)

const tagsKey = "tags"

var blockRe = regexp.MustCompile(`(?s)^---\s*\n(.*?\n)---\s*\n`)

// Split separates the front-matter block (between leading --- delimiters)
// from the body. ok is false when the text has no well-formed block, in
// which case body is the entire text.
func Split(content string) (block, body string, ok bool) {
	loc := blockRe.FindStringSubmatchIndex(content)
	if loc == nil {
		return "", content, false
	}
	return content[loc[2]:loc[3]], content[loc[1]:], true
}

// Parse splits content and reads its front-matter fields. Malformed or
// missing delimiters are not an error: the fields are empty and the whole
// text is the body.
func Parse(content string) models.Document {
	block, body, ok := Split(content)
	if !ok {
		return models.Document{
			Fields: models.Fields{Values: map[string]string{}},
			Body:   content,
		}
	}
	return models.Document{
		Fields: parseBlock(block),
		Body:   body,
	}
}

type mode int

const (
	fieldMode mode = iota
	sequenceMode
)

// parseBlock runs the two-mode line machine. Every line with a colon is
// read as a scalar, tag items included; `tags` itself never is. A `tags:`
// line with no value switches to sequence mode, which collects `- item`
// lines until the first line that is not one. Once a non-empty tags block
// has been collected, later `tags:` lines are ignored. The key must be
// exactly `tags` after trimming: an indented `tags:` opens the sequence,
// `hashtags:` does not.
func parseBlock(block string) models.Fields {
	fields := models.Fields{Values: map[string]string{}}
	m := fieldMode

	for _, line := range strings.Split(block, "\n") {
		if m == sequenceMode {
			trimmed := strings.TrimSpace(line)
			switch {
			case trimmed == "":
				continue
			case strings.HasPrefix(trimmed, "-"):
				if item := strings.TrimSpace(strings.TrimLeft(trimmed, "-")); item != "" {
					fields.Tags = append(fields.Tags, item)
				}
			default:
				m = fieldMode
			}
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if key == tagsKey {
			if value == "" && len(fields.Tags) == 0 {
				m = sequenceMode
			}
			continue
		}
		fields.Values[key] = unquote(value)
	}

	return fields
}

// unquote strips every surrounding double quote, then every surrounding
// single quote.
func unquote(v string) string {
	return strings.Trim(strings.Trim(v, `"`), `'`)
}
