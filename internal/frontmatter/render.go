package frontmatter

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/starford/postport/internal/models"
)

// DefaultDateSuffix turns a bare YYYY-MM-DD date into a full timestamp.
const DefaultDateSuffix = "T00:00:00+09:00"

const (
	delimiter   = "---"
	emptyMarker = "-"
	bareDateLen = len("2006-01-02")
)

// Hugo defaults appended to every post.
var defaultLines = []string{
	"draft: false",
	"ShowToc: true",
	"TocOpen: false",
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// plainTagRe matches tags that read back as the same string when left
// unquoted in a YAML block sequence.
var plainTagRe = regexp.MustCompile(`^[\p{L}\p{N}_][^:#\[\]{},&*!|>'"%@\\` + "`" + `]*$`)

// RenderOptions tunes Render. The zero value uses DefaultDateSuffix.
type RenderOptions struct {
	DateSuffix string
}

// Render emits the Hugo front-matter block for f, delimiters included and
// without a trailing newline. Lines follow a fixed order regardless of the
// input order; absent fields produce no line.
func Render(f models.Fields, opts RenderOptions) string {
	suffix := opts.DateSuffix
	if suffix == "" {
		suffix = DefaultDateSuffix
	}

	lines := []string{delimiter}

	if title, ok := f.Get("title"); ok {
		lines = append(lines, "title: "+quote(title))
	}

	if date, ok := f.Get("date"); ok {
		if utf8.RuneCountInString(date) == bareDateLen {
			date += suffix
		}
		lines = append(lines, "date: "+date)
	}

	if slug, ok := f.Get("slug"); ok {
		lines = append(lines, "slug: "+quote(slug))
	}

	if summary, ok := Summary(f); ok {
		lines = append(lines, "summary: "+quote(summary))
	}

	if len(f.Tags) > 0 {
		lines = append(lines, tagsKey+":")
		for _, tag := range f.Tags {
			lines = append(lines, "  - "+tagValue(tag))
		}
	}

	lines = append(lines, defaultLines...)
	lines = append(lines, delimiter)
	return strings.Join(lines, "\n")
}

// Summary picks the excerpt unless it is the "-" placeholder, falling back
// to the description. A present but empty excerpt is kept as is.
func Summary(f models.Fields) (string, bool) {
	if excerpt, ok := f.Get("excerpt"); ok && excerpt != emptyMarker {
		return excerpt, true
	}
	return f.Get("description")
}

// Compose renders the new front matter and joins it to the untouched body.
func Compose(doc models.Document, opts RenderOptions) string {
	return Render(doc.Fields, opts) + "\n\n" + doc.Body
}

func quote(s string) string {
	return `"` + quoteEscaper.Replace(s) + `"`
}

// tagValue leaves ordinary tags bare and double-quotes the ones YAML would
// read as a flow collection, a mapping, an alias or a reserved indicator.
func tagValue(tag string) string {
	if plainTagRe.MatchString(tag) && !strings.EqualFold(tag, "null") {
		return tag
	}
	return quote(tag)
}
