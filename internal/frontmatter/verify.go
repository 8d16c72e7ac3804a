package frontmatter

import (
	"fmt"
	"strings"

	adrgfm "github.com/adrg/frontmatter"

	"github.com/starford/postport/internal/apperr"
)

// hugoEnvelope mirrors the fields Render emits.
type hugoEnvelope struct {
	Title   string   `yaml:"title"`
	Date    string   `yaml:"date"`
	Slug    string   `yaml:"slug"`
	Summary string   `yaml:"summary"`
	Tags    []string `yaml:"tags"`
	Draft   bool     `yaml:"draft"`
	ShowToc bool     `yaml:"ShowToc"`
	TocOpen bool     `yaml:"TocOpen"`
}

// Verify parses a composed document back as YAML front matter and checks
// that the title and every tag read back unchanged.
func Verify(composed, title string, tags []string) error {
	var env hugoEnvelope
	if _, err := adrgfm.Parse(strings.NewReader(composed), &env); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInvalidOutput, err)
	}
	if env.Title != title {
		return fmt.Errorf("%w: title %q read back as %q", apperr.ErrInvalidOutput, title, env.Title)
	}
	if len(env.Tags) != len(tags) {
		return fmt.Errorf("%w: %d tags read back as %d", apperr.ErrInvalidOutput, len(tags), len(env.Tags))
	}
	for i, tag := range tags {
		if env.Tags[i] != tag {
			return fmt.Errorf("%w: tag %q read back as %q", apperr.ErrInvalidOutput, tag, env.Tags[i])
		}
	}
	return nil
}
