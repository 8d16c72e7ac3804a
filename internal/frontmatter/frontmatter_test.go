package frontmatter

import (
	"errors"
	"strings"
	"testing"

	"github.com/starford/postport/internal/apperr"
	"github.com/starford/postport/internal/models"
)

func fields(values map[string]string, tags ...string) models.Fields {
	return models.Fields{Values: values, Tags: tags}
}

func TestParse_FrontmatterAndBody(t *testing.T) {
	input := "---\ntitle: \"Hello\"\ndate: 2023-04-01\ntags:\n  - go\n  - hugo\nauthor: 'me'\n---\n# Hello\nBody text.\n"
	doc := Parse(input)

	if got, _ := doc.Fields.Get("title"); got != "Hello" {
		t.Errorf("title = %q, want %q", got, "Hello")
	}
	if got, _ := doc.Fields.Get("author"); got != "me" {
		t.Errorf("author = %q, want %q", got, "me")
	}
	if len(doc.Fields.Tags) != 2 || doc.Fields.Tags[0] != "go" || doc.Fields.Tags[1] != "hugo" {
		t.Errorf("tags = %v, want [go hugo]", doc.Fields.Tags)
	}
	if _, ok := doc.Fields.Get("tags"); ok {
		t.Error("tags must not be stored as a scalar")
	}
	if doc.Body != "# Hello\nBody text.\n" {
		t.Errorf("body = %q", doc.Body)
	}
}

func TestParse_NoFrontmatter(t *testing.T) {
	cases := []string{
		"# Just a heading\nSome text.\n",
		"---\ntitle: x\nno closing delimiter\n",
		"---\n---\nempty block\n",
		"\n---\ntitle: x\n---\nleading blank line\n",
	}
	for _, input := range cases {
		doc := Parse(input)
		if len(doc.Fields.Values) != 0 || doc.Fields.Tags != nil {
			t.Errorf("Parse(%q) fields = %v, want empty", input, doc.Fields)
		}
		if doc.Body != input {
			t.Errorf("Parse(%q) body = %q, want whole input", input, doc.Body)
		}
	}
}

func TestParse_ValueKeepsLaterColons(t *testing.T) {
	doc := Parse("---\ntitle: Go: a tour\ndate: 2023-04-01T10:20:30+09:00\n---\n")
	if got, _ := doc.Fields.Get("title"); got != "Go: a tour" {
		t.Errorf("title = %q", got)
	}
	if got, _ := doc.Fields.Get("date"); got != "2023-04-01T10:20:30+09:00" {
		t.Errorf("date = %q", got)
	}
}

func TestParse_StripsAllSurroundingQuotes(t *testing.T) {
	doc := Parse("---\ntitle: \"'quoted'\"\nslug: \"\"double\"\"\n---\n")
	if got, _ := doc.Fields.Get("title"); got != "quoted" {
		t.Errorf("title = %q, want %q", got, "quoted")
	}
	if got, _ := doc.Fields.Get("slug"); got != "double" {
		t.Errorf("slug = %q, want %q", got, "double")
	}
}

func TestParseBlock_TagsSequence(t *testing.T) {
	tests := []struct {
		name  string
		block string
		want  []string
	}{
		{"indented", "tags:\n  - a\n  - b\n", []string{"a", "b"}},
		{"unindented", "tags:\n- a\n- b\n", []string{"a", "b"}},
		{"blank lines inside", "tags:\n  - a\n\n  - b\ntitle: t\n", []string{"a", "b"}},
		{"stops at next field", "tags:\n  - a\ntitle: t\n  - stray\n", []string{"a"}},
		{"leading dashes trimmed", "tags:\n  --double\n", []string{"double"}},
		{"empty items dropped", "tags:\n  -\n  - x\n", []string{"x"}},
		{"inline list ignored", "tags: [a, b]\n", nil},
		{"no items", "tags:\ntitle: t\n", nil},
		{"empty block then real block", "tags:\ntitle: t\ntags:\n  - late\n", []string{"late"}},
		{"first block wins", "tags:\n  - one\ntitle: t\ntags:\n  - two\n", []string{"one"}},
		{"indented key", "  tags:\n  - a\n", []string{"a"}},
		{"suffix key is a scalar", "hashtags:\n  - a\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseBlock(tt.block).Tags
			if strings.Join(got, ",") != strings.Join(tt.want, ",") || len(got) != len(tt.want) {
				t.Errorf("tags = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseBlock_ItemWithColonIsAlsoScalar(t *testing.T) {
	f := parseBlock("tags:\n  - c: d\n")
	if len(f.Tags) != 1 || f.Tags[0] != "c: d" {
		t.Errorf("tags = %v", f.Tags)
	}
	if got, ok := f.Get("- c"); !ok || got != "d" {
		t.Errorf("scalar %q = %q, %v", "- c", got, ok)
	}
}

func TestRender_FixedOrder(t *testing.T) {
	f := fields(map[string]string{
		"excerpt":     "Short",
		"slug":        "my-post",
		"date":        "2023-04-01",
		"title":       "My Post",
		"category":    "dropped",
		"description": "Long",
	}, "go", "hugo")

	want := strings.Join([]string{
		"---",
		`title: "My Post"`,
		"date: 2023-04-01T00:00:00+09:00",
		`slug: "my-post"`,
		`summary: "Short"`,
		"tags:",
		"  - go",
		"  - hugo",
		"draft: false",
		"ShowToc: true",
		"TocOpen: false",
		"---",
	}, "\n")

	if got := Render(f, RenderOptions{}); got != want {
		t.Errorf("Render =\n%s\nwant\n%s", got, want)
	}
}

func TestRender_OnlyTitle(t *testing.T) {
	got := Render(fields(map[string]string{"title": "T"}), RenderOptions{})
	want := "---\ntitle: \"T\"\ndraft: false\nShowToc: true\nTocOpen: false\n---"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRender_Date(t *testing.T) {
	tests := []struct {
		in, suffix, want string
	}{
		{"2023-04-01", "", "date: 2023-04-01T00:00:00+09:00"},
		{"2023-04-01", "T12:00:00Z", "date: 2023-04-01T12:00:00Z"},
		{"2023-04-01T10:20:30+09:00", "", "date: 2023-04-01T10:20:30+09:00"},
		{"2023-4-1", "", "date: 2023-4-1"},
	}
	for _, tt := range tests {
		out := Render(fields(map[string]string{"title": "t", "date": tt.in}), RenderOptions{DateSuffix: tt.suffix})
		if !strings.Contains(out, "\n"+tt.want+"\n") {
			t.Errorf("date %q rendered as\n%s\nwant line %q", tt.in, out, tt.want)
		}
	}
}

func TestRender_EscapesQuotes(t *testing.T) {
	out := Render(fields(map[string]string{"title": `Say "hi" \o/`}), RenderOptions{})
	if !strings.Contains(out, `title: "Say \"hi\" \\o/"`) {
		t.Errorf("Render = %s", out)
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
		want   string
		ok     bool
	}{
		{"excerpt wins", map[string]string{"excerpt": "E", "description": "D"}, "E", true},
		{"placeholder falls through", map[string]string{"excerpt": "-", "description": "D"}, "D", true},
		{"empty excerpt kept", map[string]string{"excerpt": "", "description": "D"}, "", true},
		{"placeholder alone", map[string]string{"excerpt": "-"}, "", false},
		{"description only", map[string]string{"description": "D"}, "D", true},
		{"none", map[string]string{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Summary(fields(tt.values))
			if got != tt.want || ok != tt.ok {
				t.Errorf("Summary = %q, %v, want %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRender_EmptyExcerptKept(t *testing.T) {
	for _, input := range []string{
		"---\ntitle: T\nexcerpt: \"\"\ndescription: D\n---\n",
		"---\ntitle: T\nexcerpt:\ndescription: D\n---\n",
	} {
		out := Render(Parse(input).Fields, RenderOptions{})
		if !strings.Contains(out, "\nsummary: \"\"\n") {
			t.Errorf("Render(%q) =\n%s\nwant an empty summary line", input, out)
		}
	}
}

func TestCompose_BodyVerbatim(t *testing.T) {
	doc := Parse("---\ntitle: T\n---\n\n  body *stays*\n---\n")
	got := Compose(doc, RenderOptions{})
	// The closing delimiter swallows the blank line that follows it.
	if !strings.HasSuffix(got, "TocOpen: false\n---\n\n  body *stays*\n---\n") {
		t.Errorf("Compose = %q", got)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hello World", "hello-world"},
		{"  Go: A Tour!  ", "go-a-tour"},
		{"a -- b", "a-b"},
		{"--already-normal--", "already-normal"},
		{"snake_case_Stays", "snake_case_stays"},
		{"Tabs\tand\nnewlines", "tabs-and-newlines"},
		{"한글 title", "title"},
		{"?!", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"Hello World", " -x- ", "A_b c--D", "Ünïcödé & stuff", "", "---", "a - - b"}
	for _, s := range inputs {
		once := Normalize(s)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize(Normalize(%q)) = %q, want %q", s, twice, once)
		}
	}
}

func TestRender_QuotesTagsWhenNeeded(t *testing.T) {
	tests := []struct {
		tag, want string
	}{
		{"go", "  - go"},
		{"Spring Boot", "  - Spring Boot"},
		{"한글", "  - 한글"},
		{"c++", "  - c++"},
		{"[WIP]", `  - "[WIP]"`},
		{"@Transactional", `  - "@Transactional"`},
		{"Spring Boot: intro", `  - "Spring Boot: intro"`},
		{"C#", `  - "C#"`},
		{`say "hi"`, `  - "say \"hi\""`},
		{"null", `  - "null"`},
	}
	for _, tt := range tests {
		out := Render(fields(map[string]string{"title": "T"}, tt.tag), RenderOptions{})
		if !strings.Contains(out, "\n"+tt.want+"\n") {
			t.Errorf("tag %q rendered as\n%s\nwant line %q", tt.tag, out, tt.want)
		}
	}
}

func TestVerify(t *testing.T) {
	good := Compose(Parse("---\ntitle: Say \"hi\" now\ndate: 2023-04-01\ntags:\n  - go\n---\nbody\n"), RenderOptions{})
	if err := Verify(good, `Say "hi" now`, []string{"go"}); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	tags := []string{"[WIP]", "@Transactional", "Spring Boot: intro", "null", "2023"}
	doc := models.Document{Fields: fields(map[string]string{"title": "T"}, tags...), Body: "b"}
	if err := Verify(Compose(doc, RenderOptions{}), "T", tags); err != nil {
		t.Errorf("tags needing quotes: %v", err)
	}
}

func TestVerify_RejectsUnreadableBlock(t *testing.T) {
	tests := []struct {
		name, composed string
		tags           []string
	}{
		{"flow syntax error", "---\ntitle: \"T\"\ntags:\n  - [draft\n---\n", []string{"[draft"}},
		{"tag read as mapping", "---\ntitle: \"T\"\ntags:\n  - a: b\n---\n", []string{"a: b"}},
		{"tag changed", "---\ntitle: \"T\"\ntags:\n  - x\n---\n", []string{"y"}},
		{"title changed", "---\ntitle: \"U\"\n---\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Verify(tt.composed, "T", tt.tags); !errors.Is(err, apperr.ErrInvalidOutput) {
				t.Errorf("err = %v, want ErrInvalidOutput", err)
			}
		})
	}
}
