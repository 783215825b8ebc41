package textutil

import (
	"reflect"
	"testing"
)

func TestStripComments(t *testing.T) {
	in := "before <!-- hidden\nacross lines --> after"
	if got := StripComments(in); got != "before  after" {
		t.Errorf("StripComments = %q", got)
	}
}

func TestStripTemplates_Nested(t *testing.T) {
	in := "text {{outer|{{inner|x}}|y}} more"
	if got := StripTemplates(in); got != "text  more" {
		t.Errorf("StripTemplates = %q", got)
	}
}

func TestStripTemplates_UnterminatedLeftAlone(t *testing.T) {
	in := "text {{broken template"
	if got := StripTemplates(in); got != in {
		t.Errorf("Unterminated template was mangled: %q", got)
	}
}

func TestMatchBraces(t *testing.T) {
	s := "{{a|{{b}}}} rest"
	end, ok := MatchBraces(s, 0)
	if !ok {
		t.Fatal("Expected match")
	}
	if s[:end] != "{{a|{{b}}}}" {
		t.Errorf("Matched %q", s[:end])
	}
}

func TestExtractTemplate(t *testing.T) {
	s := "{{Short description|x}} {{Infobox planet|image=Moon.jpg}} text"
	body, start, ok := ExtractTemplate(s, "infobox")
	if !ok {
		t.Fatal("Expected to find infobox")
	}
	if body != "Infobox planet|image=Moon.jpg" {
		t.Errorf("Body = %q", body)
	}
	if s[start:start+2] != "{{" {
		t.Errorf("Start offset %d does not point at an opener", start)
	}
}

func TestMatchBrackets_Nested(t *testing.T) {
	s := "[[File:Moon.jpg|thumb|the [[Moon]] seen from orbit]] after"
	end, ok := MatchBrackets(s, 0)
	if !ok {
		t.Fatal("Expected match")
	}
	if s[end:] != " after" {
		t.Errorf("Remainder = %q", s[end:])
	}
}

func TestSplitTopLevel(t *testing.T) {
	in := "File:Moon.jpg|thumb|caption with [[a|b]] link|alt=The Moon"
	got := SplitTopLevel(in, '|')
	want := []string{"File:Moon.jpg", "thumb", "caption with [[a|b]] link", "alt=The Moon"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitTopLevel = %#v", got)
	}
}

func TestStripExternalLinks(t *testing.T) {
	cases := []struct{ in, want string }{
		{"see [https://example.com the site] now", "see the site now"},
		{"bare [https://example.com] link", "bare  link"},
		{"no links here", "no links here"},
	}
	for _, tc := range cases {
		if got := StripExternalLinks(tc.in); got != tc.want {
			t.Errorf("StripExternalLinks(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStripMarkupQuotes(t *testing.T) {
	in := "'''The Moon''' is ''Earth's'' satellite"
	if got := StripMarkupQuotes(in); got != "The Moon is Earth's satellite" {
		t.Errorf("StripMarkupQuotes = %q", got)
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("The Moon's radius is 1,737 km (well-known).")
	want := []string{"the", "moon", "s", "radius", "is", "1", "737", "km", "well-known"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %#v", got)
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	if got := NormalizeWhitespace("  a\t b\n\nc  "); got != "a b c" {
		t.Errorf("NormalizeWhitespace = %q", got)
	}
}

func TestAlnumRatio(t *testing.T) {
	if r := AlnumRatio("abc def"); r != 1.0 {
		t.Errorf("All-letter ratio = %f", r)
	}
	if r := AlnumRatio("=== === ==="); r != 0.0 {
		t.Errorf("All-symbol ratio = %f", r)
	}
	if r := AlnumRatio(""); r != 0.0 {
		t.Errorf("Empty ratio = %f", r)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Physical characteristics", "physical-characteristics"},
		{"  Early life & career  ", "early-life-career"},
		{"Moon.jpg", "moon-jpg"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStripHTML(t *testing.T) {
	in := `<p>The Moon is <b>bright</b>.</p><script>alert(1)</script>`
	got := StripHTML(in)
	if got != "The Moon is bright." {
		t.Errorf("StripHTML = %q", got)
	}
}
