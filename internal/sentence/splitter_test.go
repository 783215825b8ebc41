package sentence

import (
	"testing"
)

func TestSplit_BasicSentences(t *testing.T) {
	text := "The Moon is Earth's only natural satellite. It orbits at an average distance of 384,400 km. Its gravitational pull produces tides."

	spans := Split(text)
	if len(spans) != 3 {
		t.Fatalf("Expected 3 sentences, got %d: %#v", len(spans), spans)
	}
	if spans[0].Text != "The Moon is Earth's only natural satellite." {
		t.Errorf("Unexpected first sentence: %q", spans[0].Text)
	}
	if spans[2].Text != "Its gravitational pull produces tides." {
		t.Errorf("Unexpected last sentence: %q", spans[2].Text)
	}
}

func TestSplit_OffsetsMatchInput(t *testing.T) {
	text := "First sentence here. Second sentence follows."

	spans := Split(text)
	if len(spans) != 2 {
		t.Fatalf("Expected 2 sentences, got %d", len(spans))
	}
	for _, sp := range spans {
		if got := text[sp.Start:sp.End]; got != sp.Text {
			t.Errorf("Offset mismatch: text[%d:%d] = %q, want %q", sp.Start, sp.End, got, sp.Text)
		}
	}
}

func TestSplit_AbbreviationNotBoundary(t *testing.T) {
	// lowercase after the dot means no sentence break
	text := "The probe weighed approx. fifty kilograms at launch."

	spans := Split(text)
	if len(spans) != 1 {
		t.Fatalf("Expected 1 sentence, got %d: %#v", len(spans), spans)
	}
}

func TestSplit_TrailingCloserAbsorbed(t *testing.T) {
	text := `He called it "a great leap." Then he left the stage.`

	spans := Split(text)
	if len(spans) != 2 {
		t.Fatalf("Expected 2 sentences, got %d: %#v", len(spans), spans)
	}
	if spans[0].Text != `He called it "a great leap."` {
		t.Errorf("Closer not absorbed: %q", spans[0].Text)
	}
}

func TestSplit_NoTerminalPunctuation(t *testing.T) {
	text := "A final fragment without terminal punctuation"

	spans := Split(text)
	if len(spans) != 1 {
		t.Fatalf("Expected 1 span, got %d", len(spans))
	}
	if spans[0].Text != text {
		t.Errorf("Unexpected span text: %q", spans[0].Text)
	}
}

func TestReject_Filters(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want bool
	}{
		{"normal sentence", "The Moon orbits the Earth.", false},
		{"too short", "Hi.", true},
		{"single word", "Moonlight.", true},
		{"dangling start until", "until the next century arrived.", true},
		{"dangling start and", "And then there were none.", true},
		{"see reference", "See also the main article.", true},
		{"media filename", "Moon_crater.jpg shown at right.", true},
		{"all caps", "NASA JPL MIT", true},
		{"retrieved line", "Retrieved 12 March 2020.", true},
		{"archived line", "Archived from the original on 1 May 2019.", true},
		{"author citation", "Smith, J., (2001) A history of lunar science.", true},
		{"mostly symbols", "=== ---- ==== %%%% ====", true},
	}

	for _, tc := range cases {
		if got := Reject(tc.in); got != tc.want {
			t.Errorf("%s: Reject(%q) = %v, want %v", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestSplit_RejectedSpansDropped(t *testing.T) {
	text := "The Moon orbits the Earth. Retrieved 12 March 2020. Its surface is cratered."

	spans := Split(text)
	if len(spans) != 2 {
		t.Fatalf("Expected 2 sentences after filtering, got %d: %#v", len(spans), spans)
	}
	if spans[1].Text != "Its surface is cratered." {
		t.Errorf("Unexpected second sentence: %q", spans[1].Text)
	}
}
