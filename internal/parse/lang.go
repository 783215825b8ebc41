package parse

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

var (
	langOnce     sync.Once
	langDetector lingua.LanguageDetector
)

// detectLanguage guesses the ISO 639-1 code of flattened article text.
// Used only when snapshot metadata carries no language; defaults to "en".
// The detector is built once since model loading is expensive.
func detectLanguage(text string) string {
	if strings.TrimSpace(text) == "" {
		return "en"
	}

	langOnce.Do(func() {
		langDetector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(
				lingua.English, lingua.German, lingua.French, lingua.Spanish,
				lingua.Portuguese, lingua.Italian, lingua.Dutch, lingua.Russian,
				lingua.Chinese, lingua.Japanese,
			).
			Build()
	})

	if lang, ok := langDetector.DetectLanguageOf(text); ok {
		return strings.ToLower(lang.IsoCode639_1().String())
	}
	return "en"
}
