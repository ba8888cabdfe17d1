// Package langdetect identifies the language of source text so the pipeline
// can flag input that is not Indonesian.
package langdetect

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pemistahl/lingua-go"
)

// maxSampleRunes bounds how much text is scored; detection on a few thousand
// characters is as accurate as on a whole document.
const maxSampleRunes = 4000

// candidates are the languages source text is realistically written in.
// Malay and Tagalog are included so close relatives of Indonesian are told apart.
var candidates = []lingua.Language{
	lingua.Indonesian,
	lingua.Malay,
	lingua.Tagalog,
	lingua.English,
	lingua.Arabic,
	lingua.Dutch,
}

// Detector wraps a lingua detector that is built on first use.
type Detector struct {
	once     sync.Once
	detector lingua.LanguageDetector
}

// New returns a Detector. The models load on the first Detect call.
func New() *Detector {
	return &Detector{}
}

// Detect returns the ISO 639-1 code ("id", "en", "ar", ...) of text, or
// ok=false when the text is too short or ambiguous to call.
func (d *Detector) Detect(text string) (code string, ok bool) {
	text = sample(strings.TrimSpace(text))
	if text == "" {
		return "", false
	}

	d.once.Do(func() {
		d.detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(candidates...).
			WithMinimumRelativeDistance(0.1).
			Build()
	})

	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}

func sample(text string) string {
	if utf8.RuneCountInString(text) <= maxSampleRunes {
		return text
	}
	n := 0
	for i := range text {
		if n == maxSampleRunes {
			return text[:i]
		}
		n++
	}
	return text
}
