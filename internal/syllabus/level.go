package syllabus

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Level is an achievement level ordinal. Zero is the lowest level defined by
// the syllabus; a higher value always means "at least" every lower one.
type Level int

// NoLevel marks a raw achievement that did not parse to any known level.
const NoLevel Level = -1

// LevelDef describes one achievement level.
type LevelDef struct {
	Key     string   // short key used in module codes, e.g. "basic", "1"
	Label   string   // label as recorded in achievement records, e.g. "1 Star"
	Aliases []string // alternative spellings, e.g. "1*"
}

// ParseLevel resolves a free-text achievement label to a Level.
// Matching is case-insensitive and looks for the label or any alias as a
// whole word inside the trimmed text, trying the highest level first. A
// match directly after "not" or "no" does not count. Empty or unrecognized
// text returns (NoLevel, false).
func (s *Syllabus) ParseLevel(raw string) (Level, bool) {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return NoLevel, false
	}
	for i := len(s.levels) - 1; i >= 0; i-- {
		def := s.levels[i]
		if mentions(text, strings.ToLower(def.Label)) {
			return Level(i), true
		}
		for _, alias := range def.Aliases {
			if alias != "" && mentions(text, strings.ToLower(alias)) {
				return Level(i), true
			}
		}
	}
	return NoLevel, false
}

// mentions reports whether label occurs in text as a whole word that is not
// negated.
func mentions(text, label string) bool {
	for from := 0; from < len(text); {
		i := strings.Index(text[from:], label)
		if i < 0 {
			return false
		}
		start, end := from+i, from+i+len(label)
		if wordEdge(text, start, end) && !negated(text[:start]) {
			return true
		}
		from = start + 1
	}
	return false
}

func wordEdge(text string, start, end int) bool {
	if r, _ := utf8.DecodeLastRuneInString(text[:start]); start > 0 && isWordRune(r) {
		return false
	}
	if r, _ := utf8.DecodeRuneInString(text[end:]); end < len(text) && isWordRune(r) {
		return false
	}
	return true
}

func negated(before string) bool {
	words := strings.Fields(before)
	if len(words) == 0 {
		return false
	}
	switch words[len(words)-1] {
	case "not", "no":
		return true
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// LevelByKey returns the level with the given module-code key.
func (s *Syllabus) LevelByKey(key string) (Level, bool) {
	l, ok := s.levelByKey[key]
	return l, ok
}

// LevelLabel returns the display label for a level, e.g. "2 Star".
func (s *Syllabus) LevelLabel(l Level) string {
	if l < 0 || int(l) >= len(s.levels) {
		return "?"
	}
	return s.levels[l].Label
}

// LevelKey returns the module-code key for a level, e.g. "basic".
func (s *Syllabus) LevelKey(l Level) string {
	if l < 0 || int(l) >= len(s.levels) {
		return "?"
	}
	return s.levels[l].Key
}

// TopLevel returns the highest defined level.
func (s *Syllabus) TopLevel() Level {
	return Level(len(s.levels) - 1)
}
