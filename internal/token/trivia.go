package token

import "macrofront/internal/source"

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	TriviaDocLine
)

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

// DocLines returns the text of leading `///` comments with the marker stripped.
func DocLines(leading []Trivia) []string {
	var out []string
	for _, tv := range leading {
		if tv.Kind != TriviaDocLine {
			continue
		}
		text := tv.Text
		if len(text) >= 3 {
			text = text[3:]
		}
		if len(text) > 0 && text[0] == ' ' {
			text = text[1:]
		}
		out = append(out, text)
	}
	return out
}
