package validation

import (
	"regexp"
	"strings"
)

// ParagraphCount is the number of paragraphs every letter body carries.
const ParagraphCount = 4

var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

// Filler for each position left empty by the producer.
var paragraphFillers = [ParagraphCount]string{
	"Madame, Monsieur,",
	"Je vous expose ci-dessous les éléments de ma situation, pièces justificatives à l'appui.",
	"Je vous remercie de bien vouloir examiner ma demande avec attention et de me faire connaître votre décision dans les meilleurs délais.",
	"Je vous prie d'agréer, Madame, Monsieur, l'expression de mes salutations distinguées.",
}

// SplitParagraphs splits on blank-line boundaries and drops empty paragraphs.
func SplitParagraphs(text string) []string {
	var out []string
	for _, p := range paragraphBreak.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// EnsureFourParagraphs returns corps with exactly four non-empty paragraphs
// separated by a blank line. Missing positions get their filler; paragraphs
// past the third are merged into the fourth.
func EnsureFourParagraphs(corps string) string {
	paragraphs := SplitParagraphs(corps)

	if len(paragraphs) > ParagraphCount {
		merged := strings.Join(paragraphs[ParagraphCount-1:], " ")
		paragraphs = append(paragraphs[:ParagraphCount-1:ParagraphCount-1], merged)
	}
	for len(paragraphs) < ParagraphCount {
		paragraphs = append(paragraphs, paragraphFillers[len(paragraphs)])
	}
	return strings.Join(paragraphs, "\n\n")
}
