package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultSubject replaces an empty subject line.
const DefaultSubject = "Objet : Courrier administratif"

const subjectPrefix = "Objet : "

// Openers that already make a subject line formal.
var formalOpeners = []string{
	"objet",
	"contestation",
	"demande",
	"réclamation",
	"recours",
	"mise en demeure",
	"signalement",
	"saisine",
	"opposition",
	"résiliation",
}

var (
	repeatedBang     = regexp.MustCompile(`!{2,}`)
	repeatedQuestion = regexp.MustCompile(`\?{2,}`)
)

// MakeSubjectSober strips emojis and repeated punctuation, collapses
// whitespace, and prefixes "Objet : " unless the line already opens formally.
func MakeSubjectSober(objet string) string {
	s := RemoveEmojis(objet)
	s = repeatedBang.ReplaceAllString(s, "!")
	s = repeatedQuestion.ReplaceAllString(s, "?")
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return DefaultSubject
	}
	if hasFormalOpener(s) {
		return s
	}
	return subjectPrefix + s
}

func hasFormalOpener(s string) bool {
	lower := strings.ToLower(s)
	for _, opener := range formalOpeners {
		if !strings.HasPrefix(lower, opener) {
			continue
		}
		rest := lower[len(opener):]
		if rest == "" {
			return true
		}
		r, _ := utf8.DecodeRuneInString(rest)
		if !unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
