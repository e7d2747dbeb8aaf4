package validation

import (
	"regexp"
	"strings"
)

var emojiRanges = [][2]rune{
	{0x1F300, 0x1FAFF}, // pictographs, emoticons, transport, supplemental symbols
	{0x1F1E6, 0x1F1FF}, // regional indicators (flags)
	{0x2600, 0x27BF},   // misc symbols, dingbats
	{0x2B00, 0x2BFF},   // arrows, stars
	{0xFE0F, 0xFE0F},   // variation selector-16
	{0x200D, 0x200D},   // zero width joiner
	{0x20E3, 0x20E3},   // combining enclosing keycap
	{0xE0020, 0xE007F}, // tag sequences
}

var repeatedBlanks = regexp.MustCompile(`[ \t]{2,}`)

func isEmoji(r rune) bool {
	for _, rg := range emojiRanges {
		if r >= rg[0] && r <= rg[1] {
			return true
		}
	}
	return false
}

// RemoveEmojis strips emoji runes and collapses the blanks they leave behind.
// Text without emojis is returned unchanged.
func RemoveEmojis(text string) string {
	removed := false
	stripped := strings.Map(func(r rune) rune {
		if isEmoji(r) {
			removed = true
			return -1
		}
		return r
	}, text)
	if !removed {
		return text
	}
	return strings.TrimSpace(repeatedBlanks.ReplaceAllString(stripped, " "))
}
