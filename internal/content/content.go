// Package content derives post metadata from titles and markdown bodies.
package content

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultExcerptLength is the excerpt size used when a post has none.
const DefaultExcerptLength = 160

const wordsPerMinute = 200

var (
	headerRe   = regexp.MustCompile(`#{1,6}\s`)
	boldRe     = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe   = regexp.MustCompile(`\*(.+?)\*`)
	linkRe     = regexp.MustCompile(`\[(.+?)\]\(.+?\)`)
	codeRe     = regexp.MustCompile("`(.+?)`")
	newlinesRe = regexp.MustCompile(`\n+`)

	slugStripRe  = regexp.MustCompile(`[^\w\s-]`)
	slugSpaceRe  = regexp.MustCompile(`\s+`)
	slugHyphenRe = regexp.MustCompile(`-+`)
)

// Slugify lowercases title and reduces it to hyphen separated word characters.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugStripRe.ReplaceAllString(s, "")
	s = slugSpaceRe.ReplaceAllString(s, "-")
	s = slugHyphenRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// PlainText strips the common inline markdown syntax and folds newlines.
func PlainText(markdown string) string {
	s := headerRe.ReplaceAllString(markdown, "")
	s = boldRe.ReplaceAllString(s, "$1")
	s = italicRe.ReplaceAllString(s, "$1")
	s = linkRe.ReplaceAllString(s, "$1")
	s = codeRe.ReplaceAllString(s, "$1")
	s = newlinesRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Excerpt returns at most maxLength runes of the post's plain text, with "..."
// appended when the text was cut.
func Excerpt(markdown string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultExcerptLength
	}
	plain := PlainText(markdown)
	if utf8.RuneCountInString(plain) <= maxLength {
		return plain
	}
	runes := []rune(plain)
	return string(runes[:maxLength]) + "..."
}

// ReadingTime estimates minutes to read markdown at 200 words per minute.
func ReadingTime(markdown string) int {
	words := len(strings.Fields(markdown))
	if words == 0 {
		return 0
	}
	return int(math.Ceil(float64(words) / wordsPerMinute))
}
