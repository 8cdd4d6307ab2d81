package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Convention selects the question-start marker grammar for one Parse call.
type Convention int

const (
	// Bold splits on "**题目 N**" / "**Question N**".
	Bold Convention = iota + 1
	// Heading splits on Markdown headings that carry an ordinal, "## N.".
	Heading
	// Numbered splits on a bare ordinal at line start, "N." or "N、", as produced by PDF text.
	Numbered
	// Label splits on "题目:" / "Question:" labels.
	Label
)

// detectOrder is the precedence used by Detect.
var detectOrder = []Convention{Bold, Heading, Numbered, Label}

var markers = map[Convention]*regexp.Regexp{
	Bold:     regexp.MustCompile(`\*\*[ \t]*(?i:题目|question)[ \t]*(\d+)[ \t]*\*\*`),
	Heading:  regexp.MustCompile(`(?m)^[ \t]*#{1,6}[ \t]*(\d+)[ \t]*[.．、]`),
	Numbered: regexp.MustCompile(`(?m)^[ \t]*(\d+)[ \t]*[.．、]`),
	Label:    regexp.MustCompile(`(?m)^[ \t]*(?i:题目|question)[ \t]*(\d*)[ \t]*[:：]`),
}

var conventionNames = map[Convention]string{
	Bold:     "bold",
	Heading:  "heading",
	Numbered: "numbered",
	Label:    "label",
}

func (c Convention) String() string {
	if name, ok := conventionNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseConvention maps a convention name ("bold", "heading", "numbered", "label") to its value.
func ParseConvention(name string) (Convention, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range conventionNames {
		if n == name {
			return c, true
		}
	}
	return 0, false
}

// Detect reports the first convention, in precedence order, whose marker occurs in text.
func Detect(text string) (Convention, bool) {
	text = normalize(text)
	for _, c := range detectOrder {
		if len(markerLocations(text, c)) > 0 {
			return c, true
		}
	}
	return 0, false
}

// markerLocations returns submatch index pairs for every accepted marker of conv.
// Ordinals immediately followed by a digit ("3.14") are not markers.
func markerLocations(text string, conv Convention) [][]int {
	re, ok := markers[conv]
	if !ok {
		return nil
	}
	all := re.FindAllStringSubmatchIndex(text, -1)
	if conv != Numbered && conv != Heading {
		return all
	}
	locs := all[:0]
	for _, m := range all {
		if m[1] < len(text) && text[m[1]] >= '0' && text[m[1]] <= '9' {
			continue
		}
		locs = append(locs, m)
	}
	return locs
}

var optionLabelRe = regexp.MustCompile(`[(（]([A-D])[)）][ \t]*[.．、]?|([A-D])[ \t]*[.．、]`)

// SplitOptions recognizes a line that starts with an option label (A–D) and splits it into one
// entry per label. A later label only starts a new option when it follows whitespace and is the
// next letter after the previous label, so "A. 0　B. 1　C. 2　D. 3" yields four options.
// It returns nil when the line does not start with a label.
func SplitOptions(line string) []string {
	line = strings.TrimSpace(line)
	locs := optionLabelRe.FindAllStringSubmatchIndex(line, -1)
	if len(locs) == 0 || locs[0][0] != 0 {
		return nil
	}

	cuts := []int{0}
	prev := labelLetter(line, locs[0])
	for _, m := range locs[1:] {
		letter := labelLetter(line, m)
		if letter != prev+1 || !followsSpace(line, m[0]) {
			continue
		}
		cuts = append(cuts, m[0])
		prev = letter
	}

	opts := make([]string, 0, len(cuts))
	for i, start := range cuts {
		end := len(line)
		if i+1 < len(cuts) {
			end = cuts[i+1]
		}
		if opt := strings.TrimSpace(line[start:end]); opt != "" {
			opts = append(opts, opt)
		}
	}
	return opts
}

func labelLetter(line string, m []int) byte {
	if m[2] >= 0 {
		return line[m[2]]
	}
	return line[m[4]]
}

func followsSpace(line string, i int) bool {
	r, _ := utf8.DecodeLastRuneInString(line[:i])
	return unicode.IsSpace(r)
}
