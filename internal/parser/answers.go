package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// AnswerKey is one entry of a separately supplied answer sheet.
type AnswerKey struct {
	Answer      string
	Explanation string
}

var (
	sheetNumberRe     = regexp.MustCompile(`^(\d+)[ \t]*[.．、]\s*(.*)$`)
	sheetBareAnswerRe = regexp.MustCompile(`^[A-D]+$`)
	sheetAnswerRe     = regexp.MustCompile(`(?i)(?:答案|answer)\s*[:：]\s*(\S+)`)
	sheetExplainRe    = regexp.MustCompile(`(?i)(?:解析|explanation)\s*[:：]\s*(.*)$`)
)

// ParseAnswerSheet reads an answer sheet where every entry starts with the question ordinal
// ("12." / "12、") followed by an answer marker, a bare option letter, or an explanation.
func ParseAnswerSheet(text string) map[int]AnswerKey {
	sheet := make(map[int]AnswerKey)
	current := 0
	var key AnswerKey
	var explanation []string

	flush := func() {
		if current == 0 {
			return
		}
		key.Explanation = strings.Join(explanation, " ")
		sheet[current] = key
	}

	for _, raw := range strings.Split(normalize(text), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		rest := line
		if m := sheetNumberRe.FindStringSubmatch(line); m != nil {
			flush()
			current, _ = strconv.Atoi(m[1])
			key = AnswerKey{}
			explanation = nil
			rest = strings.TrimSpace(m[2])
			if sheetBareAnswerRe.MatchString(rest) {
				key.Answer = rest
				continue
			}
		}
		if current == 0 {
			continue
		}
		if m := sheetAnswerRe.FindStringSubmatch(rest); m != nil {
			key.Answer = m[1]
		}
		if m := sheetExplainRe.FindStringSubmatch(rest); m != nil {
			explanation = []string{strings.TrimSpace(m[1])}
			continue
		}
		if len(explanation) > 0 && sheetAnswerRe.FindStringIndex(rest) == nil {
			explanation = append(explanation, rest)
		}
	}
	flush()
	return sheet
}

// ApplyAnswerSheet copies answers and explanations onto drafts with a matching Number and
// returns how many drafts were matched. Empty sheet fields leave the draft untouched.
func ApplyAnswerSheet(drafts []Draft, sheet map[int]AnswerKey) int {
	matched := 0
	for i := range drafts {
		key, ok := sheet[drafts[i].Number]
		if !ok || drafts[i].Number == 0 {
			continue
		}
		matched++
		if key.Answer != "" {
			drafts[i].Answer = key.Answer
		}
		if key.Explanation != "" {
			drafts[i].Explanation = key.Explanation
		}
	}
	return matched
}
