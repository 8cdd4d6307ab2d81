package service

import (
	"sort"
	"strings"
	"unicode"

	"github.com/lshigami/examprep/internal/model"
)

// gradeAnswer compares a submitted answer with the stored one. It returns nil when the
// question has no stored answer to grade against.
func gradeAnswer(q *model.Question, userAnswer string) *bool {
	expected := strings.TrimSpace(q.Answer)
	if expected == "" {
		return nil
	}
	correct := normalizeText(expected) == normalizeText(userAnswer)
	if key := choiceKey(expected); q.Type == model.QuestionTypeChoice && key != "" {
		correct = key == choiceKey(userAnswer)
	}
	return &correct
}

// choiceKey reduces "A, C" / "ca" / "(A)(C)" to "AC". Anything other than option letters and
// separators yields "".
func choiceKey(s string) string {
	var letters []rune
	seen := map[rune]bool{}
	for _, r := range strings.ToUpper(s) {
		switch {
		case r >= 'A' && r <= 'H':
			if !seen[r] {
				seen[r] = true
				letters = append(letters, r)
			}
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return ""
		}
	}
	sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })
	return string(letters)
}

func normalizeText(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
