// Package parser turns loosely structured Markdown / PDF text into draft question records.
//
// Parsing never fails: unrecognized lines are folded into the current field and a document
// with no recognizable question marker yields an empty result.
package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

type QuestionType string

const (
	TypeChoice  QuestionType = "CHOICE"
	TypeFill    QuestionType = "FILL"
	TypeReading QuestionType = "READING"
)

// Draft is an unpersisted question produced by Parse.
type Draft struct {
	Number      int          `json:"number,omitempty"` // ordinal captured by the question marker, 0 if none
	Content     string       `json:"content"`
	Type        QuestionType `json:"type"`
	Options     []string     `json:"options"`
	Answer      string       `json:"answer"`
	Explanation string       `json:"explanation"`
	Passage     *string      `json:"passage,omitempty"`
}

const (
	passageMinRunes       = 50
	passageHeaderMaxRunes = 60
)

var (
	answerRe         = regexp.MustCompile(`(?i)^(?:answer|答案)\s*[:：]\s*(.*)$`)
	explanationRe    = regexp.MustCompile(`(?i)^(?:explanation|解析)\s*[:：]\s*(.*)$`)
	labelRe          = regexp.MustCompile(`(?i)^(?:题目|question)\s*\d*\s*[:：]\s*(.*)$`)
	passageKeywordRe = regexp.MustCompile(`(?i)passage|reading|\btext\b|阅读|短文|文章`)
	passageHeaderRe  = regexp.MustCompile(`(?i)^(?:#{1,6}\s*)?(?:passage|part|text|reading|阅读|篇章)\s*(?:[0-9]+|[ivx]+|[一二三四五六七八九十]+)(?:[\s.:：、)）].*)?$`)
	sectionHeadingRe = regexp.MustCompile(`^#{1,6}\s*(?:(?i:part|section)\s*(?:[0-9]+|(?i:[ivx]+))?|第[一二三四五六七八九十0-9]+部分)\s*$`)
)

// Parse splits text into question blocks using the marker grammar of conv and extracts one
// Draft per block that has non-empty content. It is a pure function of its input.
func Parse(text string, conv Convention) []Draft {
	text = normalize(text)
	preamble, blocks := split(text, conv)

	var passage *string
	if p := strings.TrimSpace(preamble); p != "" && isPassage(p) {
		var acc paragraph
		for _, line := range strings.Split(p, "\n") {
			acc.feed(strings.TrimSpace(line))
		}
		s := acc.String()
		passage = &s
	}

	drafts := make([]Draft, 0, len(blocks))
	for _, blk := range blocks {
		b := &builder{}
		b.content.feed(strings.TrimSpace(blk.lead))
		for _, line := range strings.Split(blk.body, "\n") {
			b.feed(strings.TrimSpace(line))
		}
		if d, ok := b.draft(blk.number, passage); ok {
			drafts = append(drafts, d)
		}
		if !b.passage.empty() {
			next := b.passage.String()
			passage = &next
		}
	}
	return drafts
}

func normalize(text string) string {
	text = strings.ToValidUTF8(text, "�")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

func isPassage(s string) bool {
	return utf8.RuneCountInString(s) > passageMinRunes || passageKeywordRe.MatchString(s)
}

func isPassageHeader(line string) bool {
	return utf8.RuneCountInString(line) < passageHeaderMaxRunes && passageHeaderRe.MatchString(line)
}

type block struct {
	number int
	// lead is the rest of a Label marker line. It is always content, so a stem
	// that starts with an option label survives.
	lead string
	body string
}

func split(text string, conv Convention) (string, []block) {
	locs := markerLocations(text, conv)
	if len(locs) == 0 {
		return text, nil
	}
	blocks := make([]block, 0, len(locs))
	for i, m := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		n := 0
		if m[2] >= 0 && m[3] > m[2] {
			n, _ = strconv.Atoi(text[m[2]:m[3]])
		}
		blk := block{number: n, body: text[m[1]:end]}
		if conv == Label {
			if nl := strings.IndexByte(blk.body, '\n'); nl >= 0 {
				blk.lead, blk.body = blk.body[:nl], blk.body[nl+1:]
			} else {
				blk.lead, blk.body = blk.body, ""
			}
		}
		blocks = append(blocks, blk)
	}
	return text[:locs[0][0]], blocks
}

type state int

const (
	inContent state = iota
	inOptions
	inAnswer
	inExplanation
	inPassage
)

// builder accumulates the fields of one block. Roles are tried in the fixed order
// option > answer > explanation-start > passage-header > content.
// Once options have started, an unrecognized line continues the last option, so stem
// text placed after the options ("A. 1\nB. 2\nWhich one?") ends up in option B.
type builder struct {
	state       state
	content     paragraph
	explanation paragraph
	passage     paragraph
	options     []string
	answer      string
}

func (b *builder) feed(line string) {
	if b.state == inPassage {
		b.passage.feed(line)
		return
	}
	if line == "" {
		switch b.state {
		case inContent:
			b.content.feed(line)
		case inExplanation:
			b.explanation.feed(line)
		}
		return
	}

	if b.state == inContent || b.state == inOptions {
		if opts := SplitOptions(line); len(opts) > 0 {
			b.options = append(b.options, opts...)
			b.state = inOptions
			return
		}
	}
	if m := answerRe.FindStringSubmatch(line); m != nil {
		b.answer = strings.TrimSpace(m[1])
		b.state = inAnswer
		return
	}
	if m := explanationRe.FindStringSubmatch(line); m != nil {
		b.state = inExplanation
		b.explanation.feed(strings.TrimSpace(m[1]))
		return
	}
	if !b.content.empty() && isPassageHeader(line) {
		b.state = inPassage
		b.passage.feed(line)
		return
	}

	switch b.state {
	case inExplanation:
		b.explanation.feed(line)
	case inOptions:
		// wrapped option text
		b.options[len(b.options)-1] += " " + line
	case inAnswer:
		// answers are single-line
	default:
		if sectionHeadingRe.MatchString(line) {
			return
		}
		if m := labelRe.FindStringSubmatch(line); m != nil {
			line = strings.TrimSpace(m[1])
		}
		b.content.feed(line)
	}
}

func (b *builder) draft(number int, passage *string) (Draft, bool) {
	content := b.content.String()
	if content == "" {
		return Draft{}, false
	}
	d := Draft{
		Number:      number,
		Content:     content,
		Options:     make([]string, len(b.options)),
		Answer:      b.answer,
		Explanation: b.explanation.String(),
	}
	copy(d.Options, b.options)
	if passage != nil {
		p := *passage
		d.Passage = &p
	}
	d.Type = TypeFor(d.Options, d.Passage)
	return d, true
}

// TypeFor classifies a question: CHOICE iff it has options, READING when it only carries a
// passage, FILL otherwise.
func TypeFor(options []string, passage *string) QuestionType {
	switch {
	case len(options) > 0:
		return TypeChoice
	case passage != nil:
		return TypeReading
	default:
		return TypeFill
	}
}

// paragraph joins lines with newlines. A run of blank lines between two non-blank lines
// collapses to a single empty line; leading and trailing blanks are dropped.
type paragraph struct {
	lines []string
	gap   bool
}

func (p *paragraph) feed(line string) {
	if line == "" {
		if len(p.lines) > 0 {
			p.gap = true
		}
		return
	}
	if p.gap {
		p.lines = append(p.lines, "")
		p.gap = false
	}
	p.lines = append(p.lines, line)
}

func (p *paragraph) empty() bool { return len(p.lines) == 0 }

func (p *paragraph) String() string { return strings.Join(p.lines, "\n") }
