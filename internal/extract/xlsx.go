package extract

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lshigami/examprep/internal/parser"
	"github.com/xuri/excelize/v2"
)

var ErrMissingContentColumn = errors.New("spreadsheet has no question content column")

type column int

const (
	colContent column = iota
	colOptions
	colAnswer
	colExplanation
	colPassage
	colOptionLetter // one column per option, e.g. "A" or "选项A"
)

var headerAliases = map[string]column{
	"content":     colContent,
	"question":    colContent,
	"题目":          colContent,
	"题干":          colContent,
	"options":     colOptions,
	"选项":          colOptions,
	"answer":      colAnswer,
	"答案":          colAnswer,
	"explanation": colExplanation,
	"解析":          colExplanation,
	"passage":     colPassage,
	"文章":          colPassage,
	"材料":          colPassage,
}

type layout struct {
	index   map[column]int
	letters []int // option-per-column indexes in A, B, C ... order
}

func detectLayout(header []string) (layout, error) {
	l := layout{index: map[column]int{}}
	letterCols := map[byte]int{}
	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		if col, ok := headerAliases[name]; ok {
			if _, dup := l.index[col]; !dup {
				l.index[col] = i
			}
			continue
		}
		name = strings.TrimPrefix(strings.TrimPrefix(name, "option"), "选项")
		name = strings.TrimSpace(name)
		if len(name) == 1 && name[0] >= 'a' && name[0] <= 'h' {
			letterCols[name[0]] = i
		}
	}
	for c := byte('a'); c <= 'h'; c++ {
		idx, ok := letterCols[c]
		if !ok {
			break
		}
		l.letters = append(l.letters, idx)
	}
	if _, ok := l.index[colContent]; !ok {
		return l, ErrMissingContentColumn
	}
	return l, nil
}

func (l layout) cell(row []string, col column) string {
	idx, ok := l.index[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// splitOptionCell accepts one option per line or several labelled options on a line.
func splitOptionCell(cell string) []string {
	var options []string
	for _, line := range strings.Split(strings.ReplaceAll(cell, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if parts := parser.SplitOptions(line); len(parts) > 0 {
			options = append(options, parts...)
			continue
		}
		options = append(options, line)
	}
	return options
}

// SpreadsheetDrafts reads the first sheet of an .xlsx workbook. The first row is a header
// naming the columns; rows without content are skipped.
func SpreadsheetDrafts(r io.Reader) ([]parser.Draft, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyDocument
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptyDocument
	}

	l, err := detectLayout(rows[0])
	if err != nil {
		return nil, err
	}

	drafts := make([]parser.Draft, 0, len(rows)-1)
	for i, row := range rows[1:] {
		content := l.cell(row, colContent)
		if content == "" {
			continue
		}
		d := parser.Draft{
			Number:      i + 1,
			Content:     content,
			Options:     splitOptionCell(l.cell(row, colOptions)),
			Answer:      l.cell(row, colAnswer),
			Explanation: l.cell(row, colExplanation),
		}
		for n, idx := range l.letters {
			if idx < len(row) && strings.TrimSpace(row[idx]) != "" {
				d.Options = append(d.Options, fmt.Sprintf("%c. %s", 'A'+n, strings.TrimSpace(row[idx])))
			}
		}
		if d.Options == nil {
			d.Options = []string{}
		}
		if passage := l.cell(row, colPassage); passage != "" {
			d.Passage = &passage
		}
		d.Type = parser.TypeFor(d.Options, d.Passage)
		drafts = append(drafts, d)
	}
	return drafts, nil
}
