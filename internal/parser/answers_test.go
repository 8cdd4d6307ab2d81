package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnswerSheet(t *testing.T) {
	sheet := ParseAnswerSheet(`参考答案
1. 答案: B
解析: 因为导数为零
且函数连续
2. C
3、Answer: A 解析: easy
`)
	require.Len(t, sheet, 3)
	assert.Equal(t, AnswerKey{Answer: "B", Explanation: "因为导数为零 且函数连续"}, sheet[1])
	assert.Equal(t, AnswerKey{Answer: "C"}, sheet[2])
	assert.Equal(t, AnswerKey{Answer: "A", Explanation: "easy"}, sheet[3])
}

func TestApplyAnswerSheet(t *testing.T) {
	drafts := Parse("1. 第一题\nA. x\nB. y\n2. 第二题\n3. 第三题\n答案: 原答案\n", Numbered)
	require.Len(t, drafts, 3)

	matched := ApplyAnswerSheet(drafts, map[int]AnswerKey{
		1: {Answer: "B", Explanation: "解析一"},
		3: {Explanation: "只有解析"},
		9: {Answer: "D"},
	})
	assert.Equal(t, 2, matched)
	assert.Equal(t, "B", drafts[0].Answer)
	assert.Equal(t, "解析一", drafts[0].Explanation)
	assert.Empty(t, drafts[1].Answer)
	assert.Equal(t, "原答案", drafts[2].Answer)
	assert.Equal(t, "只有解析", drafts[2].Explanation)
}
