package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const boldDoc = `# 2023 高数模拟

**题目 1**
题目：设 $f(x)=x^2$，求 $f'(1)$。
A. 0
B. 1
C. 2
D. 3
答案：C
解析：$f'(x)=2x$，
所以 $f'(1)=2$。

**题目 2**
计算 \(\int_0^1 x\,dx\)。
Answer: 1/2
Explanation: 直接积分。

**题目 3**
Which word is a noun?
A. run　B. table　C. quickly　D. blue
答案: B
`

func TestParseBoldRoundTrip(t *testing.T) {
	drafts := Parse(boldDoc, Bold)
	require.Len(t, drafts, 3)

	assert.Equal(t, 1, drafts[0].Number)
	assert.Equal(t, "设 $f(x)=x^2$，求 $f'(1)$。", drafts[0].Content)
	assert.Equal(t, []string{"A. 0", "B. 1", "C. 2", "D. 3"}, drafts[0].Options)
	assert.Equal(t, "C", drafts[0].Answer)
	assert.Equal(t, "$f'(x)=2x$，\n所以 $f'(1)=2$。", drafts[0].Explanation)
	assert.Equal(t, TypeChoice, drafts[0].Type)

	assert.Equal(t, `计算 \(\int_0^1 x\,dx\)。`, drafts[1].Content)
	assert.Equal(t, TypeFill, drafts[1].Type)
	assert.Empty(t, drafts[1].Options)
	assert.Equal(t, "1/2", drafts[1].Answer)
	assert.Equal(t, "直接积分。", drafts[1].Explanation)

	assert.Equal(t, []string{"A. run", "B. table", "C. quickly", "D. blue"}, drafts[2].Options)
	assert.Nil(t, drafts[2].Passage, "short preamble heading is not a passage")
}

func TestParseIsIdempotent(t *testing.T) {
	assert.Equal(t, Parse(boldDoc, Bold), Parse(boldDoc, Bold))
}

func TestParseClassificationInvariant(t *testing.T) {
	docs := []struct {
		text string
		conv Convention
	}{
		{boldDoc, Bold},
		{readingDoc, Numbered},
		{"## 1. 填空\n答案: 3\n## 2. 选择\nA. x\nB. y", Heading},
		{"题目: 1+1=?\nA. 1 B. 2\n题目: 2+2=?\n答案: 4", Label},
	}
	for _, doc := range docs {
		for _, d := range Parse(doc.text, doc.conv) {
			assert.NotEmpty(t, d.Content)
			assert.Equal(t, d.Type == TypeChoice, len(d.Options) > 0, "draft %q", d.Content)
		}
	}
}

const readingDoc = `Reading Comprehension

In 1969, two astronauts walked on the Moon while a third orbited above them.
The mission changed how people thought about exploration.

1. When did the landing happen?
A. 1959
B. 1969
答案: B
2. How many astronauts walked on the Moon?
答案: two
3. What changed?
A. Exploration B. Cooking
答案: A
`

func TestParsePassagePropagation(t *testing.T) {
	drafts := Parse(readingDoc, Numbered)
	require.Len(t, drafts, 3)

	require.NotNil(t, drafts[0].Passage)
	assert.True(t, strings.HasPrefix(*drafts[0].Passage, "Reading Comprehension\n\nIn 1969"))
	for _, d := range drafts[1:] {
		require.NotNil(t, d.Passage)
		assert.Equal(t, *drafts[0].Passage, *d.Passage)
	}
	assert.Equal(t, TypeChoice, drafts[0].Type)
	assert.Equal(t, TypeReading, drafts[1].Type, "passage question without options")
	assert.Equal(t, []string{"A. Exploration", "B. Cooking"}, drafts[2].Options)
}

func TestParsePassageHeaderStartsNewPassage(t *testing.T) {
	doc := `Text 1
Cats sleep for most of the day and hunt at night, which keeps them lean and alert.

1. When do cats hunt?
答案: at night
Text 2
Dogs were domesticated thousands of years ago.
2. What were dogs?
答案: domesticated
`
	drafts := Parse(doc, Numbered)
	require.Len(t, drafts, 2)

	require.NotNil(t, drafts[0].Passage)
	assert.Contains(t, *drafts[0].Passage, "Cats sleep")
	assert.NotContains(t, *drafts[0].Passage, "Dogs")
	assert.Equal(t, "When do cats hunt?", drafts[0].Content)
	assert.Equal(t, "at night", drafts[0].Answer)

	require.NotNil(t, drafts[1].Passage)
	assert.Equal(t, "Text 2\nDogs were domesticated thousands of years ago.", *drafts[1].Passage)
}

func TestParsePassageHeaderNeedsContent(t *testing.T) {
	doc := "**题目 1**\nPart 1\n是什么？\n答案: x\n"
	drafts := Parse(doc, Bold)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Part 1\n是什么？", drafts[0].Content)
	assert.Nil(t, drafts[0].Passage)
}

func TestParseMultipleOptionsOnOneLine(t *testing.T) {
	drafts := Parse("**题目 1**\n下列哪个最大？\nA. 0　B. 1　C. 2　D. 3\n", Bold)
	require.Len(t, drafts, 1)
	require.Len(t, drafts[0].Options, 4)
	for i, opt := range drafts[0].Options {
		assert.True(t, strings.HasPrefix(opt, string(rune('A'+i))), opt)
	}
}

func TestParseDropsBlockWithoutContent(t *testing.T) {
	doc := "**题目 1**\nA. 1\nB. 2\n答案: A\n**题目 2**\n真正的题干\n答案: x\n"
	drafts := Parse(doc, Bold)
	require.Len(t, drafts, 1)
	assert.Equal(t, 2, drafts[0].Number)
	assert.Equal(t, "真正的题干", drafts[0].Content)
}

func TestParseLetterLabelledStem(t *testing.T) {
	unlabelled := Parse("**题目 1**\nA. Smith's theorem holds for which n?\n答案: 2\n", Bold)
	assert.Empty(t, unlabelled, "a leading option label is always an option")

	labelled := Parse("**题目 1**\n题目: A. Smith's theorem holds for which n?\n答案: 2\n", Bold)
	require.Len(t, labelled, 1)
	assert.Equal(t, "A. Smith's theorem holds for which n?", labelled[0].Content)
	assert.Equal(t, TypeFill, labelled[0].Type)

	byLabel := Parse("题目: A. Smith's theorem holds for which n?\n答案: 2\n题目: Second\n答案: x\n", Label)
	require.Len(t, byLabel, 2)
	assert.Equal(t, "A. Smith's theorem holds for which n?", byLabel[0].Content)
	assert.Empty(t, byLabel[0].Options)
	assert.Equal(t, "2", byLabel[0].Answer)
	assert.Equal(t, "Second", byLabel[1].Content)

	withOptions := Parse("Question 3: A. B. C. D. Which label is missing?\nA. none\nB. E\n", Label)
	require.Len(t, withOptions, 1)
	assert.Equal(t, 3, withOptions[0].Number)
	assert.Equal(t, "A. B. C. D. Which label is missing?", withOptions[0].Content)
	assert.Equal(t, []string{"A. none", "B. E"}, withOptions[0].Options)
}

func TestParseOptionsAfterAnswerAreNotOptions(t *testing.T) {
	doc := "**题目 1**\n题干\n答案: B\nA. late option\n解析: 说明\nB. part of explanation\n"
	drafts := Parse(doc, Bold)
	require.Len(t, drafts, 1)
	assert.Empty(t, drafts[0].Options)
	assert.Equal(t, TypeFill, drafts[0].Type)
	assert.Equal(t, "说明\nB. part of explanation", drafts[0].Explanation)
}

func TestParseParagraphBreaks(t *testing.T) {
	doc := "## 1. 阅读下面的材料\n\n第一段。\n\n\n\n第二段。\n解析: 一\n\n\n二\n"
	drafts := Parse(doc, Heading)
	require.Len(t, drafts, 1)
	assert.Equal(t, "阅读下面的材料\n\n第一段。\n\n第二段。", drafts[0].Content)
	assert.Equal(t, "一\n\n二", drafts[0].Explanation)
}

func TestParseSectionHeadings(t *testing.T) {
	// before any content a bare heading is noise
	drafts := Parse("题目:\n## Part I\n题干\n", Label)
	require.Len(t, drafts, 1)
	assert.Equal(t, "题干", drafts[0].Content)

	// after content the same line opens a passage for the next question
	drafts = Parse("题目: 第一题\n## Part I\n新的短文\n题目: 第二题\n", Label)
	require.Len(t, drafts, 2)
	assert.Equal(t, "第一题", drafts[0].Content)
	assert.Nil(t, drafts[0].Passage)
	require.NotNil(t, drafts[1].Passage)
	assert.Equal(t, "## Part I\n新的短文", *drafts[1].Passage)
	assert.Equal(t, TypeReading, drafts[1].Type)
}

func TestParseWrappedOptionContinues(t *testing.T) {
	drafts := Parse("1. 题干\nA. first half\nsecond half\nB. other\n", Numbered)
	require.Len(t, drafts, 1)
	assert.Equal(t, []string{"A. first half second half", "B. other"}, drafts[0].Options)

	// stem text written after the options is read as option text
	drafts = Parse("1. 1+1\nA. 1\nB. 2\nWhich one?\n答案: B\n", Numbered)
	require.Len(t, drafts, 1)
	assert.Equal(t, "1+1", drafts[0].Content)
	assert.Equal(t, []string{"A. 1", "B. 2 Which one?"}, drafts[0].Options)
	assert.Equal(t, "B", drafts[0].Answer)
}

func TestParseNumberedSkipsDecimals(t *testing.T) {
	drafts := Parse("1. 圆周率约为\n3.14 是近似值\n2. 下一题\n", Numbered)
	require.Len(t, drafts, 2)
	assert.Equal(t, "圆周率约为\n3.14 是近似值", drafts[0].Content)
}

func TestParseMalformedInput(t *testing.T) {
	inputs := []string{
		"",
		"   \n\n  ",
		"no markers at all",
		"\x00\xff\xfe garbage \x80",
		"**题目 1**",
		"**题目 1**\n\n\n",
	}
	for _, in := range inputs {
		for _, conv := range detectOrder {
			assert.NotPanics(t, func() {
				assert.Empty(t, Parse(in, conv))
			})
		}
	}
}

func TestDetect(t *testing.T) {
	cases := []struct {
		text string
		want Convention
		ok   bool
	}{
		{boldDoc, Bold, true},
		{"## 1. a\n## 2. b", Heading, true},
		{"1. a\n2、b", Numbered, true},
		{"Question: a\nQuestion: b", Label, true},
		{"nothing here", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := Detect(c.text)
		assert.Equal(t, c.ok, ok, c.text)
		assert.Equal(t, c.want, got, c.text)
	}
}

func TestParseConvention(t *testing.T) {
	c, ok := ParseConvention(" Heading ")
	assert.True(t, ok)
	assert.Equal(t, Heading, c)
	assert.Equal(t, "heading", c.String())

	_, ok = ParseConvention("auto")
	assert.False(t, ok)
}

func TestSplitOptions(t *testing.T) {
	assert.Equal(t, []string{"A. 0", "B. 1", "C. 2", "D. 3"}, SplitOptions("A. 0　B. 1　C. 2　D. 3"))
	assert.Equal(t, []string{"(A) yes", "(B) no"}, SplitOptions("(A) yes (B) no"))
	assert.Equal(t, []string{"C．x", "D．y"}, SplitOptions("C．x D．y"))
	assert.Equal(t, []string{"A. use AND. or OR. D. none"}, SplitOptions("A. use AND. or OR. D. none"),
		"labels out of sequence do not split")
	assert.Nil(t, SplitOptions("Because of this"))
	assert.Nil(t, SplitOptions("see A. below"))
}
