package csvimport_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/csvimport"
)

func TestParse_WithHeader(t *testing.T) {
	in := "course,chapter,notion,question,answer\n" +
		"Math,Algebra,Groups,What is a group?,A set with an operation\n" +
		"History,Rome,Empire,Who was Augustus?,First emperor\n"

	cards, err := csvimport.Parse(strings.NewReader(in))

	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "Math", cards[0].Course)
	assert.Equal(t, "Algebra", cards[0].Chapter)
	assert.Equal(t, "Groups", cards[0].Notion)
	assert.Equal(t, "What is a group?", cards[0].Question)
	assert.Equal(t, "A set with an operation", cards[0].Answer)
	assert.Equal(t, 0, cards[0].Score)
	assert.Equal(t, "History", cards[1].Course)
}

func TestParse_WithoutHeader(t *testing.T) {
	cards, err := csvimport.Parse(strings.NewReader("Math,Algebra,Groups,q,a\n"))

	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "Math", cards[0].Course)
}

func TestParse_SemicolonDelimiterAndBOM(t *testing.T) {
	in := "\xEF\xBB\xBFCourse;Chapter;Notion;Question;Answer\n" +
		"Maths;Algèbre;Groupes;Qu'est-ce qu'un groupe ?;Un ensemble muni d'une loi\n"

	cards, err := csvimport.Parse(strings.NewReader(in))

	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "Maths", cards[0].Course)
	assert.Equal(t, "Un ensemble muni d'une loi", cards[0].Answer)
}

func TestParse_QuotedCommaKeepsCommaDelimiter(t *testing.T) {
	in := "Math,Algebra,Groups,\"Name two groups; any two\",\"Z, Q\"\n"

	cards, err := csvimport.Parse(strings.NewReader(in))

	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "Z, Q", cards[0].Answer)
}

func TestParse_OptionalScoreIsClamped(t *testing.T) {
	in := "Math,A,N,q1,a1,3\nMath,A,N,q2,a2,9\nMath,A,N,q3,a3,\n"

	cards, err := csvimport.Parse(strings.NewReader(in))

	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, 3, cards[0].Score)
	assert.Equal(t, 5, cards[1].Score)
	assert.Equal(t, 0, cards[2].Score)
}

func TestParse_SkipsBlankLines(t *testing.T) {
	in := "Math,A,N,q1,a1\n,,,,\n\nMath,A,N,q2,a2\n"

	cards, err := csvimport.Parse(strings.NewReader(in))

	require.NoError(t, err)
	assert.Len(t, cards, 2)
}

func TestParse_RowErrors(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		line   int
		reason string
	}{
		{name: "too few columns", in: "Math,A,N,q1,a1\nMath,A,q2\n", line: 2, reason: "expected at least 5 columns"},
		{name: "empty answer", in: "Math,A,N,q1, \n", line: 1, reason: "answer is empty"},
		{name: "bad score", in: "course,chapter,notion,question,answer,score\nMath,A,N,q,a,high\n", line: 2, reason: "invalid score"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := csvimport.Parse(strings.NewReader(tt.in))

			var rowErr *csvimport.RowError
			require.True(t, errors.As(err, &rowErr), "got %v", err)
			assert.Equal(t, tt.line, rowErr.Line)
			assert.Contains(t, rowErr.Reason, tt.reason)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	cards, err := csvimport.Parse(strings.NewReader(""))

	require.NoError(t, err)
	assert.Empty(t, cards)
}
