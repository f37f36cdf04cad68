// Package csvimport parses flashcard CSV files. Rows are
// course, chapter, notion, question, answer and an optional initial score.
package csvimport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vytor/flashdeck/internal/flashcard"
	"github.com/vytor/flashdeck/internal/models"
)

const minColumns = 5

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// RowError reports a malformed row by its 1-based line number.
type RowError struct {
	Line   int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Parse reads every card in r. A leading header row whose first cell is
// "course" is skipped, a UTF-8 BOM is ignored and the delimiter is ';' when
// the first line contains semicolons but no commas.
func Parse(r io.Reader) ([]models.NewCard, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comma = sniffDelimiter(br)

	var cards []models.NewCard
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if first {
			first = false
			if isHeader(record) {
				continue
			}
		}
		if blank(record) {
			continue
		}

		card, err := parseRecord(record, line)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func parseRecord(record []string, line int) (models.NewCard, error) {
	if len(record) < minColumns {
		return models.NewCard{}, &RowError{
			Line:   line,
			Reason: fmt.Sprintf("expected at least %d columns, got %d", minColumns, len(record)),
		}
	}

	card := models.NewCard{CardInput: models.CardInput{
		Course:   record[0],
		Chapter:  record[1],
		Notion:   record[2],
		Question: record[3],
		Answer:   record[4],
	}}
	if strings.TrimSpace(card.Question) == "" {
		return models.NewCard{}, &RowError{Line: line, Reason: "question is empty"}
	}
	if strings.TrimSpace(card.Answer) == "" {
		return models.NewCard{}, &RowError{Line: line, Reason: "answer is empty"}
	}

	if len(record) > minColumns && strings.TrimSpace(record[minColumns]) != "" {
		score, err := strconv.Atoi(strings.TrimSpace(record[minColumns]))
		if err != nil {
			return models.NewCard{}, &RowError{Line: line, Reason: fmt.Sprintf("invalid score %q", record[minColumns])}
		}
		card.Score = flashcard.ClampScore(score)
	}
	return card, nil
}

func sniffDelimiter(br *bufio.Reader) rune {
	// Peek returns what it has even when the buffer ends before a newline.
	peek, _ := br.Peek(br.Size())
	if i := bytes.IndexByte(peek, '\n'); i >= 0 {
		peek = peek[:i]
	}
	if bytes.IndexByte(peek, ';') >= 0 && bytes.IndexByte(peek, ',') < 0 {
		return ';'
	}
	return ','
}

func isHeader(record []string) bool {
	return len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "course")
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
