package aggregate

import (
	"strings"

	"github.com/vytor/flashdeck/internal/models"
)

// Filter keeps the cards whose course, chapter, notion, question or answer
// contains text, ignoring case. An empty text keeps everything.
func Filter(cards []models.Card, text string) []models.Card {
	needle := strings.ToLower(text)
	out := make([]models.Card, 0, len(cards))
	for _, c := range cards {
		if needle == "" || strings.Contains(searchText(c), needle) {
			out = append(out, c)
		}
	}
	return out
}

func searchText(c models.Card) string {
	return strings.ToLower(strings.Join([]string{c.Course, c.Chapter, c.Notion, c.Question, c.Answer}, " "))
}
