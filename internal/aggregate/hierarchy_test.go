package aggregate_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/aggregate"
	"github.com/vytor/flashdeck/internal/models"
)

func card(id int64, course, chapter, notion string, score int) models.Card {
	return models.Card{
		ID:       id,
		Course:   course,
		Chapter:  chapter,
		Notion:   notion,
		Question: fmt.Sprintf("q%d", id),
		Answer:   fmt.Sprintf("a%d", id),
		Score:    score,
	}
}

func TestBuildHierarchy_GroupsInFirstAppearanceOrder(t *testing.T) {
	cards := []models.Card{
		card(1, "Math", "Algebra", "Groups", 0),
		card(2, "Physics", "Optics", "Lenses", 3),
		card(3, "Math", "Analysis", "Limits", 2),
		card(4, "Math", "Algebra", "Rings", 1),
		card(5, "Math", "Algebra", "Groups", 4),
	}

	h := aggregate.BuildHierarchy(cards)

	require.Len(t, h.Courses, 2)
	math := h.Courses[0]
	assert.Equal(t, "Math", math.Name)
	assert.Equal(t, "Physics", h.Courses[1].Name)
	assert.Equal(t, 4, math.Count())

	require.Len(t, math.Chapters, 2)
	algebra := math.Chapters[0]
	assert.Equal(t, "Algebra", algebra.Name)
	assert.Equal(t, "Analysis", math.Chapters[1].Name)
	require.Len(t, algebra.Notions, 2)
	assert.Equal(t, "Groups", algebra.Notions[0].Name)
	assert.Equal(t, []int64{1, 5}, ids(algebra.Notions[0].Cards))
	assert.Equal(t, []int64{4}, ids(algebra.Notions[1].Cards))
}

func TestBuildHierarchy_KeysAreNotNormalized(t *testing.T) {
	cards := []models.Card{
		card(1, "Math", "A", "N", 0),
		card(2, "math", "A", "N", 0),
		card(3, "Math ", "A", "N", 0),
	}

	h := aggregate.BuildHierarchy(cards)

	require.Len(t, h.Courses, 3)
	assert.Equal(t, "Math", h.Courses[0].Name)
	assert.Equal(t, "math", h.Courses[1].Name)
	assert.Equal(t, "Math ", h.Courses[2].Name)
}

func TestBuildHierarchy_SameChapterNameInDifferentCourses(t *testing.T) {
	cards := []models.Card{
		card(1, "Math", "Intro", "N", 0),
		card(2, "Physics", "Intro", "N", 0),
	}

	h := aggregate.BuildHierarchy(cards)

	require.Len(t, h.Courses, 2)
	assert.Equal(t, []int64{1}, ids(h.Courses[0].Cards()))
	assert.Equal(t, []int64{2}, ids(h.Courses[1].Cards()))
}

func TestBuildHierarchy_Empty(t *testing.T) {
	h := aggregate.BuildHierarchy(nil)
	assert.Empty(t, h.Courses)
	assert.Empty(t, h.Flatten())
}

func TestBuildHierarchy_FlattenPreservesOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	names := []string{"A", "B", "C"}

	for round := 0; round < 50; round++ {
		n := rng.Intn(40)
		cards := make([]models.Card, 0, n)
		for i := 0; i < n; i++ {
			cards = append(cards, card(int64(i+1),
				names[rng.Intn(3)], names[rng.Intn(3)], names[rng.Intn(3)], rng.Intn(6)))
		}

		h := aggregate.BuildHierarchy(cards)
		flat := h.Flatten()

		require.Len(t, flat, n)
		// Flattening is a regrouping: per group the relative order survives,
		// and the whole list matches once grouped the same way.
		assert.ElementsMatch(t, ids(cards), ids(flat))
		assert.Equal(t, ids(aggregate.BuildHierarchy(flat).Flatten()), ids(flat), "round %d", round)

		for _, course := range h.Courses {
			for _, chapter := range course.Chapters {
				for _, notion := range chapter.Notions {
					var want []int64
					for _, c := range cards {
						if c.Course == course.Name && c.Chapter == chapter.Name && c.Notion == notion.Name {
							want = append(want, c.ID)
						}
					}
					assert.Equal(t, want, ids(notion.Cards))
				}
			}
		}
	}
}

func TestBuildHierarchy_FlattenEqualsInputWhenGrouped(t *testing.T) {
	cards := []models.Card{
		card(1, "Math", "Algebra", "Groups", 0),
		card(2, "Math", "Algebra", "Groups", 0),
		card(3, "Math", "Algebra", "Rings", 0),
		card(4, "Math", "Analysis", "Limits", 0),
		card(5, "Physics", "Optics", "Lenses", 0),
	}

	assert.Equal(t, cards, aggregate.BuildHierarchy(cards).Flatten())
}

func ids(cards []models.Card) []int64 {
	out := make([]int64, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.ID)
	}
	return out
}
