package aggregate_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/aggregate"
	"github.com/vytor/flashdeck/internal/models"
)

func TestBuildDashboard_MathScenario(t *testing.T) {
	cards := []models.Card{
		{ID: 1, Course: "Math", Score: 0},
		{ID: 2, Course: "Math", Score: 2},
	}

	d := aggregate.BuildDashboard(cards)

	require.Len(t, d.Courses, 1)
	assert.Equal(t, models.CourseStat{Course: "Math", Score: 1.00, Count: 2}, d.Courses[0])
}

func TestBuildDashboard_RoundsToTwoDecimals(t *testing.T) {
	cards := []models.Card{
		{ID: 1, Course: "Bio", Score: 1},
		{ID: 2, Course: "Bio", Score: 1},
		{ID: 3, Course: "Bio", Score: 2},
	}

	d := aggregate.BuildDashboard(cards)

	require.Len(t, d.Courses, 1)
	assert.Equal(t, 1.33, d.Courses[0].Score)
	assert.Equal(t, 3, d.Courses[0].Count)
}

func TestBuildDashboard_CourseMeansMatchUnroundedMean(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	courses := []string{"Math", "math", "History", "Art"}

	for round := 0; round < 50; round++ {
		var cards []models.Card
		sums := map[string]int{}
		counts := map[string]int{}
		for i := 0; i < 1+rng.Intn(30); i++ {
			c := models.Card{ID: int64(i + 1), Course: courses[rng.Intn(len(courses))], Score: rng.Intn(6)}
			cards = append(cards, c)
			sums[c.Course] += c.Score
			counts[c.Course]++
		}

		d := aggregate.BuildDashboard(cards)

		require.Len(t, d.Courses, len(counts))
		for _, row := range d.Courses {
			want := math.Round(float64(sums[row.Course])/float64(counts[row.Course])*100) / 100
			assert.Equal(t, want, row.Score, "course %q", row.Course)
			assert.Equal(t, counts[row.Course], row.Count)
		}
	}
}

func TestBuildDashboard_Watchlist(t *testing.T) {
	cards := []models.Card{
		{ID: 1, Course: "A", Score: 0},
		{ID: 2, Course: "A", Score: 1},
		{ID: 3, Course: "A", Score: 2},
		{ID: 4, Course: "B", Score: 5},
		{ID: 5, Course: "B", Score: 1},
	}

	d := aggregate.BuildDashboard(cards)

	assert.Equal(t, []int64{1, 2, 5}, ids(d.Watchlist))
	for _, c := range cards {
		inList := false
		for _, w := range d.Watchlist {
			if w.ID == c.ID {
				inList = true
			}
		}
		assert.Equal(t, c.Score <= 1, inList, "card %d", c.ID)
	}
}

func TestBuildDashboard_Empty(t *testing.T) {
	d := aggregate.BuildDashboard(nil)

	assert.Empty(t, d.Courses)
	assert.NotNil(t, d.Watchlist)
	assert.Empty(t, d.Watchlist)
	assert.Equal(t, models.Summary{}, d.Summary)
}

func TestSummarize(t *testing.T) {
	cards := []models.Card{
		{Course: "A", Score: 0},
		{Course: "B", Score: 3},
		{Course: "B", Score: 4},
	}

	s := aggregate.Summarize(cards)

	assert.Equal(t, 3, s.TotalCards)
	assert.Equal(t, 2.33, s.AverageScore)
	assert.Equal(t, 1, s.LowScoreCount)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.0, aggregate.Round2(1))
	assert.Equal(t, 0.67, aggregate.Round2(2.0/3.0))
	assert.Equal(t, 2.5, aggregate.Round2(2.5))
}
