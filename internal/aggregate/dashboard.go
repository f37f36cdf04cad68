package aggregate

import (
	"math"

	"github.com/vytor/flashdeck/internal/models"
)

// BuildDashboard computes the mean score and card count of every course, in
// order of first appearance, and the watchlist of cards scoring at most
// models.LowScoreThreshold.
func BuildDashboard(cards []models.Card) models.Dashboard {
	type acc struct {
		sum   int
		count int
	}
	var order []string
	byCourse := map[string]*acc{}
	watchlist := []models.Card{}

	for _, c := range cards {
		a, ok := byCourse[c.Course]
		if !ok {
			a = &acc{}
			byCourse[c.Course] = a
			order = append(order, c.Course)
		}
		a.sum += c.Score
		a.count++
		if c.NeedsReview() {
			watchlist = append(watchlist, c)
		}
	}

	stats := make([]models.CourseStat, 0, len(order))
	for _, course := range order {
		a := byCourse[course]
		stats = append(stats, models.CourseStat{
			Course: course,
			Score:  Round2(float64(a.sum) / float64(a.count)),
			Count:  a.count,
		})
	}

	return models.Dashboard{
		Summary:   Summarize(cards),
		Courses:   stats,
		Watchlist: watchlist,
	}
}

// Summarize returns the total number of cards, their mean score and how many
// are on the watchlist. The mean of an empty list is 0.
func Summarize(cards []models.Card) models.Summary {
	s := models.Summary{TotalCards: len(cards)}
	if len(cards) == 0 {
		return s
	}
	sum := 0
	for _, c := range cards {
		sum += c.Score
		if c.NeedsReview() {
			s.LowScoreCount++
		}
	}
	s.AverageScore = Round2(float64(sum) / float64(len(cards)))
	return s
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
