package models

// Hierarchy groups cards by course, then chapter, then notion. Each level
// keeps the order in which its keys first appear in the source list.
type Hierarchy struct {
	Courses []CourseNode `json:"courses"`
}

type CourseNode struct {
	Name     string        `json:"name"`
	Chapters []ChapterNode `json:"chapters"`
}

type ChapterNode struct {
	Name    string       `json:"name"`
	Notions []NotionNode `json:"notions"`
}

type NotionNode struct {
	Name  string `json:"name"`
	Cards []Card `json:"cards"`
}

// Flatten re-joins every leaf list in tree order.
func (h Hierarchy) Flatten() []Card {
	var out []Card
	for _, c := range h.Courses {
		out = append(out, c.Cards()...)
	}
	return out
}

// Cards returns every card under the course in tree order.
func (c CourseNode) Cards() []Card {
	var out []Card
	for _, ch := range c.Chapters {
		for _, n := range ch.Notions {
			out = append(out, n.Cards...)
		}
	}
	return out
}

// Count is the number of cards under the course.
func (c CourseNode) Count() int {
	n := 0
	for _, ch := range c.Chapters {
		n += ch.Count()
	}
	return n
}

// Count is the number of cards under the chapter.
func (c ChapterNode) Count() int {
	n := 0
	for _, no := range c.Notions {
		n += len(no.Cards)
	}
	return n
}

// CourseStat is one dashboard row.
type CourseStat struct {
	Course string  `json:"course"`
	Score  float64 `json:"score"`
	Count  int     `json:"count"`
}

// Summary is the headline statistics block.
type Summary struct {
	TotalCards    int     `json:"total_cards"`
	AverageScore  float64 `json:"average_score"`
	LowScoreCount int     `json:"low_score_count"`
}

type Dashboard struct {
	Summary   Summary      `json:"summary"`
	Courses   []CourseStat `json:"courses"`
	Watchlist []Card       `json:"watchlist"`
}
