// Package aggregate derives the read-only views shown to users from a flat
// card list: the course/chapter/notion tree, the dashboard and text search.
// Every function is pure and recomputes its result from scratch.
package aggregate

import "github.com/vytor/flashdeck/internal/models"

// BuildHierarchy groups cards by course, then chapter, then notion. Keys are
// compared verbatim, so "Math" and "math" are different courses. Groups are
// ordered by first appearance and each notion keeps its cards in source
// order, so Flatten returns an already grouped input unchanged.
func BuildHierarchy(cards []models.Card) models.Hierarchy {
	var h models.Hierarchy
	courseIdx := map[string]int{}
	type chapterKey struct{ course, chapter string }
	chapterIdx := map[chapterKey]int{}
	type notionKey struct{ course, chapter, notion string }
	notionIdx := map[notionKey]int{}

	for _, card := range cards {
		ci, ok := courseIdx[card.Course]
		if !ok {
			ci = len(h.Courses)
			courseIdx[card.Course] = ci
			h.Courses = append(h.Courses, models.CourseNode{Name: card.Course})
		}
		course := &h.Courses[ci]

		ck := chapterKey{card.Course, card.Chapter}
		chi, ok := chapterIdx[ck]
		if !ok {
			chi = len(course.Chapters)
			chapterIdx[ck] = chi
			course.Chapters = append(course.Chapters, models.ChapterNode{Name: card.Chapter})
		}
		chapter := &course.Chapters[chi]

		nk := notionKey{card.Course, card.Chapter, card.Notion}
		ni, ok := notionIdx[nk]
		if !ok {
			ni = len(chapter.Notions)
			notionIdx[nk] = ni
			chapter.Notions = append(chapter.Notions, models.NotionNode{Name: card.Notion})
		}
		chapter.Notions[ni].Cards = append(chapter.Notions[ni].Cards, card)
	}
	return h
}
