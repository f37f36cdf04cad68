package api

import (
	"html/template"
	"io/fs"
	"time"
)

// LoadTemplates parses the layouts, pages and partials under templates/ in fsys.
func LoadTemplates(fsys fs.FS) (*template.Template, error) {
	funcs := template.FuncMap{
		// seq returns a sequence of integers from start to end inclusive.
		"seq": func(start, end int) []int {
			if end < start {
				return []int{}
			}
			nums := make([]int, 0, end-start+1)
			for i := start; i <= end; i++ {
				nums = append(nums, i)
			}
			return nums
		},
		"datetime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.UTC().Format("2006-01-02 15:04")
		},
		// scoreClass buckets a score or mean score into a CSS class.
		"scoreClass": func(v any) string {
			var f float64
			switch n := v.(type) {
			case int:
				f = float64(n)
			case float64:
				f = n
			}
			switch {
			case f <= 1:
				return "score-low"
			case f < 4:
				return "score-mid"
			default:
				return "score-high"
			}
		},
	}

	t := template.New("base").Funcs(funcs)
	for _, p := range []string{
		"templates/layouts/*.html",
		"templates/pages/*.html",
		"templates/partials/*.html",
	} {
		if matches, _ := fs.Glob(fsys, p); len(matches) == 0 {
			continue
		}
		if _, err := t.ParseFS(fsys, p); err != nil {
			return nil, err
		}
	}
	return t, nil
}
