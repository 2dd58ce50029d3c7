package html

import (
	"html/template"
	"time"

	"github.com/sonnes/actionlog/core"
)

func funcMap() template.FuncMap {
	return template.FuncMap{
		"formatTime":   formatTime,
		"relativeTime": core.RelativeTime,
		"runTitle":     runTitle,
		"runStatus": func(e core.RunEntry) string {
			return core.RunStatus(e.ExitCode)
		},
		"runDuration": runDuration,
		"deref": func(p *int) int {
			if p == nil {
				return 0
			}
			return *p
		},
	}
}

func formatTime(t time.Time) string {
	return t.Format("Jan 2, 2006 3:04 PM")
}

func runTitle(e core.RunEntry) string {
	switch {
	case e.Title != "":
		return e.Title
	case e.Script != "":
		return e.Script
	default:
		return e.ID
	}
}

func runDuration(e core.RunEntry) string {
	if e.EndedAt == nil || e.StartedAt.IsZero() {
		return ""
	}
	return core.FormatDuration(e.EndedAt.Sub(e.StartedAt))
}
