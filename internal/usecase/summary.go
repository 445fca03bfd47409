package usecase

import (
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

// WriteRunSummary renders one row per journal run.
func WriteRunSummary(w io.Writer, reports []RunReport) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Journal", "Editions", "Skipped", "Articles", "Failed", "Output", "Duration"})

	var editions, skipped, articles, failed int
	for _, r := range reports {
		t.AppendRow(table.Row{r.Journal, r.Editions, r.SkippedEditions, r.Articles, r.Failed, r.OutputPath, r.Duration.Round(time.Millisecond)})
		editions += r.Editions
		skipped += r.SkippedEditions
		articles += r.Articles
		failed += r.Failed
	}

	t.AppendFooter(table.Row{"Total", editions, skipped, articles, failed, "", ""})
	t.SetStyle(table.StyleRounded)
	t.Render()
}
