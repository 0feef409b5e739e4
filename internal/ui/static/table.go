// Package static renders non-interactive report output such as the
// plan table printed by "git-tidy plan --format table".
package static

import (
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/raphi011/git-tidy/internal/reconcile"
	"github.com/raphi011/git-tidy/internal/ui/styles"
)

// PlanHeaders are the columns of the plan table.
var PlanHeaders = []string{"BRANCH", "ACTION", "RULE", "DETAIL"}

// RenderTable creates a borderless table with aligned columns.
// Returns "" when there are no rows.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.Bold.PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		})

	var b strings.Builder
	b.WriteString(t.String())
	b.WriteString("\n")
	return b.String()
}

// PlanRow converts an outcome into a table row matching PlanHeaders.
// The action cell carries the outcome's label color.
func PlanRow(o reconcile.Outcome) []string {
	action := string(o.Action)
	if o.Action == reconcile.ActionNone {
		action = "-"
	}
	return []string{
		o.Branch,
		styles.LabelStyle(string(o.Label)).Render(action),
		string(o.Rule),
		o.Message,
	}
}

// RenderPlan renders every outcome of a plan. Rows with no action are
// left out unless all is set.
func RenderPlan(p *reconcile.Plan, all bool) string {
	rows := make([][]string, 0, len(p.Outcomes))
	for _, o := range p.Outcomes {
		if !all && o.Action == reconcile.ActionNone {
			continue
		}
		rows = append(rows, PlanRow(o))
	}
	return RenderTable(PlanHeaders, rows)
}
