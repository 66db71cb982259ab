package report

import (
	"fmt"
	"sort"
	"strings"

	"LedgerCast/internal/model"
)

// FormatRunSummary renders a human-readable summary of one run for the log
// or stdout.
func FormatRunSummary(set *model.ForecastSet) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("run %s | %s\n", set.RunID, set.GeneratedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("rows skipped: %d\n", set.Diagnostics.RowsSkipped))

	names := set.CategoryNames()
	sort.Strings(names)
	for _, name := range names {
		res := set.Categories[name]
		switch res.Status {
		case model.StatusForecasted:
			pts := res.Forecast.Points
			b.WriteString(fmt.Sprintf("  %-24s %s  next %d months: %.2f .. %.2f\n",
				name, res.Forecast.Model, len(pts), pts[0].Point, pts[len(pts)-1].Point))
		case model.StatusActualsOnly:
			b.WriteString(fmt.Sprintf("  %-24s actuals only (insufficient history)\n", name))
		case model.StatusUnavailable:
			b.WriteString(fmt.Sprintf("  %-24s forecast unavailable: %s\n", name, res.Reason))
		}
	}
	return b.String()
}
