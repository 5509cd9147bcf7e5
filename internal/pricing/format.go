package pricing

import (
	"fmt"
	"strings"

	"github.com/abhi24703/dynamicpricing/internal/estimator"
	"github.com/abhi24703/dynamicpricing/internal/model"
)

// FormatQuote renders a quote for operator review.
func FormatQuote(q *model.PriceQuote) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Quote | %s\n", q.QuotedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("  day=%s weekend=%v holiday=%v occupancy=%.2f competitor=%.0f\n",
		q.Context.DayOfWeek, q.Context.IsWeekend, q.Context.IsHoliday,
		q.Context.OccupancyRate, q.Context.CompetitorPrice))
	b.WriteString(fmt.Sprintf("  base estimate: ₹%.2f\n", q.BasePrice))
	for _, a := range q.Adjustments {
		b.WriteString(fmt.Sprintf("  %-10s x%.4f (%s)\n", a.Name, a.Multiplier, a.Commentary))
	}
	b.WriteString(fmt.Sprintf("  final price: ₹%.2f\n", q.FinalPrice))
	return b.String()
}

// FormatEvaluation renders held-out diagnostics.
func FormatEvaluation(e *estimator.Evaluation) string {
	var b strings.Builder
	b.WriteString("Training diagnostics\n")
	b.WriteString(fmt.Sprintf("  train/test: %d/%d\n", e.TrainSize, e.TestSize))
	b.WriteString(fmt.Sprintf("  RMSE: %.2f\n", e.RMSE))
	b.WriteString(fmt.Sprintf("  R²:   %.4f\n", e.RSquared))
	return b.String()
}

// FormatImportances renders the ranked feature importances.
func FormatImportances(ranked []estimator.Importance) string {
	var b strings.Builder
	b.WriteString("Feature importances\n")
	for i, imp := range ranked {
		b.WriteString(fmt.Sprintf("  %2d. %-20s %.4f\n", i+1, imp.Feature, imp.Score))
	}
	return b.String()
}
