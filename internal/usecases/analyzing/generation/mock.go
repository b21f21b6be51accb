package generation

import (
	"context"
	"errors"

	"github.com/ziaflow/marketing-lens/internal/domain"
)

var errEmptyCompletion = errors.New("completion returned no content")

// mockGenerator serves a fixed, non-empty insight set per analysis type. It
// keeps the full pipeline exercisable in environments without LLM
// credentials; downstream parsing and persistence behave exactly as with the
// live backend.
type mockGenerator struct {
	responses map[domain.AnalysisType]string
}

func NewMock() Generator {
	return &mockGenerator{
		responses: map[domain.AnalysisType]string{
			domain.AnalysisAnomaly: `{"insights": [
				{"title": "Spend without conversions on Campaign Alpha", "severity": "high", "description": "Campaign Alpha spent $412.50 over the window with zero recorded conversions, driving CPA to infinity while CTR held at 1.1%.", "action_item": "Pause Campaign Alpha and audit its landing page tracking before re-enabling spend."},
				{"title": "CTR drop on branded search", "severity": "medium", "description": "Branded search CTR fell from 6.2% to 3.9% week over week without a matching impression change, suggesting a competitor entered the auction.", "action_item": "Review auction insights and consider raising branded bids by 10-15%."}
			]}`,
			domain.AnalysisTrend: `{"insights": [
				{"title": "Steady ROAS climb on retargeting", "severity": "low", "description": "Retargeting ROAS improved for five consecutive days, from 2.1 to 3.4, while spend stayed flat.", "action_item": "Shift 10% of prospecting budget into retargeting while the trend holds."},
				{"title": "Weekend conversion dip", "severity": "medium", "description": "Conversions drop roughly 40% on Saturdays and Sundays across all platforms while spend stays constant.", "action_item": "Apply weekend bid adjustments of -30% to preserve efficiency."}
			]}`,
			domain.AnalysisOpportunity: `{"insights": [
				{"title": "Budget headroom on top performer", "severity": "medium", "description": "Campaign Beta delivers the lowest CPA in the account ($8.20) but is capped by budget, losing an estimated 35% of available impressions.", "action_item": "Raise Campaign Beta's daily budget by 25% and monitor CPA for a week."},
				{"title": "Underused video placements", "severity": "low", "description": "Video placements show a 2x CTR over static at comparable CPM but receive under 5% of spend.", "action_item": "Allocate a test budget of 15% of spend to video placements."}
			]}`,
		},
	}
}

func (g *mockGenerator) Generate(_ context.Context, req Request) (string, error) {
	if response, ok := g.responses[req.AnalysisType]; ok {
		return response, nil
	}
	return g.responses[domain.AnalysisAnomaly], nil
}
