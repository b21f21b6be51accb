package analyzing

import (
	"fmt"
	"strings"

	"github.com/ziaflow/marketing-lens/internal/domain"
)

// sampleCap bounds the rows serialized into a prompt. Campaigns are ordered
// by spend before the cut so the sample keeps the heaviest spenders.
const sampleCap = 50

const outputContract = `Respond with a valid JSON object containing a single key "insights", a list of findings. Each finding has the keys "title", "severity" (one of "high", "medium", "low"), "description" and "action_item". Base every finding strictly on the data provided.`

var analysisFocus = map[domain.AnalysisType]string{
	domain.AnalysisAnomaly: `Focus on anomalies: wasted spend (significant spend with zero or near-zero conversions), sudden CPA spikes, and CTR drops that break from a campaign's baseline.`,
	domain.AnalysisTrend: `Focus on trends: directional shifts in the key metrics over the window, correlations between spend and conversion movement, and likely seasonality effects.`,
	domain.AnalysisOpportunity: `Focus on opportunities: budget reallocation from weak campaigns to strong ones, bid adjustments where efficiency headroom exists, and underexploited placements or audiences.`,
}

// buildInstructions assembles the system prompt for one analysis type.
func buildInstructions(analysisType domain.AnalysisType, dataContext string) string {
	var b strings.Builder
	b.WriteString("You are a senior marketing performance analyst reviewing aggregated campaign metrics.\n")
	if dataContext != "" {
		b.WriteString("Business context: ")
		b.WriteString(dataContext)
		b.WriteString("\n")
	}
	b.WriteString(analysisFocus[analysisType])
	b.WriteString("\n")
	b.WriteString(outputContract)
	return b.String()
}

// renderTable serializes the capped campaign sample as a markdown table.
func renderTable(campaigns []campaignMetrics) string {
	if len(campaigns) > sampleCap {
		campaigns = campaigns[:sampleCap]
	}

	var b strings.Builder
	b.WriteString("| Campaign | Platform | Impressions | Clicks | Spend | Conversions | Conversion Value | CPA | ROAS | CTR |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|---|---|\n")
	for _, c := range campaigns {
		fmt.Fprintf(&b, "| %s | %s | %d | %d | %.2f | %d | %.2f | %.2f | %.2f | %.4f |\n",
			c.CampaignName,
			c.Platform,
			c.Impressions,
			c.Clicks,
			c.Spend,
			c.Conversions,
			c.ConversionValue,
			c.Derived.CPA,
			c.Derived.ROAS,
			c.Derived.CTR,
		)
	}
	return b.String()
}
