package analyzing

import (
	"sort"

	"github.com/ziaflow/marketing-lens/internal/domain"
	"github.com/ziaflow/marketing-lens/pkg/utils"
)

// campaignMetrics is one aggregated campaign with its derived ratios.
// Derived metrics are computed here, per call, and never persisted.
type campaignMetrics struct {
	CampaignName    string
	Platform        domain.Platform
	Impressions     int64
	Clicks          int64
	Spend           float64
	Conversions     int64
	ConversionValue float64
	Derived         domain.DerivedMetrics
}

// aggregateByCampaign folds raw rows into one entry per campaign name,
// summing the additive fields, then derives the ratios from the sums.
// Output order is by spend descending so truncation keeps the heaviest
// campaigns.
func aggregateByCampaign(rows []domain.PerformanceRow) []campaignMetrics {
	byName := make(map[string]*campaignMetrics)
	order := make([]string, 0)

	for _, row := range rows {
		entry, ok := byName[row.CampaignName]
		if !ok {
			entry = &campaignMetrics{
				CampaignName: row.CampaignName,
				Platform:     row.Platform,
			}
			byName[row.CampaignName] = entry
			order = append(order, row.CampaignName)
		}
		entry.Impressions += row.Impressions
		entry.Clicks += row.Clicks
		entry.Spend += row.Spend
		entry.Conversions += row.Conversions
		entry.ConversionValue += row.ConversionValue
	}

	aggregated := make([]campaignMetrics, 0, len(order))
	for _, name := range order {
		entry := byName[name]
		entry.Spend = utils.RoundWithTwoDecimalPlace(entry.Spend)
		entry.Derived = domain.Derive(entry.Spend, entry.Impressions, entry.Clicks, entry.Conversions, entry.ConversionValue)
		aggregated = append(aggregated, *entry)
	}

	sort.SliceStable(aggregated, func(i, j int) bool {
		return aggregated[i].Spend > aggregated[j].Spend
	})

	return aggregated
}
