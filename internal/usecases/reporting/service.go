// Package reporting assembles the dashboard read model from persisted
// performance rows. Read-only; nothing here touches connectors.
package reporting

import (
	"context"
	"time"

	"github.com/ziaflow/marketing-lens/infrastructure/repository"
	"github.com/ziaflow/marketing-lens/internal/domain"
	"github.com/ziaflow/marketing-lens/pkg/utils"
)

const dashboardWindowDays = 30

// Summary is the tenant-wide headline block.
type Summary struct {
	TotalSpend       float64 `json:"total_spend"`
	TotalImpressions int64   `json:"total_impressions"`
	TotalClicks      int64   `json:"total_clicks"`
	TotalConversions int64   `json:"total_conversions"`
	CPA              float64 `json:"cpa"`
	ROAS             float64 `json:"roas"`
	CTR              float64 `json:"ctr"`
}

// Campaign is one row of the dashboard campaign table.
type Campaign struct {
	Name            string          `json:"name"`
	Platform        domain.Platform `json:"platform"`
	Spend           float64         `json:"spend"`
	Impressions     int64           `json:"impressions"`
	Clicks          int64           `json:"clicks"`
	Conversions     int64           `json:"conversions"`
	ConversionValue float64         `json:"conversion_value"`
	CPA             float64         `json:"cpa"`
	ROAS            float64         `json:"roas"`
	CTR             float64         `json:"ctr"`
}

// Dashboard is the full dashboard payload.
type Dashboard struct {
	Summary   Summary                 `json:"summary"`
	ChartData []repository.DailyTotal `json:"chart_data"`
	Campaigns []Campaign              `json:"campaigns"`
}

type Reporter interface {
	Dashboard(ctx context.Context, tenantID string) (*Dashboard, error)
}

type service struct {
	rows repository.PerformanceRepository
	now  func() time.Time
}

func NewService(rows repository.PerformanceRepository) Reporter {
	return &service{
		rows: rows,
		now:  time.Now,
	}
}

// Dashboard loads the trailing month for the tenant and derives the headline
// ratios from the summed rows.
func (s *service) Dashboard(ctx context.Context, tenantID string) (*Dashboard, error) {
	dateRange := domain.TrailingDays(s.now(), dashboardWindowDays)

	aggregated, err := s.rows.AggregateByCampaign(ctx, tenantID, dateRange)
	if err != nil {
		return nil, err
	}

	totals, err := s.rows.DailyTotals(ctx, tenantID, dateRange)
	if err != nil {
		return nil, err
	}

	dashboard := &Dashboard{
		ChartData: totals,
		Campaigns: make([]Campaign, 0, len(aggregated)),
	}

	var conversionValue float64
	for _, row := range aggregated {
		dashboard.Summary.TotalSpend += row.Spend
		dashboard.Summary.TotalImpressions += row.Impressions
		dashboard.Summary.TotalClicks += row.Clicks
		dashboard.Summary.TotalConversions += row.Conversions
		conversionValue += row.ConversionValue

		derived := domain.Derive(row.Spend, row.Impressions, row.Clicks, row.Conversions, row.ConversionValue)
		dashboard.Campaigns = append(dashboard.Campaigns, Campaign{
			Name:            row.CampaignName,
			Platform:        row.Platform,
			Spend:           utils.RoundWithTwoDecimalPlace(row.Spend),
			Impressions:     row.Impressions,
			Clicks:          row.Clicks,
			Conversions:     row.Conversions,
			ConversionValue: row.ConversionValue,
			CPA:             utils.RoundWithTwoDecimalPlace(derived.CPA),
			ROAS:            utils.RoundWithTwoDecimalPlace(derived.ROAS),
			CTR:             derived.CTR,
		})
	}

	summaryDerived := domain.Derive(
		dashboard.Summary.TotalSpend,
		dashboard.Summary.TotalImpressions,
		dashboard.Summary.TotalClicks,
		dashboard.Summary.TotalConversions,
		conversionValue,
	)
	dashboard.Summary.TotalSpend = utils.RoundWithTwoDecimalPlace(dashboard.Summary.TotalSpend)
	dashboard.Summary.CPA = utils.RoundWithTwoDecimalPlace(summaryDerived.CPA)
	dashboard.Summary.ROAS = utils.RoundWithTwoDecimalPlace(summaryDerived.ROAS)
	dashboard.Summary.CTR = summaryDerived.CTR

	return dashboard, nil
}
