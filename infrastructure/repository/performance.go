package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/ziaflow/marketing-lens/infrastructure/database/postgres"
	"github.com/ziaflow/marketing-lens/internal/domain"
)

const (
	factPerformanceTable = "fact_performance_daily fp"
	dimCampaignTable     = "dim_campaign dc"
)

// DailyTotal is one day of tenant-wide spend/conversion totals, used by the
// dashboard read path.
type DailyTotal struct {
	Date        time.Time `json:"date"`
	Spend       float64   `json:"spend"`
	Conversions int64     `json:"conversions"`
}

type PerformanceRepository interface {
	SaveRows(ctx context.Context, tenantID string, rows []domain.PerformanceRow) error
	AggregateByCampaign(ctx context.Context, tenantID string, dateRange domain.DateRange) ([]domain.PerformanceRow, error)
	DailyTotals(ctx context.Context, tenantID string, dateRange domain.DateRange) ([]DailyTotal, error)
}

type performanceRepository struct {
	conn *postgres.Connection
}

func NewPerformanceRepository(conn *postgres.Connection) PerformanceRepository {
	return &performanceRepository{
		conn: conn,
	}
}

// SaveRows upserts normalized rows in one transaction: campaign dimension
// first, then the daily fact keyed by (tenant, campaign, date). Re-running
// the same date range produces an equivalent row set.
func (r *performanceRepository) SaveRows(ctx context.Context, tenantID string, rows []domain.PerformanceRow) error {
	if len(rows) == 0 {
		return nil
	}

	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for _, row := range rows {
			campaignKey := fmt.Sprintf("%s:%s", row.Platform, row.CampaignName)

			query, args, err := squirrel.
				Insert("dim_campaign").
				Columns("campaign_key", "campaign_name", "platform").
				Values(campaignKey, row.CampaignName, row.Platform.String()).
				Suffix("ON CONFLICT (campaign_key) DO NOTHING").
				PlaceholderFormat(squirrel.Dollar).
				ToSql()
			if err != nil {
				return fmt.Errorf("building campaign upsert: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return dbError("upserting campaign", err)
			}

			query, args, err = squirrel.
				Insert("fact_performance_daily").
				Columns("tenant_id", "campaign_key", "date", "spend", "impressions", "clicks", "conversions", "conversion_value").
				Values(
					tenantID,
					campaignKey,
					row.Date.Format(time.DateOnly),
					row.Spend,
					row.Impressions,
					row.Clicks,
					row.Conversions,
					row.ConversionValue,
				).
				Suffix(`
					ON CONFLICT (tenant_id, campaign_key, date) DO UPDATE SET
						spend = EXCLUDED.spend,
						impressions = EXCLUDED.impressions,
						clicks = EXCLUDED.clicks,
						conversions = EXCLUDED.conversions,
						conversion_value = EXCLUDED.conversion_value
				`).
				PlaceholderFormat(squirrel.Dollar).
				ToSql()
			if err != nil {
				return fmt.Errorf("building fact upsert: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return dbError("upserting performance row", err)
			}
		}

		return nil
	})
}

// AggregateByCampaign sums the numeric fields grouped by campaign name over
// the date range.
func (r *performanceRepository) AggregateByCampaign(ctx context.Context, tenantID string, dateRange domain.DateRange) ([]domain.PerformanceRow, error) {
	query, args, err := squirrel.
		Select(
			"dc.campaign_name",
			"dc.platform",
			"COALESCE(SUM(fp.spend), 0)",
			"COALESCE(SUM(fp.impressions), 0)",
			"COALESCE(SUM(fp.clicks), 0)",
			"COALESCE(SUM(fp.conversions), 0)",
			"COALESCE(SUM(fp.conversion_value), 0)",
		).
		From(factPerformanceTable).
		Join("dim_campaign dc ON dc.campaign_key = fp.campaign_key").
		Where(squirrel.Eq{"fp.tenant_id": tenantID}).
		Where(squirrel.GtOrEq{"fp.date": dateRange.Since.Format(time.DateOnly)}).
		Where(squirrel.LtOrEq{"fp.date": dateRange.Until.Format(time.DateOnly)}).
		GroupBy("dc.campaign_name", "dc.platform").
		OrderBy("SUM(fp.spend) DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building aggregate query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, dbError("querying aggregates", err)
	}
	defer rows.Close()

	aggregated := make([]domain.PerformanceRow, 0)
	for rows.Next() {
		var row domain.PerformanceRow
		var platform string
		if err := rows.Scan(
			&row.CampaignName,
			&platform,
			&row.Spend,
			&row.Impressions,
			&row.Clicks,
			&row.Conversions,
			&row.ConversionValue,
		); err != nil {
			return nil, fmt.Errorf("scanning aggregate row: %w", err)
		}
		row.Platform = domain.Platform(platform)
		row.Date = dateRange.Until
		aggregated = append(aggregated, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating aggregate rows: %w", err)
	}

	return aggregated, nil
}

// DailyTotals sums spend and conversions per day for the dashboard chart.
func (r *performanceRepository) DailyTotals(ctx context.Context, tenantID string, dateRange domain.DateRange) ([]DailyTotal, error) {
	query, args, err := squirrel.
		Select(
			"fp.date",
			"COALESCE(SUM(fp.spend), 0)",
			"COALESCE(SUM(fp.conversions), 0)",
		).
		From(factPerformanceTable).
		Where(squirrel.Eq{"fp.tenant_id": tenantID}).
		Where(squirrel.GtOrEq{"fp.date": dateRange.Since.Format(time.DateOnly)}).
		Where(squirrel.LtOrEq{"fp.date": dateRange.Until.Format(time.DateOnly)}).
		GroupBy("fp.date").
		OrderBy("fp.date ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building daily totals query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, dbError("querying daily totals", err)
	}
	defer rows.Close()

	totals := make([]DailyTotal, 0)
	for rows.Next() {
		var total DailyTotal
		if err := rows.Scan(&total.Date, &total.Spend, &total.Conversions); err != nil {
			return nil, fmt.Errorf("scanning daily total: %w", err)
		}
		totals = append(totals, total)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating daily totals: %w", err)
	}

	return totals, nil
}

func dbError(action string, err error) error {
	if pqErr, ok := err.(*pq.Error); ok {
		return fmt.Errorf("%s: %w (code: %s)", action, pqErr, pqErr.Code)
	}
	return fmt.Errorf("%s: %w", action, err)
}
