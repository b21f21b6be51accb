package domain

import "time"

// PerformanceRow is the canonical normalized unit every connector payload is
// mapped into. Invariants: Spend >= 0 and Impressions >= Clicks >= 0;
// connectors clamp their payloads at the mapping boundary.
type PerformanceRow struct {
	Date            time.Time `json:"date"`
	CampaignName    string    `json:"campaign_name"`
	Platform        Platform  `json:"platform"`
	Impressions     int64     `json:"impressions"`
	Clicks          int64     `json:"clicks"`
	Spend           float64   `json:"spend"`
	Conversions     int64     `json:"conversions"`
	ConversionValue float64   `json:"conversion_value"`
}

// DerivedMetrics are computed at analysis time only, never stored or cached
// across requests. All ratios guard against a zero denominator.
type DerivedMetrics struct {
	CPA  float64 `json:"cpa"`
	ROAS float64 `json:"roas"`
	CTR  float64 `json:"ctr"`
}

// Derive computes the metric ratios for an aggregated row.
func Derive(spend float64, impressions, clicks, conversions int64, conversionValue float64) DerivedMetrics {
	m := DerivedMetrics{}
	if conversions > 0 {
		m.CPA = spend / float64(conversions)
	}
	if spend > 0 {
		m.ROAS = conversionValue / spend
	}
	if impressions > 0 {
		m.CTR = float64(clicks) / float64(impressions)
	}
	return m
}

// DateRange is a closed [Since, Until] interval of calendar days.
type DateRange struct {
	Since time.Time
	Until time.Time
}

// TrailingDays returns the range covering the last n full days ending
// yesterday, relative to now.
func TrailingDays(now time.Time, n int) DateRange {
	until := now.AddDate(0, 0, -1)
	return DateRange{
		Since: until.AddDate(0, 0, -(n - 1)),
		Until: until,
	}
}
