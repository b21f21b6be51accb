// Package connector hides the heterogeneous platform APIs behind a uniform
// "fetch metrics for account/date-range" capability. Connectors carry no
// retry logic (the resilient HTTP client owns that) and no cross-platform
// normalization beyond mapping their own payload into performance rows.
package connector

import (
	"context"
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/ziaflow/marketing-lens/infrastructure/httpclient"
	"github.com/ziaflow/marketing-lens/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ResultKind distinguishes synchronous row delivery from an async report
// submission acknowledgement.
type ResultKind int

const (
	// KindRows means Rows carries the normalized payload.
	KindRows ResultKind = iota
	// KindSubmitted means the platform only acknowledged a report request;
	// ReportID identifies the pending report and Rows is empty.
	KindSubmitted
)

// Result is a connector fetch outcome.
type Result struct {
	Kind     ResultKind
	Rows     []domain.PerformanceRow
	ReportID string
}

// Connector is the uniform capability every platform adapter exposes.
type Connector interface {
	Platform() domain.Platform
	Fetch(ctx context.Context, accountRef string, dateRange domain.DateRange) (*Result, error)
}

// ConnectorError carries a platform's non-2xx answer. Connectors never
// swallow errors; every upstream failure propagates as one of these or as a
// wrapped transport error.
type ConnectorError struct {
	Platform domain.Platform
	Status   int
	Message  string
}

func (e *ConnectorError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Platform, e.Status, e.Message)
}

// wrapError classifies an HTTP client failure for one platform.
func wrapError(platform domain.Platform, err error) error {
	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		return &ConnectorError{
			Platform: platform,
			Status:   statusErr.StatusCode,
			Message:  statusErr.Body,
		}
	}
	return errors.Wrapf(err, "%s: request failed", platform)
}

// clampRow enforces the row invariants (spend >= 0, impressions >= clicks
// >= 0) at the mapping boundary.
func clampRow(row domain.PerformanceRow) domain.PerformanceRow {
	if row.Spend < 0 {
		row.Spend = 0
	}
	if row.ConversionValue < 0 {
		row.ConversionValue = 0
	}
	if row.Clicks < 0 {
		row.Clicks = 0
	}
	if row.Impressions < row.Clicks {
		row.Impressions = row.Clicks
	}
	if row.Conversions < 0 {
		row.Conversions = 0
	}
	return row
}

// Platform APIs are inconsistent about numeric encoding; several return
// figures as JSON strings. These helpers tolerate both.

func toInt64(raw string) int64 {
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			return 0
		}
		return int64(f)
	}
	return n
}

func toFloat64(raw string) float64 {
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return f
}
