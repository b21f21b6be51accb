package domain

import "time"

// AnalysisType selects which instruction set the generation backend receives.
type AnalysisType string

const (
	AnalysisAnomaly     AnalysisType = "anomaly"
	AnalysisTrend       AnalysisType = "trend"
	AnalysisOpportunity AnalysisType = "opportunity"
)

// ParseAnalysisType maps a raw value onto the known set. Unrecognized values
// fall back to anomaly analysis; the insights endpoint never rejects a type.
func ParseAnalysisType(raw string) AnalysisType {
	switch AnalysisType(raw) {
	case AnalysisTrend:
		return AnalysisTrend
	case AnalysisOpportunity:
		return AnalysisOpportunity
	default:
		return AnalysisAnomaly
	}
}

// Severity levels accepted on a generated insight.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Insight is one generated finding. Created by the analysis pipeline,
// persisted once, never mutated.
type Insight struct {
	TenantID    string       `json:"tenant_id"`
	Type        AnalysisType `json:"type"`
	Severity    string       `json:"severity"`
	Title       string       `json:"title"`
	Message     string       `json:"message"`
	ActionItem  string       `json:"action_item"`
	DataContext string       `json:"data_context"`
	CreatedAt   time.Time    `json:"created_at,omitempty"`
}

// AnalysisResult is the analyze contract's return shape. Error is embedded,
// not raised: the HTTP layer always answers 200 with this body.
type AnalysisResult struct {
	Error    string    `json:"error,omitempty"`
	Insights []Insight `json:"insights"`
}
