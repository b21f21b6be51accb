// Package analyzing turns persisted performance rows into generated insights.
// The pipeline never raises: every failure is folded into the result body so
// the insights endpoint can always answer 200.
package analyzing

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/ziaflow/marketing-lens/infrastructure/repository"
	"github.com/ziaflow/marketing-lens/internal/domain"
	"github.com/ziaflow/marketing-lens/internal/usecases/analyzing/generation"
	"github.com/ziaflow/marketing-lens/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// trailingWindowDays is the default analysis window ending yesterday.
const trailingWindowDays = 7

type Analyzer interface {
	Analyze(ctx context.Context, tenantID string, rows []domain.PerformanceRow, dataContext string, analysisType domain.AnalysisType) *domain.AnalysisResult
	AnalyzeTenant(ctx context.Context, tenantID, dataContext string, analysisType domain.AnalysisType) *domain.AnalysisResult
}

type service struct {
	generator generation.Generator
	rows      repository.PerformanceRepository
	insights  repository.InsightRepository
	now       func() time.Time
}

func NewService(
	generator generation.Generator,
	rows repository.PerformanceRepository,
	insights repository.InsightRepository,
) Analyzer {
	return &service{
		generator: generator,
		rows:      rows,
		insights:  insights,
		now:       time.Now,
	}
}

// backendFinding is the shape each finding takes in the backend's JSON
// answer.
type backendFinding struct {
	Title      string `json:"title"`
	Severity   string `json:"severity"`
	Message    string `json:"description"`
	ActionItem string `json:"action_item"`
}

type backendResponse struct {
	Insights []backendFinding `json:"insights"`
}

// AnalyzeTenant loads the trailing window for the tenant and runs Analyze
// over the aggregated rows.
func (s *service) AnalyzeTenant(ctx context.Context, tenantID, dataContext string, analysisType domain.AnalysisType) *domain.AnalysisResult {
	dateRange := domain.TrailingDays(s.now(), trailingWindowDays)

	rows, err := s.rows.AggregateByCampaign(ctx, tenantID, dateRange)
	if err != nil {
		log.ForContext(ctx).WithError(err).WithField("tenant_id", tenantID).Error("analyzing: loading performance rows failed")
		return &domain.AnalysisResult{
			Error:    "loading performance data failed",
			Insights: []domain.Insight{},
		}
	}

	return s.Analyze(ctx, tenantID, rows, dataContext, analysisType)
}

// Analyze aggregates, prompts the generation backend and parses its answer.
// A backend or parse failure yields a result carrying the error and an empty
// insight list; nothing is persisted in that case.
func (s *service) Analyze(ctx context.Context, tenantID string, rows []domain.PerformanceRow, dataContext string, analysisType domain.AnalysisType) *domain.AnalysisResult {
	logger := log.ForContext(ctx).WithFields(log.Fields{
		"tenant_id":     tenantID,
		"analysis_type": analysisType,
	})

	campaigns := aggregateByCampaign(rows)

	raw, err := s.generator.Generate(ctx, generation.Request{
		Instructions: buildInstructions(analysisType, dataContext),
		Payload:      renderTable(campaigns),
		AnalysisType: analysisType,
	})
	if err != nil {
		logger.WithError(err).Error("analyzing: generation backend failed")
		return &domain.AnalysisResult{
			Error:    "insight generation failed",
			Insights: []domain.Insight{},
		}
	}

	var parsed backendResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		logger.WithError(err).Error("analyzing: backend answer is not valid JSON")
		return &domain.AnalysisResult{
			Error:    "insight generation returned an unreadable answer",
			Insights: []domain.Insight{},
		}
	}

	insights := make([]domain.Insight, 0, len(parsed.Insights))
	for _, finding := range parsed.Insights {
		insights = append(insights, domain.Insight{
			TenantID:    tenantID,
			Type:        analysisType,
			Severity:    normalizeSeverity(finding.Severity),
			Title:       finding.Title,
			Message:     finding.Message,
			ActionItem:  finding.ActionItem,
			DataContext: dataContext,
		})
	}

	// Persistence is best effort: the caller already holds the insights, a
	// sink failure must not empty the answer.
	if err := s.insights.SaveBatch(ctx, insights); err != nil {
		logger.WithError(err).Error("analyzing: persisting insights failed")
	}

	logger.WithField("insight_count", len(insights)).Info("analyzing: completed")
	return &domain.AnalysisResult{Insights: insights}
}

func normalizeSeverity(raw string) string {
	switch raw {
	case domain.SeverityHigh, domain.SeverityMedium, domain.SeverityLow:
		return raw
	default:
		return domain.SeverityMedium
	}
}
