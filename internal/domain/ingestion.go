package domain

// IngestionRequest is the transient unit of work routed by the dispatcher.
// One per inbound call; never persisted.
type IngestionRequest struct {
	TenantID   string
	PlatformID string
	AccountRef string
	Range      DateRange
}

// IngestionStatus is the terminal state of a dispatched request.
type IngestionStatus string

const (
	// IngestionCompleted means the connector delivered rows synchronously.
	IngestionCompleted IngestionStatus = "completed"
	// IngestionPending means the platform acknowledged a report submission;
	// rows will only exist after a future poll.
	IngestionPending IngestionStatus = "pending"
	// IngestionFailed covers both client and server classifications.
	IngestionFailed IngestionStatus = "failed"
)

// IngestionResult is the normalized outcome the dispatcher reports.
type IngestionResult struct {
	TenantID string          `json:"tenant_id"`
	Platform Platform        `json:"platform"`
	Status   IngestionStatus `json:"status"`
	RowCount int             `json:"row_count"`
	ReportID string          `json:"report_id,omitempty"`
}
