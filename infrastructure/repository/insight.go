package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/ziaflow/marketing-lens/infrastructure/database/postgres"
	"github.com/ziaflow/marketing-lens/internal/domain"
)

type InsightRepository interface {
	SaveBatch(ctx context.Context, insights []domain.Insight) error
}

type insightRepository struct {
	conn *postgres.Connection
}

func NewInsightRepository(conn *postgres.Connection) InsightRepository {
	return &insightRepository{
		conn: conn,
	}
}

// SaveBatch appends all insights from one analysis call in a single
// transaction. The insights table is an append-only sink; rows are never
// updated.
func (r *insightRepository) SaveBatch(ctx context.Context, insights []domain.Insight) error {
	if len(insights) == 0 {
		return nil
	}

	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		builder := squirrel.
			Insert("insights").
			Columns("tenant_id", "type", "severity", "title", "message", "action_item", "data_context", "created_at").
			PlaceholderFormat(squirrel.Dollar)

		for _, insight := range insights {
			builder = builder.Values(
				insight.TenantID,
				string(insight.Type),
				insight.Severity,
				insight.Title,
				insight.Message,
				insight.ActionItem,
				insight.DataContext,
				squirrel.Expr("NOW()"),
			)
		}

		query, args, err := builder.ToSql()
		if err != nil {
			return fmt.Errorf("building insight insert: %w", err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return dbError("inserting insights", err)
		}

		return nil
	})
}
