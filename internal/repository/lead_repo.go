package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"duobot/internal/domain"
)

// LeadRepository persiste las consultas de venta completadas.
type LeadRepository interface {
	Create(ctx context.Context, lead domain.Lead) error
	ListRecent(ctx context.Context, limit int) ([]domain.Lead, error)
}

type PgLeadRepository struct {
	pool *pgxpool.Pool
}

func NewPgLeadRepository(pool *pgxpool.Pool) *PgLeadRepository {
	return &PgLeadRepository{pool: pool}
}

func (r *PgLeadRepository) Create(ctx context.Context, lead domain.Lead) error {
	const query = `
		INSERT INTO leads (
			name, project, subtype, details, budget, contact,
			has_logo, has_social, contains_payment, urgent,
			domain_name, domain_available, estimated_cost, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	createdAt := lead.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx, query,
		lead.Name,
		lead.Project,
		lead.Subtype,
		lead.Details,
		lead.Budget,
		lead.Contact,
		lead.HasLogo,
		lead.HasSocial,
		lead.ContainsPayment,
		lead.Urgent,
		lead.DomainName,
		lead.DomainAvailable,
		lead.EstimatedCost,
		createdAt,
	)
	return err
}

func (r *PgLeadRepository) ListRecent(ctx context.Context, limit int) ([]domain.Lead, error) {
	const query = `
		SELECT id, name, project, subtype, details, budget, contact,
		       has_logo, has_social, contains_payment, urgent,
		       domain_name, domain_available, estimated_cost, created_at
		FROM leads
		ORDER BY created_at DESC
		LIMIT $1
	`
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []domain.Lead
	for rows.Next() {
		var lead domain.Lead
		err = rows.Scan(
			&lead.ID,
			&lead.Name,
			&lead.Project,
			&lead.Subtype,
			&lead.Details,
			&lead.Budget,
			&lead.Contact,
			&lead.HasLogo,
			&lead.HasSocial,
			&lead.ContainsPayment,
			&lead.Urgent,
			&lead.DomainName,
			&lead.DomainAvailable,
			&lead.EstimatedCost,
			&lead.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return leads, nil
}
