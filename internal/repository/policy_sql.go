package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"star-admin-api/internal/model"
)

// SQLPolicyRepository implements PolicyRepository.
type SQLPolicyRepository struct {
	db  *DB
	now func() time.Time
}

// NewSQLPolicyRepository creates a new policy document repository.
func NewSQLPolicyRepository(db *DB) *SQLPolicyRepository {
	return &SQLPolicyRepository{db: db, now: utcNow}
}

const policyColumns = `id, type, document, created_at, updated_at`

// Create inserts a policy document.
func (r *SQLPolicyRepository) Create(ctx context.Context, p *model.PolicyDocument) error {
	now := r.now()
	query := `INSERT INTO policydocuments (type, document, created_at, updated_at) VALUES (?, ?, ?, ?)`

	id, err := r.db.insert(ctx, query, p.Type, p.Document, now, now)
	if err != nil {
		return fmt.Errorf("failed to create policy document: %w", err)
	}

	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// FindByType finds the document for a policy type.
func (r *SQLPolicyRepository) FindByType(ctx context.Context, policyType string) (*model.PolicyDocument, error) {
	var p model.PolicyDocument
	err := scanPolicy(r.db.queryRow(ctx, `SELECT `+policyColumns+` FROM policydocuments WHERE type = ?`, policyType), &p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get policy document: %w", err)
	}
	return &p, nil
}

// UpdateDocument points a policy type at a new document.
func (r *SQLPolicyRepository) UpdateDocument(ctx context.Context, policyType, document string) (*model.PolicyDocument, error) {
	query := `UPDATE policydocuments SET document = ?, updated_at = ? WHERE type = ?`

	res, err := r.db.exec(ctx, query, document, r.now(), policyType)
	if err != nil {
		return nil, fmt.Errorf("failed to update policy document: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return r.FindByType(ctx, policyType)
}

// List returns every policy document ordered by id.
func (r *SQLPolicyRepository) List(ctx context.Context) ([]model.PolicyDocument, error) {
	rows, err := r.db.query(ctx, `SELECT `+policyColumns+` FROM policydocuments ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list policy documents: %w", err)
	}
	defer rows.Close()

	docs := []model.PolicyDocument{}
	for rows.Next() {
		var p model.PolicyDocument
		if err := scanPolicy(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan policy document: %w", err)
		}
		docs = append(docs, p)
	}
	return docs, rows.Err()
}

func scanPolicy(row rowScanner, p *model.PolicyDocument) error {
	return row.Scan(&p.ID, &p.Type, &p.Document, &p.CreatedAt, &p.UpdatedAt)
}

var _ PolicyRepository = (*SQLPolicyRepository)(nil)
