package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"vitrina/internal/domain"
	apperrors "vitrina/internal/errors"
)

type MySQLCompanyRepository struct {
	db *sql.DB
}

func NewMySQLCompanyRepository(db *sql.DB) *MySQLCompanyRepository {
	return &MySQLCompanyRepository{db: db}
}

func (r *MySQLCompanyRepository) FindByTaxID(ctx context.Context, taxID string) (*domain.Company, error) {
	query := `
		SELECT id, taxId, name, establishment, emissionPoint, sequence, createdAt, updatedAt
		FROM Company
		WHERE taxId = ?
	`

	var c domain.Company
	err := r.db.QueryRowContext(ctx, query, taxID).Scan(
		&c.ID, &c.TaxID, &c.Name, &c.Establishment, &c.EmissionPoint, &c.Sequence,
		&c.CreatedAt, &c.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("company with tax id %s not found", taxID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying company by tax id: %w", err)
	}

	return &c, nil
}

// Ensure inserts the company unless one with the same tax id exists, and returns the stored row.
// An existing company is never modified.
func (r *MySQLCompanyRepository) Ensure(ctx context.Context, company domain.Company) (*domain.Company, bool, error) {
	if company.ID == "" {
		company.ID = uuid.NewString()
	}
	if company.Establishment == "" {
		company.Establishment = domain.DefaultEstablishment
	}
	if company.EmissionPoint == "" {
		company.EmissionPoint = domain.DefaultEmissionPoint
	}
	if company.Sequence < 1 {
		company.Sequence = 1
	}
	now := time.Now().UTC().Truncate(time.Millisecond)

	query := `
		INSERT INTO Company (id, taxId, name, establishment, emissionPoint, sequence, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE id = id
	`

	result, err := r.db.ExecContext(ctx, query,
		company.ID, company.TaxID, company.Name, company.Establishment, company.EmissionPoint,
		company.Sequence, now, now,
	)
	if err != nil {
		return nil, false, fmt.Errorf("inserting company: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("getting rows affected: %w", err)
	}

	stored, err := r.FindByTaxID(ctx, company.TaxID)
	if err != nil {
		return nil, false, err
	}

	return stored, affected == 1, nil
}
