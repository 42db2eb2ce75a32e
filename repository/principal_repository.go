package repository

import (
	"context"
	"fmt"

	"vestlock/database"
	"vestlock/models"

	"github.com/jackc/pgx/v5"
)

// PrincipalRepository implements the PrincipalRepository interface
type PrincipalRepository struct {
	q Queryable
}

// NewPrincipalRepository creates a new principal repository
func NewPrincipalRepository(db *database.DB) *PrincipalRepository {
	return &PrincipalRepository{q: db.Pool}
}

func newPrincipalRepository(tx Queryable) *PrincipalRepository {
	return &PrincipalRepository{q: tx}
}

// Get retrieves the principal holding a role, or nil if unset
func (r *PrincipalRepository) Get(ctx context.Context, role models.PrincipalRole) (*models.Principal, error) {
	query := `
		SELECT role, address, updated_at
		FROM principals
		WHERE role = $1
	`

	var p models.Principal
	err := r.q.QueryRow(ctx, query, role).Scan(&p.Role, &p.Address, &p.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get principal for role %s: %w", role, err)
	}

	return &p, nil
}

// Set binds a role to an address, creating or replacing the binding
func (r *PrincipalRepository) Set(ctx context.Context, role models.PrincipalRole, address string) error {
	query := `
		INSERT INTO principals (role, address)
		VALUES ($1, $2)
		ON CONFLICT (role) DO UPDATE SET
			address = EXCLUDED.address,
			updated_at = NOW()
	`

	_, err := r.q.Exec(ctx, query, role, address)
	if err != nil {
		return fmt.Errorf("failed to set principal for role %s: %w", role, err)
	}

	return nil
}

// GetAll returns every role binding
func (r *PrincipalRepository) GetAll(ctx context.Context) ([]*models.Principal, error) {
	query := `
		SELECT role, address, updated_at
		FROM principals
		ORDER BY role
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query principals: %w", err)
	}
	defer rows.Close()

	var principals []*models.Principal
	for rows.Next() {
		var p models.Principal
		if err := rows.Scan(&p.Role, &p.Address, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan principal: %w", err)
		}
		principals = append(principals, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating principals: %w", err)
	}

	return principals, nil
}
