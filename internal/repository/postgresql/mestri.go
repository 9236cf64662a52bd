package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/mestri-payroll/internal/domain/mestri"
	"github.com/cmlabs-hris/mestri-payroll/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type mestriRepositoryImpl struct {
	db *database.DB
}

func NewMestriRepository(db *database.DB) mestri.MestriRepository {
	return &mestriRepositoryImpl{db: db}
}

// Create implements mestri.MestriRepository.
func (r *mestriRepositoryImpl) Create(ctx context.Context, m mestri.Mestri) (mestri.Mestri, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO mestris (id, mestri_id, name, phone_number)
		VALUES ($1, $2, $3, $4)
		RETURNING id, mestri_id, name, phone_number, created_at, updated_at
	`

	var created mestri.Mestri
	err := q.QueryRow(ctx, query, m.ID, m.MestriID, m.Name, m.PhoneNumber).Scan(
		&created.ID, &created.MestriID, &created.Name, &created.PhoneNumber, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return mestri.Mestri{}, mestri.ErrMestriIDExists
		}
		return mestri.Mestri{}, fmt.Errorf("failed to create mestri: %w", err)
	}

	return created, nil
}

// GetByMestriID implements mestri.MestriRepository.
func (r *mestriRepositoryImpl) GetByMestriID(ctx context.Context, mestriID string) (mestri.Mestri, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, mestri_id, name, phone_number, created_at, updated_at
		FROM mestris
		WHERE mestri_id = $1
	`

	var m mestri.Mestri
	err := q.QueryRow(ctx, query, mestriID).Scan(&m.ID, &m.MestriID, &m.Name, &m.PhoneNumber, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mestri.Mestri{}, mestri.ErrMestriNotFound
		}
		return mestri.Mestri{}, fmt.Errorf("failed to get mestri with mestri_id %s: %w", mestriID, err)
	}

	return m, nil
}

// List implements mestri.MestriRepository.
func (r *mestriRepositoryImpl) List(ctx context.Context) ([]mestri.Mestri, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, mestri_id, name, phone_number, created_at, updated_at
		FROM mestris
		ORDER BY mestri_id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list mestris: %w", err)
	}
	defer rows.Close()

	var mestris []mestri.Mestri
	for rows.Next() {
		var m mestri.Mestri
		if err := rows.Scan(&m.ID, &m.MestriID, &m.Name, &m.PhoneNumber, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan mestri: %w", err)
		}
		mestris = append(mestris, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate mestris: %w", err)
	}

	return mestris, nil
}

// Update implements mestri.MestriRepository.
func (r *mestriRepositoryImpl) Update(ctx context.Context, mestriID string, req mestri.UpdateMestriRequest) (mestri.Mestri, error) {
	q := GetQuerier(ctx, r.db)

	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	i := 1
	if req.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", i))
		args = append(args, *req.Name)
		i++
	}
	if req.PhoneNumber != nil {
		setClauses = append(setClauses, fmt.Sprintf("phone_number = $%d", i))
		args = append(args, *req.PhoneNumber)
		i++
	}

	query := fmt.Sprintf(`
		UPDATE mestris SET %s
		WHERE mestri_id = $%d
		RETURNING id, mestri_id, name, phone_number, created_at, updated_at
	`, strings.Join(setClauses, ", "), i)
	args = append(args, mestriID)

	var m mestri.Mestri
	err := q.QueryRow(ctx, query, args...).Scan(&m.ID, &m.MestriID, &m.Name, &m.PhoneNumber, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mestri.Mestri{}, mestri.ErrMestriNotFound
		}
		return mestri.Mestri{}, fmt.Errorf("failed to update mestri with mestri_id %s: %w", mestriID, err)
	}

	return m, nil
}
