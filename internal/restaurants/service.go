package restaurants

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"resto-service/pkg/validation"
)

// Service contains tenant business logic.
type Service struct {
	db *pgxpool.Pool
}

// NewService creates a restaurant service.
func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

// Create registers a new tenant.
func (s *Service) Create(ctx context.Context, req UpsertRequest) (*Restaurant, error) {
	if !validation.ValidateName(req.Name) {
		return nil, errors.New("invalid name")
	}
	id := uuid.New().String()
	var r Restaurant
	err := s.db.QueryRow(ctx,
		`INSERT INTO restaurants (id,name,address,phone) VALUES ($1,$2,$3,$4)
		 RETURNING id,name,address,phone,created_at`,
		id, req.Name, req.Address, req.Phone).
		Scan(&r.ID, &r.Name, &r.Address, &r.Phone, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetByID fetches a restaurant by primary key.
func (s *Service) GetByID(ctx context.Context, id string) (*Restaurant, error) {
	var r Restaurant
	err := s.db.QueryRow(ctx,
		`SELECT id,name,address,phone,created_at FROM restaurants WHERE id=$1`, id).
		Scan(&r.ID, &r.Name, &r.Address, &r.Phone, &r.CreatedAt)
	if err != nil {
		return nil, errors.New("restaurant not found")
	}
	return &r, nil
}

// List returns all tenants.
func (s *Service) List(ctx context.Context) ([]Restaurant, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id,name,address,phone,created_at FROM restaurants ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Restaurant
	for rows.Next() {
		var r Restaurant
		if err := rows.Scan(&r.ID, &r.Name, &r.Address, &r.Phone, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Update modifies a tenant.
func (s *Service) Update(ctx context.Context, id string, req UpsertRequest) (*Restaurant, error) {
	if !validation.ValidateName(req.Name) {
		return nil, errors.New("invalid name")
	}
	tag, err := s.db.Exec(ctx,
		`UPDATE restaurants SET name=$1, address=$2, phone=$3 WHERE id=$4`,
		req.Name, req.Address, req.Phone, id)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, errors.New("restaurant not found")
	}
	return s.GetByID(ctx, id)
}
