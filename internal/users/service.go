package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"resto-service/pkg/jwt"
	"resto-service/pkg/validation"
)

// Service contains user business logic.
type Service struct {
	db *pgxpool.Pool
}

// NewService creates a user service backed by the given pool.
func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

// Register creates a new account and returns a JWT. Role defaults to COOK.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if !validation.ValidateName(req.Name) {
		return nil, errors.New("invalid name")
	}
	if !validation.ValidateEmail(req.Email) {
		return nil, errors.New("invalid email")
	}
	if !validation.ValidatePassword(req.Password) {
		return nil, errors.New("password must be 6-100 characters")
	}

	role := req.Role
	if role == "" {
		role = jwt.RoleCook
	}
	if !validation.ValidateRole(role) {
		return nil, errors.New("invalid role")
	}

	var exists bool
	_ = s.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE email=$1)", req.Email).Scan(&exists)
	if exists {
		return nil, errors.New("email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	var restaurantID *string
	if req.RestaurantID != "" {
		restaurantID = &req.RestaurantID
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO users (id,restaurant_id,name,email,password_hash,role) VALUES ($1,$2,$3,$4,$5,$6)`,
		id, restaurantID, req.Name, req.Email, string(hash), role)
	if err != nil {
		return nil, err
	}

	token, err := jwt.Generate(id, req.Email, role, req.RestaurantID)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token: token,
		User:  &User{ID: id, RestaurantID: restaurantID, Name: req.Name, Email: req.Email, Role: role},
	}, nil
}

// Login authenticates a user and returns a JWT.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var u User
	var hash string
	err := s.db.QueryRow(ctx,
		`SELECT id,restaurant_id,name,email,password_hash,role,created_at FROM users WHERE email=$1`,
		req.Email).Scan(&u.ID, &u.RestaurantID, &u.Name, &u.Email, &hash, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, errors.New("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		return nil, errors.New("invalid credentials")
	}

	restaurantID := ""
	if u.RestaurantID != nil {
		restaurantID = *u.RestaurantID
	}
	token, err := jwt.Generate(u.ID, u.Email, u.Role, restaurantID)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, User: &u}, nil
}

// GetByID fetches a single user by primary key.
func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.db.QueryRow(ctx,
		`SELECT id,restaurant_id,name,email,role,created_at FROM users WHERE id=$1`, id).
		Scan(&u.ID, &u.RestaurantID, &u.Name, &u.Email, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, errors.New("user not found")
	}
	return &u, nil
}

// List returns the staff of one restaurant, or every user when
// restaurantID is empty (platform admins).
func (s *Service) List(ctx context.Context, restaurantID string) ([]User, error) {
	query := `SELECT id,restaurant_id,name,email,role,created_at FROM users ORDER BY created_at`
	args := []any{}
	if restaurantID != "" {
		query = `SELECT id,restaurant_id,name,email,role,created_at FROM users WHERE restaurant_id=$1 ORDER BY created_at`
		args = append(args, restaurantID)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.RestaurantID, &u.Name, &u.Email, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Create adds a staff account inside the caller's restaurant. Managers may
// not create admins.
func (s *Service) Create(ctx context.Context, caller *jwt.Claims, req CreateRequest) (*User, error) {
	if caller.Role == jwt.RoleManager && req.Role == jwt.RoleAdmin {
		return nil, errors.New("managers cannot create admins")
	}

	resp, err := s.Register(ctx, RegisterRequest{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Role:         req.Role,
		RestaurantID: caller.RestaurantID,
	})
	if err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Delete removes an account within the caller's restaurant.
func (s *Service) Delete(ctx context.Context, restaurantID, id string) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM users WHERE id=$1 AND ($2='' OR restaurant_id=$2)`, id, restaurantID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("user not found")
	}
	return nil
}
