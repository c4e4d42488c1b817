package menu

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"resto-service/pkg/validation"
)

// Service contains menu business logic. Everything is scoped to one
// restaurant by the caller's claims.
type Service struct {
	db *pgxpool.Pool
}

// NewService creates a menu service.
func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

// ---- Categories ----

// CreateCategory adds a category to the restaurant's menu.
func (s *Service) CreateCategory(ctx context.Context, restaurantID string, req CategoryRequest) (*Category, error) {
	if !validation.ValidateName(req.Name) {
		return nil, errors.New("invalid name")
	}
	c := Category{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		Name:         req.Name,
		Description:  req.Description,
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO categories (id,restaurant_id,name,description) VALUES ($1,$2,$3,$4)`,
		c.ID, c.RestaurantID, c.Name, c.Description)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCategories returns the restaurant's categories.
func (s *Service) ListCategories(ctx context.Context, restaurantID string) ([]Category, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id,restaurant_id,name,description FROM categories WHERE restaurant_id=$1 ORDER BY name`,
		restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.RestaurantID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteCategory removes a category; its products keep a nil category.
func (s *Service) DeleteCategory(ctx context.Context, restaurantID, id string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE products SET category_id=NULL WHERE category_id=$1 AND restaurant_id=$2`, id, restaurantID)
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx,
		`DELETE FROM categories WHERE id=$1 AND restaurant_id=$2`, id, restaurantID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("category not found")
	}
	return nil
}

// ---- Products ----

// CreateProduct adds a product to the restaurant's menu.
func (s *Service) CreateProduct(ctx context.Context, restaurantID string, req ProductRequest) (*Product, error) {
	if !validation.ValidateName(req.Name) {
		return nil, errors.New("invalid name")
	}
	if !validation.ValidatePrice(req.Price) {
		return nil, errors.New("invalid price")
	}

	p := Product{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		ImageURL:     req.ImageURL,
	}
	if req.CategoryID != "" {
		p.CategoryID = &req.CategoryID
	}

	err := s.db.QueryRow(ctx,
		`INSERT INTO products (id,restaurant_id,category_id,name,description,price,image_url)
		 VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING created_at`,
		p.ID, p.RestaurantID, p.CategoryID, p.Name, p.Description, p.Price, p.ImageURL).
		Scan(&p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts returns the restaurant's products.
func (s *Service) ListProducts(ctx context.Context, restaurantID string) ([]Product, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id,restaurant_id,category_id,name,description,price,image_url,created_at
		 FROM products WHERE restaurant_id=$1 ORDER BY name`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.RestaurantID, &p.CategoryID, &p.Name,
			&p.Description, &p.Price, &p.ImageURL, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateProduct modifies a product.
func (s *Service) UpdateProduct(ctx context.Context, restaurantID, id string, req ProductRequest) (*Product, error) {
	if !validation.ValidateName(req.Name) {
		return nil, errors.New("invalid name")
	}
	if !validation.ValidatePrice(req.Price) {
		return nil, errors.New("invalid price")
	}

	var categoryID *string
	if req.CategoryID != "" {
		categoryID = &req.CategoryID
	}

	var p Product
	err := s.db.QueryRow(ctx,
		`UPDATE products SET category_id=$1, name=$2, description=$3, price=$4, image_url=$5
		 WHERE id=$6 AND restaurant_id=$7
		 RETURNING id,restaurant_id,category_id,name,description,price,image_url,created_at`,
		categoryID, req.Name, req.Description, req.Price, req.ImageURL, id, restaurantID).
		Scan(&p.ID, &p.RestaurantID, &p.CategoryID, &p.Name,
			&p.Description, &p.Price, &p.ImageURL, &p.CreatedAt)
	if err != nil {
		return nil, errors.New("product not found")
	}
	return &p, nil
}

// DeleteProduct removes a product.
func (s *Service) DeleteProduct(ctx context.Context, restaurantID, id string) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM products WHERE id=$1 AND restaurant_id=$2`, id, restaurantID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("product not found")
	}
	return nil
}
