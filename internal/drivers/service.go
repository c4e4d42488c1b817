package drivers

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"resto-service/pkg/jwt"
	rredis "resto-service/pkg/redis"
	"resto-service/pkg/trackclient"
)

// Service is the driver registry: the snapshot source for observer clients
// and the persistence sink for accepted location reports.
type Service struct {
	db             *pgxpool.Pool
	redis          *rredis.Client
	staleThreshold time.Duration
}

// NewService creates a driver registry service. redis may be nil when the
// geo index is disabled.
func NewService(db *pgxpool.Pool, redis *rredis.Client, staleThreshold time.Duration) *Service {
	if staleThreshold <= 0 {
		staleThreshold = trackclient.DefaultStaleThreshold
	}
	return &Service{db: db, redis: redis, staleThreshold: staleThreshold}
}

// List returns every driver of the restaurant with last-known positions,
// including drivers that never reported (nil coordinates).
func (s *Service) List(ctx context.Context, restaurantID string) ([]Driver, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id,name,current_lat,current_lng,last_location_update
		 FROM users WHERE role=$1 AND restaurant_id=$2 ORDER BY name`,
		jwt.RoleDriver, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	now := time.Now()
	var out []Driver
	for rows.Next() {
		var d Driver
		if err := rows.Scan(&d.ID, &d.Name, &d.Lat, &d.Lng, &d.LastUpdate); err != nil {
			return nil, err
		}
		if d.LastUpdate != nil {
			d.Online = !trackclient.Offline(*d.LastUpdate, now, s.staleThreshold)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// SavePosition persists a driver's last-known position. Implements the
// tracking hub's sink; keeps only the latest point, no history.
func (s *Service) SavePosition(ctx context.Context, driverID string, lat, lng float64, at time.Time) error {
	_, err := s.db.Exec(ctx,
		`UPDATE users SET current_lat=$1, current_lng=$2, last_location_update=$3 WHERE id=$4`,
		lat, lng, at, driverID)
	if err != nil {
		return err
	}
	if s.redis != nil {
		return s.redis.SetDriverPosition(ctx, driverID, lat, lng)
	}
	return nil
}

// Nearby returns driver IDs within radiusKm of the given point.
func (s *Service) Nearby(ctx context.Context, lat, lng, radiusKm float64, count int) ([]string, error) {
	if s.redis == nil {
		return nil, nil
	}
	return s.redis.GetNearbyDrivers(ctx, lat, lng, radiusKm, count)
}
