package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mdrakibmia99/hospital-management-system-server/internal/models"
)

// ListServiceNames returns every service projected to its id and name.
func (s *Store) ListServiceNames(ctx context.Context) ([]models.ServiceName, error) {
	names := make([]models.ServiceName, 0)
	opts := options.Find().SetProjection(bson.M{"name": 1})
	if err := findAll(ctx, s.services, bson.M{}, &names, opts); err != nil {
		return nil, fmt.Errorf("mongostore: list service names: %w", err)
	}
	return names, nil
}

// ListServices returns every service with its full slot list.
func (s *Store) ListServices(ctx context.Context) ([]models.Service, error) {
	services := make([]models.Service, 0)
	if err := findAll(ctx, s.services, bson.M{}, &services); err != nil {
		return nil, fmt.Errorf("mongostore: list services: %w", err)
	}
	return services, nil
}
