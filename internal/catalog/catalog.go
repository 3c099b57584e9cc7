// Package catalog lists the treatment services patients can book.
package catalog

import (
	"context"

	"github.com/mdrakibmia99/hospital-management-system-server/internal/apperr"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/models"
)

// Source reads the service catalog.
type Source interface {
	ListServiceNames(ctx context.Context) ([]models.ServiceName, error)
}

type Catalog struct {
	source Source
}

func New(source Source) *Catalog {
	return &Catalog{source: source}
}

// ListServices returns every service's id and name. Slot lists are only
// exposed through availability.
func (c *Catalog) ListServices(ctx context.Context) ([]models.ServiceName, error) {
	names, err := c.source.ListServiceNames(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to fetch services", err)
	}
	return names, nil
}
