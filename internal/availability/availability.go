// Package availability computes which service slots are still open on a date.
package availability

import (
	"context"

	"github.com/mdrakibmia99/hospital-management-system-server/internal/apperr"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/models"
)

type ServiceSource interface {
	ListServices(ctx context.Context) ([]models.Service, error)
}

type BookingSource interface {
	ListBookingsByDate(ctx context.Context, date string) ([]models.Booking, error)
}

type Calculator struct {
	services ServiceSource
	bookings BookingSource
}

func New(services ServiceSource, bookings BookingSource) *Calculator {
	return &Calculator{services: services, bookings: bookings}
}

// Compute loads the catalog and the date's bookings and returns every
// service with its booked times and remaining open slots.
func (c *Calculator) Compute(ctx context.Context, date string) ([]models.ServiceAvailability, error) {
	if date == "" {
		return nil, apperr.Validation("date query parameter is required")
	}

	services, err := c.services.ListServices(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to fetch services", err)
	}
	bookings, err := c.bookings.ListBookingsByDate(ctx, date)
	if err != nil {
		return nil, apperr.Internal("failed to fetch bookings", err)
	}
	return Partition(services, bookings), nil
}

// Partition splits each service's slots into booked and open using exact
// string matches on treatment name and time label. Slot order is preserved.
func Partition(services []models.Service, bookings []models.Booking) []models.ServiceAvailability {
	out := make([]models.ServiceAvailability, 0, len(services))
	for _, svc := range services {
		booked := make([]string, 0)
		taken := make(map[string]struct{})
		for _, b := range bookings {
			if b.TreatmentName == svc.Name {
				booked = append(booked, b.AppointmentTime)
				taken[b.AppointmentTime] = struct{}{}
			}
		}

		open := make([]string, 0, len(svc.Slots))
		for _, slot := range svc.Slots {
			if _, ok := taken[slot]; !ok {
				open = append(open, slot)
			}
		}

		out = append(out, models.ServiceAvailability{
			ID:     svc.ID,
			Name:   svc.Name,
			Slots:  open,
			Booked: booked,
			Price:  svc.Price,
		})
	}
	return out
}
