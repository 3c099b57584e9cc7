// Package memstore is an in-process document store with the same semantics
// as mongostore. It backs STORE_DRIVER=memory and the component tests.
package memstore

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mdrakibmia99/hospital-management-system-server/internal/models"
)

type bookingKey struct {
	treatment, patient, date string
}

// Store keeps every collection in insertion order behind one mutex.
type Store struct {
	mu          sync.RWMutex
	services    []models.Service
	bookings    []models.Booking
	bookingIdx  map[bookingKey]int
	users       []models.User
	doctors     []models.Doctor
	oncologists []models.Doctor
	payments    []models.Payment
	reviews     []models.Review
	contacts    []models.Contact
}

// New creates a store seeded with the given catalog.
func New(services ...models.Service) *Store {
	s := &Store{bookingIdx: make(map[bookingKey]int)}
	for _, svc := range services {
		if svc.ID.IsZero() {
			svc.ID = primitive.NewObjectID()
		}
		svc.Slots = append([]string(nil), svc.Slots...)
		s.services = append(s.services, svc)
	}
	return s
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close(context.Context) error { return nil }

func (s *Store) ListServiceNames(context.Context) ([]models.ServiceName, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]models.ServiceName, 0, len(s.services))
	for _, svc := range s.services {
		names = append(names, models.ServiceName{ID: svc.ID, Name: svc.Name})
	}
	return names, nil
}

// ListServices returns copies; callers may mutate them freely.
func (s *Store) ListServices(context.Context) ([]models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Service, 0, len(s.services))
	for _, svc := range s.services {
		svc.Slots = append([]string(nil), svc.Slots...)
		out = append(out, svc)
	}
	return out, nil
}

func (s *Store) InsertBookingIfAbsent(_ context.Context, b models.Booking) (models.Booking, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := bookingKey{b.TreatmentName, b.PatientName, b.AppointmentDate}
	if i, ok := s.bookingIdx[key]; ok {
		return s.bookings[i], false, nil
	}
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	s.bookingIdx[key] = len(s.bookings)
	s.bookings = append(s.bookings, b)
	return b, true, nil
}

func (s *Store) ListBookingsByDate(_ context.Context, date string) ([]models.Booking, error) {
	return s.filterBookings(func(b models.Booking) bool { return b.AppointmentDate == date }), nil
}

func (s *Store) ListBookingsByPatient(_ context.Context, email string) ([]models.Booking, error) {
	return s.filterBookings(func(b models.Booking) bool { return b.PatientEmail == email }), nil
}

func (s *Store) filterBookings(keep func(models.Booking) bool) []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Booking, 0)
	for _, b := range s.bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func (s *Store) FindBookingByID(_ context.Context, id primitive.ObjectID) (models.Booking, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.bookings {
		if b.ID == id {
			return b, true, nil
		}
	}
	return models.Booking{}, false, nil
}

func (s *Store) MarkBookingPaid(_ context.Context, id primitive.ObjectID, transactionID string) (models.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := models.UpdateResult{Acknowledged: true}
	for i := range s.bookings {
		if s.bookings[i].ID != id {
			continue
		}
		res.MatchedCount = 1
		if !s.bookings[i].Paid || s.bookings[i].TransactionID != transactionID {
			res.ModifiedCount = 1
		}
		s.bookings[i].Paid = true
		s.bookings[i].TransactionID = transactionID
		break
	}
	return res, nil
}

func (s *Store) InsertPayment(_ context.Context, p models.Payment) (models.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	s.payments = append(s.payments, p)
	return models.InsertResult{Acknowledged: true, InsertedID: p.ID.Hex()}, nil
}

func (s *Store) DeletePayment(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.payments {
		if p.ID == id {
			s.payments = append(s.payments[:i], s.payments[i+1:]...)
			break
		}
	}
	return nil
}

// Payments returns a snapshot of the payment log.
func (s *Store) Payments() []models.Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Payment(nil), s.payments...)
}

// BookingCount returns the number of stored bookings.
func (s *Store) BookingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bookings)
}
