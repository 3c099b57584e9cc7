// Package booking creates and queries appointment bookings and records their payments.
package booking

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mdrakibmia99/hospital-management-system-server/internal/apperr"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/auth"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/events"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/metrics"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/models"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/notify"
)

// Store persists bookings. InsertBookingIfAbsent must be atomic with respect
// to the (treatmentName, patientName, appointmentDate) triple.
type Store interface {
	InsertBookingIfAbsent(ctx context.Context, b models.Booking) (models.Booking, bool, error)
	ListBookingsByPatient(ctx context.Context, email string) ([]models.Booking, error)
	FindBookingByID(ctx context.Context, id primitive.ObjectID) (models.Booking, bool, error)
	MarkBookingPaid(ctx context.Context, id primitive.ObjectID, transactionID string) (models.UpdateResult, error)
}

// PaymentLog is the append-only payment record.
type PaymentLog interface {
	InsertPayment(ctx context.Context, p models.Payment) (models.InsertResult, error)
	DeletePayment(ctx context.Context, id primitive.ObjectID) error
}

type Config struct {
	Bookings Store
	Payments PaymentLog
	Events   events.Publisher
	Mailer   notify.Mailer
	Metrics  *metrics.Metrics
	Logger   zerolog.Logger
}

type Service struct {
	bookings Store
	payments PaymentLog
	events   events.Publisher
	mailer   notify.Mailer
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	now      func() time.Time

	mailTimeout time.Duration
	pending     sync.WaitGroup
}

func NewService(cfg Config) *Service {
	if cfg.Events == nil {
		cfg.Events = events.Nop{}
	}
	if cfg.Mailer == nil {
		cfg.Mailer = notify.Nop{}
	}
	return &Service{
		bookings: cfg.Bookings,
		payments: cfg.Payments,
		events:   cfg.Events,
		mailer:   cfg.Mailer,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
		now:      time.Now,

		mailTimeout: 10 * time.Second,
	}
}

// Create stores b unless the patient already holds a booking for the same
// treatment on the same date. In that case the existing booking is returned
// with created=false; it is never overwritten.
func (s *Service) Create(ctx context.Context, b models.Booking) (models.Booking, bool, error) {
	if b.TreatmentName == "" || b.PatientName == "" || b.AppointmentDate == "" {
		return models.Booking{}, false, apperr.Validation("treatmentName, patientName and appointmentDate are required")
	}
	b.ID = primitive.NilObjectID
	b.Paid = false
	b.TransactionID = ""

	stored, created, err := s.bookings.InsertBookingIfAbsent(ctx, b)
	if err != nil {
		s.metrics.ObserveBooking(metrics.OutcomeError)
		return models.Booking{}, false, apperr.Internal("failed to insert booking", err)
	}
	if !created {
		s.metrics.ObserveBooking(metrics.BookingDuplicate)
		s.logger.Info().Str("booking_id", stored.ID.Hex()).Str("date", b.AppointmentDate).Msg("booking already exists")
		return stored, false, nil
	}

	s.metrics.ObserveBooking(metrics.BookingCreated)
	s.logger.Info().Str("booking_id", stored.ID.Hex()).Str("treatment", stored.TreatmentName).Str("date", stored.AppointmentDate).Msg("booking created")

	ev := events.New(events.TypeBookingCreated, stored.ID.Hex())
	ev.PatientEmail = stored.PatientEmail
	ev.Treatment = stored.TreatmentName
	ev.Date = stored.AppointmentDate
	ev.Time = stored.AppointmentTime
	s.publish(ctx, ev)

	if stored.PatientEmail != "" {
		s.sendConfirmation(ctx, stored)
	}
	return stored, true, nil
}

// sendConfirmation mails the patient in the background. Failures are logged
// and never reach the caller.
func (s *Service) sendConfirmation(ctx context.Context, b models.Booking) {
	mailCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.mailTimeout)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer cancel()
		if err := s.mailer.Send(mailCtx, notify.BookingConfirmation(b)); err != nil {
			s.logger.Warn().Err(err).Str("booking_id", b.ID.Hex()).Msg("booking confirmation email failed")
		}
	}()
}

// Wait blocks until queued confirmation emails have been handed to the
// mailer or ctx is done.
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ListForPatient returns the bookings of email. Only the patient may list them.
func (s *Service) ListForPatient(ctx context.Context, email, callerEmail string) ([]models.Booking, error) {
	if err := auth.RequireSelf(email, callerEmail); err != nil {
		return nil, err
	}
	bookings, err := s.bookings.ListBookingsByPatient(ctx, email)
	if err != nil {
		return nil, apperr.Internal("failed to fetch bookings", err)
	}
	return bookings, nil
}

func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (models.Booking, error) {
	b, found, err := s.bookings.FindBookingByID(ctx, id)
	if err != nil {
		return models.Booking{}, apperr.Internal("failed to fetch booking", err)
	}
	if !found {
		return models.Booking{}, apperr.NotFound("booking not found")
	}
	return b, nil
}

// RecordPayment appends p to the payment log and marks the booking paid.
// If the booking cannot be updated the payment record is removed again, so
// the log never holds a payment for a booking that does not show it.
func (s *Service) RecordPayment(ctx context.Context, bookingID primitive.ObjectID, p models.Payment) (models.UpdateResult, error) {
	if p.TransactionID == "" {
		return models.UpdateResult{}, apperr.Validation("transactionId is required")
	}
	p.ID = primitive.NewObjectID()
	p.BookingID = bookingID.Hex()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now().UTC()
	}

	if _, err := s.payments.InsertPayment(ctx, p); err != nil {
		s.metrics.ObservePayment(metrics.OutcomeError)
		return models.UpdateResult{}, apperr.Internal("failed to insert payment", err)
	}

	res, err := s.bookings.MarkBookingPaid(ctx, bookingID, p.TransactionID)
	if err == nil && res.MatchedCount == 0 {
		err = apperr.NotFound("booking not found")
	}
	if err != nil {
		s.compensate(ctx, p)
		if apperr.Is(err, apperr.KindNotFound) {
			return models.UpdateResult{}, err
		}
		return models.UpdateResult{}, apperr.Internal("failed to update booking", err)
	}

	s.metrics.ObservePayment(metrics.PaymentRecorded)
	s.logger.Info().Str("booking_id", p.BookingID).Str("transaction_id", p.TransactionID).Msg("payment recorded")

	ev := events.New(events.TypeBookingPaid, p.BookingID)
	ev.PatientEmail = p.PatientEmail
	ev.Transaction = p.TransactionID
	s.publish(ctx, ev)
	return res, nil
}

func (s *Service) compensate(ctx context.Context, p models.Payment) {
	// The request context may already be cancelled; the undo must still run.
	undoCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.payments.DeletePayment(undoCtx, p.ID); err != nil {
		s.metrics.ObservePayment(metrics.OutcomeError)
		s.logger.Error().Err(err).Str("payment_id", p.ID.Hex()).Str("booking_id", p.BookingID).
			Msg("payment compensation failed; payment record is orphaned")
		return
	}
	s.metrics.ObservePayment(metrics.PaymentReverted)
	s.logger.Warn().Str("payment_id", p.ID.Hex()).Str("booking_id", p.BookingID).Msg("payment record rolled back")
}

func (s *Service) publish(ctx context.Context, ev events.Event) {
	if err := s.events.Publish(ctx, ev); err != nil {
		s.logger.Warn().Err(err).Str("event", ev.Type).Str("booking_id", ev.BookingID).Msg("event publish failed")
	}
}
