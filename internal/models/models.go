package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the access level stored on a user record.
type Role string

const (
	RoleNone   Role = ""
	RoleAdmin  Role = "admin"
	RoleDoctor Role = "doctor"
)

// Service represents a bookable treatment with its fixed daily slots
type Service struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name  string             `bson:"name" json:"name"`
	Slots []string           `bson:"slots" json:"slots"`
	Price float64            `bson:"price,omitempty" json:"price,omitempty"`
}

// ServiceName is the catalog projection of a Service.
type ServiceName struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name string             `bson:"name" json:"name"`
}

// ServiceAvailability is a Service with its slots narrowed to the open ones
// for a single date. Booked holds the time labels already taken.
type ServiceAvailability struct {
	ID     primitive.ObjectID `json:"_id"`
	Name   string             `json:"name"`
	Slots  []string           `json:"slots"`
	Booked []string           `json:"booked"`
	Price  float64            `json:"price,omitempty"`
}

// Booking represents the structure of a booking
type Booking struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	TreatmentName   string             `bson:"treatmentName" json:"treatmentName" binding:"required"`
	PatientName     string             `bson:"patientName" json:"patientName" binding:"required"`
	PatientEmail    string             `bson:"patientEmail" json:"patientEmail"`
	AppointmentDate string             `bson:"appointmentDate" json:"appointmentDate" binding:"required"`
	AppointmentTime string             `bson:"appointmentTime" json:"appointmentTime"`
	Phone           string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Price           float64            `bson:"price,omitempty" json:"price,omitempty"`
	Paid            bool               `bson:"paid,omitempty" json:"paid,omitempty"`
	TransactionID   string             `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
}

// User represents the structure of a user
type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email string             `bson:"email" json:"email"`
	Name  string             `bson:"name,omitempty" json:"name,omitempty"`
	Role  Role               `bson:"role,omitempty" json:"role,omitempty"`
}

// Doctor represents the structure of a doctor profile. Oncologists share the shape.
type Doctor struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name" binding:"required"`
	Email     string             `bson:"email" json:"email" binding:"required"`
	Specialty string             `bson:"specialty,omitempty" json:"specialty,omitempty"`
	Image     string             `bson:"img,omitempty" json:"img,omitempty"`
}

// Payment is one completed charge against a booking.
type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	BookingID     string             `bson:"bookingId" json:"bookingId"`
	TransactionID string             `bson:"transactionId" json:"transactionId" binding:"required"`
	Amount        float64            `bson:"amount,omitempty" json:"amount,omitempty"`
	PatientEmail  string             `bson:"patientEmail,omitempty" json:"patientEmail,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// Review is keyed by the reviewer's email; one per reviewer.
type Review struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ReviewerEmail string             `bson:"reviewerEmail" json:"reviewerEmail"`
	ReviewerName  string             `bson:"reviewerName,omitempty" json:"reviewerName,omitempty"`
	Rating        int                `bson:"rating,omitempty" json:"rating,omitempty"`
	Comment       string             `bson:"comment,omitempty" json:"comment,omitempty"`
	Location      string             `bson:"location,omitempty" json:"location,omitempty"`
}

// Contact represents the structure of a contact message
type Contact struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name    string             `bson:"name" json:"name" binding:"required"`
	Email   string             `bson:"email" json:"email" binding:"required"`
	Subject string             `bson:"subject" json:"subject"`
	Message string             `bson:"message" json:"message" binding:"required"`
}

// InsertResult acknowledges a single-document insert.
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// UpdateResult acknowledges a single-document update or upsert.
type UpdateResult struct {
	Acknowledged  bool   `json:"acknowledged"`
	MatchedCount  int64  `json:"matchedCount"`
	ModifiedCount int64  `json:"modifiedCount"`
	UpsertedCount int64  `json:"upsertedCount"`
	UpsertedID    string `json:"upsertedId,omitempty"`
}

// DeleteResult acknowledges a single-document delete.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}
