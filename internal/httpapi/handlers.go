package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mdrakibmia99/hospital-management-system-server/internal/apperr"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/models"
)

func (a *API) handleRoot(c *gin.Context) {
	c.String(http.StatusOK, "Doctors portal server is running")
}

func (a *API) handleHealthz(c *gin.Context) {
	if a.health != nil {
		if err := a.health.Ping(c.Request.Context()); err != nil {
			a.logger.Warn().Err(err).Msg("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (a *API) handleGetServices(c *gin.Context) {
	services, err := a.catalog.ListServices(c.Request.Context())
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

func (a *API) handleGetAvailable(c *gin.Context) {
	options, err := a.availability.Compute(c.Request.Context(), c.Query("date"))
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, options)
}

func (a *API) handlePostBooking(c *gin.Context) {
	var booking models.Booking
	if err := c.ShouldBindJSON(&booking); err != nil {
		a.respondBindError(c, err)
		return
	}

	result, created, err := a.bookings.Create(c.Request.Context(), booking)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": created, "result": result})
}

func (a *API) handleGetBookings(c *gin.Context) {
	email, _ := callerEmail(c)
	bookings, err := a.bookings.ListForPatient(c.Request.Context(), c.Query("email"), email)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (a *API) handleGetBookingByID(c *gin.Context) {
	id, ok := a.objectIDParam(c)
	if !ok {
		return
	}
	booking, err := a.bookings.Get(c.Request.Context(), id)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (a *API) handlePatchBooking(c *gin.Context) {
	id, ok := a.objectIDParam(c)
	if !ok {
		return
	}
	var payment models.Payment
	if err := c.ShouldBindJSON(&payment); err != nil {
		a.respondBindError(c, err)
		return
	}

	result, err := a.bookings.RecordPayment(c.Request.Context(), id, payment)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type paymentIntentRequest struct {
	Price float64 `json:"price"`
}

func (a *API) handleCreatePaymentIntent(c *gin.Context) {
	var req paymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.respondBindError(c, err)
		return
	}

	intent, err := a.payments.CreateIntent(c.Request.Context(), req.Price)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clientSecret": intent.ClientSecret})
}

func (a *API) handlePutUser(c *gin.Context) {
	var profile models.User
	if err := c.ShouldBindJSON(&profile); err != nil {
		a.respondBindError(c, err)
		return
	}

	result, token, err := a.directory.UpsertUser(c.Request.Context(), c.Param("email"), profile)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result, "token": token})
}

func (a *API) handlePutUserAdmin(c *gin.Context) {
	email, _ := callerEmail(c)
	result, token, err := a.directory.PromoteToAdmin(c.Request.Context(), c.Param("email"), email)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result, "token": token})
}

func (a *API) handleGetAdmin(c *gin.Context) {
	isAdmin, err := a.directory.IsAdmin(c.Request.Context(), c.Param("email"))
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admin": isAdmin})
}

func (a *API) handleGetDoctorRole(c *gin.Context) {
	isDoctor, err := a.directory.IsDoctor(c.Request.Context(), c.Param("email"))
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"doctor": isDoctor})
}

func (a *API) handleGetUsers(c *gin.Context) {
	users, err := a.directory.ListUsers(c.Request.Context())
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (a *API) handleDeleteUser(c *gin.Context) {
	result, err := a.directory.DeleteUser(c.Request.Context(), c.Param("email"))
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (a *API) handlePostDoctor(c *gin.Context) {
	var doctor models.Doctor
	if err := c.ShouldBindJSON(&doctor); err != nil {
		a.respondBindError(c, err)
		return
	}

	result, err := a.directory.AddDoctor(c.Request.Context(), doctor)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (a *API) handleGetDoctors(c *gin.Context) {
	doctors, err := a.directory.ListDoctors(c.Request.Context())
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doctors)
}

func (a *API) handleDeleteDoctor(c *gin.Context) {
	result, err := a.directory.DeleteDoctor(c.Request.Context(), c.Param("email"))
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (a *API) handlePostOncologist(c *gin.Context) {
	var doctor models.Doctor
	if err := c.ShouldBindJSON(&doctor); err != nil {
		a.respondBindError(c, err)
		return
	}

	result, err := a.directory.AddOncologist(c.Request.Context(), doctor)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (a *API) handleGetOncologists(c *gin.Context) {
	doctors, err := a.directory.ListOncologists(c.Request.Context())
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doctors)
}

func (a *API) handleGetReviews(c *gin.Context) {
	reviews, err := a.directory.ListReviews(c.Request.Context())
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (a *API) handlePutReview(c *gin.Context) {
	var review models.Review
	if err := c.ShouldBindJSON(&review); err != nil {
		a.respondBindError(c, err)
		return
	}

	result, err := a.directory.SubmitReview(c.Request.Context(), c.Param("email"), review)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (a *API) handleContactPost(c *gin.Context) {
	var contact models.Contact
	if err := c.ShouldBindJSON(&contact); err != nil {
		a.respondBindError(c, err)
		return
	}

	result, err := a.directory.SubmitContact(c.Request.Context(), contact)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (a *API) objectIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		a.respondError(c, apperr.Validation("invalid booking id"))
		return primitive.NilObjectID, false
	}
	return id, true
}
