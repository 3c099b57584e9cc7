package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/mdrakibmia99/hospital-management-system-server/internal/apperr"
)

// respondError aborts the request with the status for err's kind and a
// {"message": ...} body.
func (a *API) respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)
	if status >= 500 {
		a.logger.Error().Err(err).Str("kind", string(kind)).Str("request_id", c.GetString(requestIDKey)).Msg("request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{"message": apperr.MessageOf(err)})
}

func (a *API) respondBindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(apperr.HTTPStatus(apperr.KindValidation), gin.H{"message": err.Error()})
}
