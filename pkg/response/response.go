package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tarekm28/Ou3a-Joura/internal/errs"
)

// Response represents a standard API response
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success sends a successful response
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Accepted sends a 202 response for queued work
func Accepted(c *gin.Context, data interface{}) {
	c.JSON(http.StatusAccepted, Response{
		Code:    0,
		Message: "accepted",
		Data:    data,
	})
}

// Error sends an error response
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// FromError maps a pipeline error to its HTTP status: bad input is the
// client's fault, a timeout or store failure is ours.
func FromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrInvalidTrip), errors.Is(err, errs.ErrInvalidQuery):
		Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrProcessingTimeout):
		Error(c, http.StatusRequestTimeout, err.Error())
	case errors.Is(err, errs.ErrStoreUnavailable):
		Error(c, http.StatusServiceUnavailable, err.Error())
	default:
		Error(c, http.StatusInternalServerError, err.Error())
	}
}
