package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"log/slog"

	"storefront/internal/service"
)

// Envelope is the response shape shared by every endpoint.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
	Total      int64 `json:"total"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

func NewPagination(page, limit int, total int64) *Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &Pagination{
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		Total:      total,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

func okData(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, Envelope{Success: true, Data: data})
}

func okMessage(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

func okPage(c echo.Context, data interface{}, p *Pagination) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Pagination: p})
}

// ErrorHandler renders errors that escape the handlers, such as routing
// misses, in the shared envelope shape.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		if s, ok := he.Message.(string); ok {
			message = s
		} else {
			message = http.StatusText(status)
		}
	}

	if err := c.JSON(status, Envelope{Success: false, Message: message}); err != nil {
		c.Logger().Error(err)
	}
}

// statusOf maps a service error to its HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail renders an error in the envelope shape. Internal errors are logged
// with their cause but leave the body with a generic message.
func fail(c echo.Context, l *slog.Logger, op string, err error) error {
	status := statusOf(err)
	msg := reasonOf(err, status)

	if status >= 500 {
		l.Error(op+"_error", "status", status, "error", err)
	} else {
		l.Warn(op+"_error", "status", status, "error", err)
	}
	return c.JSON(status, Envelope{Success: false, Message: msg})
}

func failBind(c echo.Context, l *slog.Logger, op string, err error) error {
	l.Warn(op+"_error", "status", 400, "error", err)
	return c.JSON(http.StatusBadRequest, Envelope{Success: false, Message: "Invalid request body"})
}

func reasonOf(err error, status int) string {
	switch status {
	case http.StatusBadRequest:
		return service.Reason(err, service.ErrValidation)
	case http.StatusUnauthorized:
		return service.Reason(err, service.ErrUnauthorized)
	case http.StatusForbidden:
		return service.Reason(err, service.ErrForbidden)
	case http.StatusNotFound:
		return service.Reason(err, service.ErrNotFound)
	case http.StatusConflict:
		return service.Reason(err, service.ErrConflict)
	case http.StatusServiceUnavailable:
		return service.Reason(err, service.ErrUnavailable)
	default:
		return "Internal server error"
	}
}
