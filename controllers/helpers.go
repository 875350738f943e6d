package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Ghaliaa/maxprofit_backend/models"
	"github.com/Ghaliaa/maxprofit_backend/services"
)

// serviceError maps service-layer errors onto HTTP responses so every
// controller reports the same status codes for the same failures.
func serviceError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, services.ErrUserNotFound), errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInsufficientBalance),
		errors.Is(err, services.ErrHoldingPeriod),
		errors.Is(err, services.ErrActiveInvestment),
		errors.Is(err, services.ErrNothingToClaim):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrAlreadyClaimed),
		errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
		message = err.Error()
	}

	return c.JSON(status, models.Response{
		Status:  status,
		Message: message,
	})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, models.Response{
		Status:  http.StatusBadRequest,
		Message: message,
	})
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, models.Response{
		Status:  http.StatusUnauthorized,
		Message: "Invalid or missing authentication token",
	})
}
