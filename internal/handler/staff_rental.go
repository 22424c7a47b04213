package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/karim076/dvd-rental/internal/rental"
	"github.com/labstack/echo/v4"
)

// StaffRentalHandler exposes the back-office surface: quick rental
// creation, the physical hand-out step, and the availability lookup staff
// use while a customer is standing at the counter. Requires the STAFF role.
type StaffRentalHandler struct {
	Svc rental.Service
}

// NewStaffRentalHandler constructs the handler. The service must be
// non-nil.
func NewStaffRentalHandler(svc rental.Service) *StaffRentalHandler {
	if svc == nil {
		panic("nil service passed to NewStaffRentalHandler")
	}
	return &StaffRentalHandler{Svc: svc}
}

// CreateRental handles POST /staff/api/rentals. On success it returns the
// new rental's ID and the end of its rental window; the due date travels
// under the return_date key to preserve the existing client contract.
func (h *StaffRentalHandler) CreateRental(c echo.Context) error {
	var body struct {
		CustomerID int64 `json:"customer_id" validate:"required,gt=0"`
		FilmID     int64 `json:"film_id" validate:"required,gt=0"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "customer_id and film_id are required"})
	}
	created, err := h.Svc.Create(c.Request().Context(), body.CustomerID, body.FilmID)
	if err != nil {
		switch {
		case errors.Is(err, rental.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "unknown customer or film"})
		case errors.Is(err, rental.ErrNoAvailableCopy):
			return c.JSON(http.StatusConflict, echo.Map{"message": "no available copy"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"rental_id":   created.RentalID,
		"return_date": created.DueDate.UTC().Format(time.RFC3339),
	})
}

// Activate handles POST /staff/api/rentals/:id/activate. It records the
// hand-out of the disc, moving a pending or paid rental to rented. Payment
// alone never implies possession; this step is the only path to rented.
func (h *StaffRentalHandler) Activate(c echo.Context) error {
	rentalID, err := rentalParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid rental id"})
	}
	if err := h.Svc.Activate(c.Request().Context(), rentalID); err != nil {
		return rentalError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "rental activated"})
}

// Availability handles GET /staff/api/films/:id/availability. Pure read of
// the derived availability count; no state is touched.
func (h *StaffRentalHandler) Availability(c echo.Context) error {
	filmID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || filmID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid film id"})
	}
	count, err := h.Svc.AvailableCount(c.Request().Context(), filmID)
	if err != nil {
		if errors.Is(err, rental.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "film not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"film_id":         filmID,
		"available_count": count,
	})
}
