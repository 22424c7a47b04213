package handler

import (
	"errors"   // errors.Is comparisons against the engine's sentinels
	"net/http" // HTTP status codes
	"strconv"  // parsing path parameters and numeric claims

	"github.com/karim076/dvd-rental/internal/rental" // the rental lifecycle engine
	"github.com/labstack/echo/v4"                    // Echo web framework
)

// CustomerRentalHandler exposes the customer self-service surface of the
// rental engine. All methods assume that JWT authentication and role
// validation have already been performed by middleware; the customer ID is
// taken from the token subject, never from the request body, so a customer
// can only ever act on their own rentals.
type CustomerRentalHandler struct {
	Svc rental.Service
}

// NewCustomerRentalHandler constructs the handler. The service must be
// non-nil.
func NewCustomerRentalHandler(svc rental.Service) *CustomerRentalHandler {
	if svc == nil {
		panic("nil service passed to NewCustomerRentalHandler")
	}
	return &CustomerRentalHandler{Svc: svc}
}

// RentalsData handles GET /customer/rentals-data. It returns the
// customer's full rental list joined with film info plus the aggregate
// stats block used by the dashboard header.
func (h *CustomerRentalHandler) RentalsData(c echo.Context) error {
	customerID, err := customerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}
	data, err := h.Svc.RentalsData(c.Request().Context(), customerID)
	if err != nil {
		return rentalError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"rentals": data.Rentals,
		"stats":   data.Stats,
	})
}

// Pay handles POST /customer/rentals/:id/pay. The body must carry the
// offered amount; it has to cover the rental's recorded amount.
func (h *CustomerRentalHandler) Pay(c echo.Context) error {
	customerID, err := customerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}
	rentalID, err := rentalParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid rental id"})
	}
	var body struct {
		Amount float64 `json:"amount" validate:"required,gt=0"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "amount is required and must be positive"})
	}
	if err := h.Svc.Pay(c.Request().Context(), customerID, rentalID, body.Amount); err != nil {
		return rentalError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "payment confirmed"})
}

// Cancel handles DELETE /customer/rentals/:id/cancel. Only unpaid pending
// rentals can be cancelled; the copy becomes available again immediately.
func (h *CustomerRentalHandler) Cancel(c echo.Context) error {
	customerID, err := customerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}
	rentalID, err := rentalParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid rental id"})
	}
	if err := h.Svc.Cancel(c.Request().Context(), customerID, rentalID); err != nil {
		return rentalError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "rental cancelled"})
}

// Return handles POST /customer/rentals/:id/return.
func (h *CustomerRentalHandler) Return(c echo.Context) error {
	customerID, err := customerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}
	rentalID, err := rentalParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid rental id"})
	}
	if err := h.Svc.Return(c.Request().Context(), customerID, rentalID); err != nil {
		return rentalError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "rental returned"})
}

// Extend handles POST /customer/rentals/:id/extend. The due date moves
// forward by the configured extension window; amount and status stay put.
func (h *CustomerRentalHandler) Extend(c echo.Context) error {
	customerID, err := customerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}
	rentalID, err := rentalParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid rental id"})
	}
	if err := h.Svc.Extend(c.Request().Context(), customerID, rentalID); err != nil {
		return rentalError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "rental extended"})
}

// customerID extracts the authenticated customer from the context. JWTAuth
// stores the raw subject claim; numeric subjects decode as float64 while
// string subjects stay strings, so both are handled.
func customerID(c echo.Context) (int64, error) {
	switch v := c.Get("user_id").(type) {
	case string:
		return strconv.ParseInt(v, 10, 64)
	case float64:
		return int64(v), nil
	case int64:
		return v, nil
	}
	return 0, echo.ErrUnauthorized
}

// rentalParam parses the :id path parameter.
func rentalParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.ErrBadRequest
	}
	return id, nil
}

// rentalError translates the engine's error taxonomy into the structured
// {success, message} results the frontend expects. Guard violations and
// lost races are conflicts, never crashes.
func rentalError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, rental.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "rental not found"})
	case errors.Is(err, rental.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": "action not allowed in the rental's current status"})
	case errors.Is(err, rental.ErrPaymentMismatch):
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "payment amount does not cover the rental amount"})
	case errors.Is(err, rental.ErrNoAvailableCopy):
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": "no copies available"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "internal error"})
}
