package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karim076/dvd-rental/internal/model"
	"github.com/karim076/dvd-rental/internal/rental"
	"github.com/karim076/dvd-rental/internal/repository"
	"github.com/karim076/dvd-rental/internal/validation"
)

// fakeService lets each test script exactly one Service behaviour per call.
type fakeService struct {
	createFn      func(ctx context.Context, customerID, filmID int64) (*rental.Created, error)
	payFn         func(ctx context.Context, customerID, rentalID int64, amount float64) error
	cancelFn      func(ctx context.Context, customerID, rentalID int64) error
	returnFn      func(ctx context.Context, customerID, rentalID int64) error
	extendFn      func(ctx context.Context, customerID, rentalID int64) error
	activateFn    func(ctx context.Context, rentalID int64) error
	rentalsDataFn func(ctx context.Context, customerID int64) (*rental.Dashboard, error)
	availableFn   func(ctx context.Context, filmID int64) (int, error)
}

func (f *fakeService) Create(ctx context.Context, customerID, filmID int64) (*rental.Created, error) {
	return f.createFn(ctx, customerID, filmID)
}

func (f *fakeService) Pay(ctx context.Context, customerID, rentalID int64, amount float64) error {
	return f.payFn(ctx, customerID, rentalID, amount)
}

func (f *fakeService) Cancel(ctx context.Context, customerID, rentalID int64) error {
	return f.cancelFn(ctx, customerID, rentalID)
}

func (f *fakeService) Return(ctx context.Context, customerID, rentalID int64) error {
	return f.returnFn(ctx, customerID, rentalID)
}

func (f *fakeService) Extend(ctx context.Context, customerID, rentalID int64) error {
	return f.extendFn(ctx, customerID, rentalID)
}

func (f *fakeService) Activate(ctx context.Context, rentalID int64) error {
	return f.activateFn(ctx, rentalID)
}

func (f *fakeService) RentalsData(ctx context.Context, customerID int64) (*rental.Dashboard, error) {
	return f.rentalsDataFn(ctx, customerID)
}

func (f *fakeService) AvailableCount(ctx context.Context, filmID int64) (int, error) {
	return f.availableFn(ctx, filmID)
}

func (f *fakeService) RunRecovery(ctx context.Context) (rental.RecoveryReport, error) {
	return rental.RecoveryReport{}, nil
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validation.New()
	return e
}

// newCustomerContext builds an Echo context carrying the claims JWTAuth
// would have set, plus the :id path parameter when one is given.
func newCustomerContext(e *echo.Echo, method, target, body string, userID interface{}, rentalID string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != nil {
		c.Set("user_id", userID)
	}
	c.Set("role", "CUSTOMER")
	if rentalID != "" {
		c.SetParamNames("id")
		c.SetParamValues(rentalID)
	}
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRentalsData_OK(t *testing.T) {
	e := newTestEcho()
	svc := &fakeService{
		rentalsDataFn: func(ctx context.Context, customerID int64) (*rental.Dashboard, error) {
			assert.Equal(t, int64(7), customerID)
			return &rental.Dashboard{
				Rentals: []repository.RentalDetail{{RentalID: 1, FilmTitle: "ACADEMY DINOSAUR", Amount: 2.99, Status: model.StatusPaid}},
				Stats:   model.RentalStats{Paid: 1, PaidAmount: 2.99, TotalSpent: 2.99},
			}, nil
		},
	}
	h := NewCustomerRentalHandler(svc)

	c, rec := newCustomerContext(e, http.MethodGet, "/customer/rentals-data", "", "7", "")
	require.NoError(t, h.RentalsData(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["rentals"], 1)
	stats := body["stats"].(map[string]interface{})
	assert.EqualValues(t, 1, stats["paid"])
	assert.InDelta(t, 2.99, stats["paid_amount"], 1e-9)
}

func TestRentalsData_MissingClaim(t *testing.T) {
	e := newTestEcho()
	h := NewCustomerRentalHandler(&fakeService{})

	c, rec := newCustomerContext(e, http.MethodGet, "/customer/rentals-data", "", nil, "")
	require.NoError(t, h.RentalsData(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPay_OK(t *testing.T) {
	e := newTestEcho()
	var gotCustomer, gotRental int64
	var gotAmount float64
	svc := &fakeService{
		payFn: func(ctx context.Context, customerID, rentalID int64, amount float64) error {
			gotCustomer, gotRental, gotAmount = customerID, rentalID, amount
			return nil
		},
	}
	h := NewCustomerRentalHandler(svc)

	c, rec := newCustomerContext(e, http.MethodPost, "/customer/rentals/12/pay", `{"amount":2.99}`, "7", "12")
	require.NoError(t, h.Pay(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), gotCustomer)
	assert.Equal(t, int64(12), gotRental)
	assert.InDelta(t, 2.99, gotAmount, 1e-9)
	assert.Equal(t, true, decodeBody(t, rec)["success"])
}

func TestPay_FloatSubjectClaim(t *testing.T) {
	e := newTestEcho()
	var gotCustomer int64
	svc := &fakeService{
		payFn: func(ctx context.Context, customerID, rentalID int64, amount float64) error {
			gotCustomer = customerID
			return nil
		},
	}
	h := NewCustomerRentalHandler(svc)

	c, rec := newCustomerContext(e, http.MethodPost, "/customer/rentals/12/pay", `{"amount":2.99}`, float64(7), "12")
	require.NoError(t, h.Pay(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), gotCustomer)
}

func TestPay_ValidationFailures(t *testing.T) {
	e := newTestEcho()
	h := NewCustomerRentalHandler(&fakeService{})

	for _, body := range []string{`{}`, `{"amount":0}`, `{"amount":-1}`} {
		c, rec := newCustomerContext(e, http.MethodPost, "/customer/rentals/12/pay", body, "7", "12")
		require.NoError(t, h.Pay(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestPay_BadRentalID(t *testing.T) {
	e := newTestEcho()
	h := NewCustomerRentalHandler(&fakeService{})

	c, rec := newCustomerContext(e, http.MethodPost, "/customer/rentals/abc/pay", `{"amount":2.99}`, "7", "abc")
	require.NoError(t, h.Pay(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPay_ErrorMapping(t *testing.T) {
	e := newTestEcho()
	cases := []struct {
		err  error
		code int
	}{
		{rental.ErrNotFound, http.StatusNotFound},
		{rental.ErrInvalidTransition, http.StatusConflict},
		{rental.ErrPaymentMismatch, http.StatusBadRequest},
	}
	for _, tc := range cases {
		svc := &fakeService{
			payFn: func(ctx context.Context, customerID, rentalID int64, amount float64) error {
				return tc.err
			},
		}
		h := NewCustomerRentalHandler(svc)
		c, rec := newCustomerContext(e, http.MethodPost, "/customer/rentals/12/pay", `{"amount":2.99}`, "7", "12")
		require.NoError(t, h.Pay(c))
		assert.Equal(t, tc.code, rec.Code, tc.err)
		assert.Equal(t, false, decodeBody(t, rec)["success"])
	}
}

func TestCancel_OK(t *testing.T) {
	e := newTestEcho()
	svc := &fakeService{
		cancelFn: func(ctx context.Context, customerID, rentalID int64) error { return nil },
	}
	h := NewCustomerRentalHandler(svc)

	c, rec := newCustomerContext(e, http.MethodDelete, "/customer/rentals/12/cancel", "", "7", "12")
	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCancel_AfterPaymentConflicts(t *testing.T) {
	e := newTestEcho()
	svc := &fakeService{
		cancelFn: func(ctx context.Context, customerID, rentalID int64) error {
			return rental.ErrInvalidTransition
		},
	}
	h := NewCustomerRentalHandler(svc)

	c, rec := newCustomerContext(e, http.MethodDelete, "/customer/rentals/12/cancel", "", "7", "12")
	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestReturn_OK(t *testing.T) {
	e := newTestEcho()
	svc := &fakeService{
		returnFn: func(ctx context.Context, customerID, rentalID int64) error { return nil },
	}
	h := NewCustomerRentalHandler(svc)

	c, rec := newCustomerContext(e, http.MethodPost, "/customer/rentals/12/return", "", "7", "12")
	require.NoError(t, h.Return(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExtend_ForeignRentalIsNotFound(t *testing.T) {
	e := newTestEcho()
	svc := &fakeService{
		extendFn: func(ctx context.Context, customerID, rentalID int64) error {
			return rental.ErrNotFound
		},
	}
	h := NewCustomerRentalHandler(svc)

	c, rec := newCustomerContext(e, http.MethodPost, "/customer/rentals/12/extend", "", "7", "12")
	require.NoError(t, h.Extend(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

var _ rental.Service = (*fakeService)(nil)
