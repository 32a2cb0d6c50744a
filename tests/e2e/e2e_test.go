package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"fieldbook/internal/database"
	"fieldbook/internal/domain"
	"fieldbook/internal/middleware"
	"fieldbook/internal/modules/availability"
	"fieldbook/internal/modules/booking"
	"fieldbook/internal/modules/payment"
	jwtsvc "fieldbook/internal/pkg/jwt"
	"fieldbook/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testDPAmount      = 50000
	testPaymentWindow = time.Hour
	testCancelCutoff  = 24 * time.Hour
)

type E2ETestSuite struct {
	router *gin.Engine
	db     *gorm.DB

	fieldID       int64
	customerToken string
	intruderToken string
	cashierToken  string
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, repository.AutoMigrate(db))

	fieldRepo := repository.NewFieldRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	txm := repository.NewTxManager(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)

	checker := availability.NewService(fieldRepo, bookingRepo, 1, 12)
	bookingService := booking.NewService(
		bookingRepo, fieldRepo, paymentRepo, checker,
		nil, nil,
		testPaymentWindow, testCancelCutoff,
	)
	bookingHandler := booking.NewHandler(bookingService)

	paymentService := payment.NewService(
		paymentRepo, bookingRepo, txm,
		nil, nil,
		testDPAmount,
	)
	paymentHandler := payment.NewHandler(paymentService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	protected := v1.Group("")
	protected.Use(middleware.Auth(jwtService))
	{
		bookingHandler.RegisterRoutes(protected)
		paymentHandler.RegisterRoutes(protected)
	}

	// One open field: 08:00-22:00 at 100000/hour.
	field := &domain.Field{
		Name:         "Field A",
		OpenHour:     8,
		CloseHour:    22,
		PricePerHour: 100000,
		Status:       domain.FieldAvailable,
	}
	require.NoError(t, fieldRepo.Create(context.Background(), field))

	customerToken, err := jwtService.GenerateToken(1, domain.RoleCustomer)
	require.NoError(t, err)
	intruderToken, err := jwtService.GenerateToken(2, domain.RoleCustomer)
	require.NoError(t, err)
	cashierToken, err := jwtService.GenerateToken(100, domain.RoleCashier)
	require.NoError(t, err)

	return &E2ETestSuite{
		router:        r,
		db:            db,
		fieldID:       field.ID,
		customerToken: customerToken,
		intruderToken: intruderToken,
		cashierToken:  cashierToken,
	}
}

func (s *E2ETestSuite) makeRequest(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) *TestResponse {
	t.Helper()

	var resp TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp),
		"unparseable response, status %d, body %s", w.Code, w.Body.String())
	return &resp
}

func extractID(t *testing.T, resp *TestResponse, key string) int64 {
	t.Helper()

	obj, ok := resp.Data[key].(map[string]interface{})
	require.True(t, ok, "response data has no %q object: %+v", key, resp.Data)
	idVal, ok := obj["id"].(float64)
	require.True(t, ok, "%q object has no id: %+v", key, obj)
	return int64(idVal)
}

func bookingDate() string {
	return time.Now().UTC().Add(72 * time.Hour).Format("2006-01-02")
}

// Happy path: check availability, book, pay in full, cashier approves.
func TestFlow_BookAndPayInFull(t *testing.T) {
	suite := setupTestSuite(t)
	date := bookingDate()

	t.Run("GET /fields/:id/availability", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/fields/%d/availability?date=%s&start_hour=10&duration_hours=2", suite.fieldID, date)
		w := suite.makeRequest(t, "GET", path, nil, suite.customerToken)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := parseResponse(t, w)
		assert.True(t, resp.Success)
		assert.Equal(t, true, resp.Data["available"])
	})

	var bookingID int64
	t.Run("POST /bookings", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", "/api/v1/bookings", map[string]interface{}{
			"field_id":       suite.fieldID,
			"date":           date,
			"start_hour":     10,
			"duration_hours": 2,
		}, suite.customerToken)

		require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
		resp := parseResponse(t, w)
		require.True(t, resp.Success)

		bookingID = extractID(t, resp, "booking")
		b := resp.Data["booking"].(map[string]interface{})
		assert.Equal(t, float64(200000), b["price"])
		assert.Equal(t, "pending", b["status"])
		assert.Equal(t, "no_payment", b["payment_status"])
	})

	t.Run("POST /bookings overlapping slot is rejected", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", "/api/v1/bookings", map[string]interface{}{
			"field_id":       suite.fieldID,
			"date":           date,
			"start_hour":     11,
			"duration_hours": 1,
		}, suite.intruderToken)

		assert.Equal(t, http.StatusConflict, w.Code)
		resp := parseResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "CONFLICT", resp.Error.Code)

		details, ok := resp.Error.Details.(map[string]interface{})
		require.True(t, ok, "conflict must carry the clashing booking")
		assert.Equal(t, float64(bookingID), details["booking_id"])
		assert.Equal(t, float64(10), details["start_hour"])
		assert.Equal(t, float64(12), details["end_hour"])
	})

	t.Run("GET /bookings/:id/status before payment", func(t *testing.T) {
		w := suite.makeRequest(t, "GET", fmt.Sprintf("/api/v1/bookings/%d/status", bookingID), nil, suite.customerToken)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := parseResponse(t, w)

		progress := resp.Data["progress"].(map[string]interface{})
		assert.Equal(t, float64(1), progress["completed_steps"])
		assert.Equal(t, float64(4), progress["total_steps"])
		assert.Equal(t, float64(25), progress["completion_percentage"])
		assert.Equal(t, "upload_payment", progress["next_action"])

		timeline := resp.Data["timeline"].([]interface{})
		assert.Len(t, timeline, 4)
	})

	t.Run("POST /payments wrong amount is rejected", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", "/api/v1/payments", map[string]interface{}{
			"booking_id": bookingID,
			"type":       "full",
			"amount":     150000,
			"proof_ref":  "transfer-001.jpg",
		}, suite.customerToken)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	var paymentID int64
	t.Run("POST /payments", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", "/api/v1/payments", map[string]interface{}{
			"booking_id": bookingID,
			"type":       "full",
			"amount":     200000,
			"proof_ref":  "transfer-001.jpg",
			"transfer_details": map[string]interface{}{
				"bank_name":      "BCA",
				"account_name":   "Budi Santoso",
				"account_number": "1234567890",
			},
		}, suite.customerToken)

		require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
		resp := parseResponse(t, w)
		paymentID = extractID(t, resp, "payment")

		// Booking moved to pending_verification.
		w = suite.makeRequest(t, "GET", fmt.Sprintf("/api/v1/bookings/%d/status", bookingID), nil, suite.customerToken)
		resp = parseResponse(t, w)
		assert.Equal(t, "pending_verification", resp.Data["payment_status"])
		progress := resp.Data["progress"].(map[string]interface{})
		assert.Equal(t, "wait_verification", progress["next_action"])
	})

	t.Run("GET /cashier/payments requires the cashier role", func(t *testing.T) {
		w := suite.makeRequest(t, "GET", "/api/v1/cashier/payments", nil, suite.customerToken)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = suite.makeRequest(t, "GET", "/api/v1/cashier/payments", nil, suite.cashierToken)
		assert.Equal(t, http.StatusOK, w.Code)
		resp := parseResponse(t, w)
		payments := resp.Data["payments"].([]interface{})
		assert.Len(t, payments, 1)
	})

	t.Run("POST /cashier/payments/:id/approve", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", fmt.Sprintf("/api/v1/cashier/payments/%d/approve", paymentID), map[string]interface{}{
			"notes": "matches bank statement",
		}, suite.cashierToken)

		require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
		resp := parseResponse(t, w)
		p := resp.Data["payment"].(map[string]interface{})
		assert.Equal(t, "verified", p["status"])

		w = suite.makeRequest(t, "GET", fmt.Sprintf("/api/v1/bookings/%d/status", bookingID), nil, suite.customerToken)
		resp = parseResponse(t, w)
		assert.Equal(t, "confirmed", resp.Data["booking_status"])
		assert.Equal(t, "fully_paid", resp.Data["payment_status"])
		progress := resp.Data["progress"].(map[string]interface{})
		assert.Equal(t, float64(100), progress["completion_percentage"])
		assert.Equal(t, "none", progress["next_action"])
	})

	t.Run("POST /cashier/payments/:id/approve twice", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", fmt.Sprintf("/api/v1/cashier/payments/%d/approve", paymentID), nil, suite.cashierToken)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := parseResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "STATE_ERROR", resp.Error.Code)
	})
}

// Rejection cycle: DP payment rejected, resubmitted, then approved.
func TestFlow_RejectAndResubmit(t *testing.T) {
	suite := setupTestSuite(t)
	date := bookingDate()

	w := suite.makeRequest(t, "POST", "/api/v1/bookings", map[string]interface{}{
		"field_id":       suite.fieldID,
		"date":           date,
		"start_hour":     14,
		"duration_hours": 2,
	}, suite.customerToken)
	require.Equal(t, http.StatusCreated, w.Code)
	bookingID := extractID(t, parseResponse(t, w), "booking")

	var firstPaymentID int64
	t.Run("submit DP payment", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", "/api/v1/payments", map[string]interface{}{
			"booking_id": bookingID,
			"type":       "dp",
			"amount":     testDPAmount,
			"proof_ref":  "transfer-dp-001.jpg",
		}, suite.customerToken)

		require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
		firstPaymentID = extractID(t, parseResponse(t, w), "payment")
	})

	t.Run("reject without a usable reason fails", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", fmt.Sprintf("/api/v1/cashier/payments/%d/reject", firstPaymentID), map[string]interface{}{
			"reason": "bad",
		}, suite.cashierToken)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("reject resets the booking", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", fmt.Sprintf("/api/v1/cashier/payments/%d/reject", firstPaymentID), map[string]interface{}{
			"reason": "proof image unreadable",
		}, suite.cashierToken)

		require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

		w = suite.makeRequest(t, "GET", fmt.Sprintf("/api/v1/bookings/%d/status", bookingID), nil, suite.customerToken)
		resp := parseResponse(t, w)
		assert.Equal(t, "pending", resp.Data["booking_status"])
		assert.Equal(t, "no_payment", resp.Data["payment_status"])
		progress := resp.Data["progress"].(map[string]interface{})
		assert.Equal(t, "reupload_payment", progress["next_action"])
	})

	var secondPaymentID int64
	t.Run("resubmission supersedes the rejected payment", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", "/api/v1/payments", map[string]interface{}{
			"booking_id": bookingID,
			"type":       "dp",
			"amount":     testDPAmount,
			"proof_ref":  "transfer-dp-002.jpg",
		}, suite.customerToken)

		require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
		secondPaymentID = extractID(t, parseResponse(t, w), "payment")

		w = suite.makeRequest(t, "GET", "/api/v1/payments", nil, suite.customerToken)
		resp := parseResponse(t, w)
		payments := resp.Data["payments"].([]interface{})
		require.Len(t, payments, 2)

		statuses := map[float64]string{}
		for _, raw := range payments {
			p := raw.(map[string]interface{})
			statuses[p["id"].(float64)] = p["status"].(string)
		}
		assert.Equal(t, "replaced", statuses[float64(firstPaymentID)])
		assert.Equal(t, "pending", statuses[float64(secondPaymentID)])
	})

	t.Run("approving the DP confirms with partial progress", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", fmt.Sprintf("/api/v1/cashier/payments/%d/approve", secondPaymentID), nil, suite.cashierToken)
		require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

		w = suite.makeRequest(t, "GET", fmt.Sprintf("/api/v1/bookings/%d/status", bookingID), nil, suite.customerToken)
		resp := parseResponse(t, w)
		assert.Equal(t, "confirmed", resp.Data["booking_status"])
		assert.Equal(t, "dp_confirmed", resp.Data["payment_status"])
	})
}

// Cancellation: unpaid pending bookings are removed outright.
func TestFlow_CancelPendingBooking(t *testing.T) {
	suite := setupTestSuite(t)
	date := bookingDate()

	w := suite.makeRequest(t, "POST", "/api/v1/bookings", map[string]interface{}{
		"field_id":       suite.fieldID,
		"date":           date,
		"start_hour":     16,
		"duration_hours": 1,
	}, suite.customerToken)
	require.Equal(t, http.StatusCreated, w.Code)
	bookingID := extractID(t, parseResponse(t, w), "booking")

	t.Run("someone else cannot cancel it", func(t *testing.T) {
		w := suite.makeRequest(t, "DELETE", fmt.Sprintf("/api/v1/bookings/%d", bookingID), nil, suite.intruderToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("owner cancels, slot frees up", func(t *testing.T) {
		w := suite.makeRequest(t, "DELETE", fmt.Sprintf("/api/v1/bookings/%d", bookingID), nil, suite.customerToken)
		assert.Equal(t, http.StatusOK, w.Code)

		w = suite.makeRequest(t, "GET", fmt.Sprintf("/api/v1/bookings/%d/status", bookingID), nil, suite.customerToken)
		assert.Equal(t, http.StatusNotFound, w.Code)

		// The freed slot can be booked again, by anyone.
		w = suite.makeRequest(t, "POST", "/api/v1/bookings", map[string]interface{}{
			"field_id":       suite.fieldID,
			"date":           date,
			"start_hour":     16,
			"duration_hours": 1,
		}, suite.intruderToken)
		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

// Input validation surfaces as 400s before anything is persisted.
func TestFlow_ValidationEdges(t *testing.T) {
	suite := setupTestSuite(t)
	date := bookingDate()

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"starts before opening", map[string]interface{}{
			"field_id": suite.fieldID, "date": date, "start_hour": 7, "duration_hours": 2,
		}},
		{"ends after closing", map[string]interface{}{
			"field_id": suite.fieldID, "date": date, "start_hour": 21, "duration_hours": 2,
		}},
		{"duration above maximum", map[string]interface{}{
			"field_id": suite.fieldID, "date": date, "start_hour": 8, "duration_hours": 13,
		}},
		{"date in the past", map[string]interface{}{
			"field_id": suite.fieldID, "date": "2020-01-01", "start_hour": 10, "duration_hours": 2,
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := suite.makeRequest(t, "POST", "/api/v1/bookings", tc.body, suite.customerToken)
			assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", w.Body.String())
		})
	}

	t.Run("unauthenticated requests are rejected", func(t *testing.T) {
		w := suite.makeRequest(t, "GET", "/api/v1/bookings", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}
