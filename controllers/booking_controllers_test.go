package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagebistro/reservation-app/client"
	"github.com/sagebistro/reservation-app/models"
	"github.com/sagebistro/reservation-app/router"
	"github.com/sagebistro/reservation-app/session"
	"github.com/sagebistro/reservation-app/store"
	"github.com/sagebistro/reservation-app/stubbackend"
)

type testEnv struct {
	router   *gin.Engine
	stub     *stubbackend.Server
	table    models.Table
	bookings *store.BookingStore
	done     func()
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	stub, err := stubbackend.New("test-secret")
	require.NoError(t, err)
	require.NoError(t, stub.SeedAdmin("admin@example.com", "secret123"))
	table, err := stub.SeedTable("A1", 4)
	require.NoError(t, err)

	srv := httptest.NewServer(stub.Router())

	tokens := client.NewMemoryTokenStore("")
	api := client.New(srv.URL, tokens)
	tables := store.NewTableStore(api, time.Minute)
	bookings := store.NewBookingStore(api, time.Minute)
	tables.Refresh(context.Background())
	bookings.Refresh(context.Background())

	r := router.SetupRouter(router.Deps{
		API:      api,
		Tables:   tables,
		Bookings: bookings,
		Sessions: session.NewManager(tokens, time.Minute),
	})

	return &testEnv{router: r, stub: stub, table: table, bookings: bookings, done: srv.Close}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer = bytes.NewBuffer(nil)
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	w := e.request(t, http.MethodPost, "/api/admin/login", "", map[string]string{
		"email":    "admin@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func bookingPayload(tableID, date, slot string) map[string]interface{} {
	return map[string]interface{}{
		"table_id":         tableID,
		"booking_date":     date,
		"booking_time":     slot,
		"customer_name":    "Ada Lovelace",
		"customer_email":   "ada@example.com",
		"customer_phone":   "123-456-7890",
		"number_of_guests": 2,
	}
}

type availabilityResponse struct {
	Data struct {
		Date      string   `json:"date"`
		TimeSlots []string `json:"time_slots"`
		Tables    []struct {
			Table          models.Table `json:"table"`
			Available      bool         `json:"available"`
			AvailableSlots []string     `json:"available_slots"`
		} `json:"tables"`
	} `json:"data"`
}

func TestGetAvailability(t *testing.T) {
	env := setupEnv(t)
	defer env.done()

	date := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	w := env.request(t, http.MethodGet, "/api/availability?date="+date, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp availabilityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, date, resp.Data.Date)
	assert.Len(t, resp.Data.TimeSlots, 14)
	require.Len(t, resp.Data.Tables, 1)
	assert.True(t, resp.Data.Tables[0].Available)
	assert.Len(t, resp.Data.Tables[0].AvailableSlots, 14)
}

func TestGetAvailabilityRejectsBadDate(t *testing.T) {
	env := setupEnv(t)
	defer env.done()

	w := env.request(t, http.MethodGet, "/api/availability?date=01/06/2025", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateBookingThenConflict(t *testing.T) {
	env := setupEnv(t)
	defer env.done()

	date := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	w := env.request(t, http.MethodPost, "/api/bookings", "", bookingPayload(env.table.ID, date, "14:00"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Same triple again: the upstream's uniqueness check answers conflict.
	w = env.request(t, http.MethodPost, "/api/bookings", "", bookingPayload(env.table.ID, date, "14:00"))
	assert.Equal(t, http.StatusConflict, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "choose a different time slot")

	// The forced resync already shows 14:00 as taken.
	w = env.request(t, http.MethodGet, "/api/availability?date="+date, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var avail availabilityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &avail))
	require.Len(t, avail.Data.Tables, 1)
	assert.NotContains(t, avail.Data.Tables[0].AvailableSlots, "14:00")
	assert.Len(t, avail.Data.Tables[0].AvailableSlots, 13)
}

func TestCreateBookingValidation(t *testing.T) {
	env := setupEnv(t)
	defer env.done()

	date := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	payload := bookingPayload(env.table.ID, date, "14:00")
	payload["customer_phone"] = "12345"
	w := env.request(t, http.MethodPost, "/api/bookings", "", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	payload = bookingPayload(env.table.ID, date, "14:00")
	payload["number_of_guests"] = 5 // capacity is 4
	w = env.request(t, http.MethodPost, "/api/bookings", "", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	payload = bookingPayload(env.table.ID, date, "14:30")
	w = env.request(t, http.MethodPost, "/api/bookings", "", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request(t, http.MethodPost, "/api/bookings", "", bookingPayload("no-such-table", date, "14:00"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Nothing reached the upstream: the grid is still fully open.
	w = env.request(t, http.MethodGet, "/api/availability?date="+date, "", nil)
	var avail availabilityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &avail))
	assert.Len(t, avail.Data.Tables[0].AvailableSlots, 14)
}

func TestAdminRoutesRequireSession(t *testing.T) {
	env := setupEnv(t)
	defer env.done()

	w := env.request(t, http.MethodGet, "/api/admin/bookings", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A well-formed token is not enough without a live session.
	stray := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": "intruder@example.com"})
	signed, err := stray.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)
	w = env.request(t, http.MethodGet, "/api/admin/bookings", signed, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := env.login(t)
	w = env.request(t, http.MethodGet, "/api/admin/bookings", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteTableRemovesItsBookings(t *testing.T) {
	env := setupEnv(t)
	defer env.done()

	date := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	w := env.request(t, http.MethodPost, "/api/bookings", "", bookingPayload(env.table.ID, date, "14:00"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	token := env.login(t)
	w = env.request(t, http.MethodDelete, "/api/admin/tables/"+env.table.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The table and its bookings are gone together.
	w = env.request(t, http.MethodGet, "/api/admin/bookings", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listResp struct {
		Data []models.Booking `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.Empty(t, listResp.Data)

	w = env.request(t, http.MethodGet, "/api/tables", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tablesResp struct {
		Data []models.Table `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tablesResp))
	assert.Empty(t, tablesResp.Data)
}

func TestCompleteBookingFreesSlot(t *testing.T) {
	env := setupEnv(t)
	defer env.done()

	date := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	w := env.request(t, http.MethodPost, "/api/bookings", "", bookingPayload(env.table.ID, date, "14:00"))
	require.Equal(t, http.StatusCreated, w.Code)

	var createResp struct {
		Data models.Booking `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &createResp))
	require.NotEmpty(t, createResp.Data.ID)

	token := env.login(t)
	w = env.request(t, http.MethodPut, "/api/admin/bookings/"+createResp.Data.ID+"/complete", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Completed bookings release their slot.
	w = env.request(t, http.MethodGet, "/api/availability?date="+date, "", nil)
	var avail availabilityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &avail))
	assert.Contains(t, avail.Data.Tables[0].AvailableSlots, "14:00")
	assert.Len(t, avail.Data.Tables[0].AvailableSlots, 14)
}
