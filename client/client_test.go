package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagebistro/reservation-app/models"
)

func signedToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": "admin@example.com"})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestUnwrapEnvelopedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"message": "List of tables",
			"data":    []models.Table{{ID: "t1", TableNumber: "A1", Capacity: 4}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	tables, err := c.ListTables(context.Background())
	assert.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "A1", tables[0].TableNumber)
}

func TestUnwrapLegacyBareBody(t *testing.T) {
	// Older deployments answer with the payload directly, no envelope.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Table{{ID: "t1", TableNumber: "A1", Capacity: 4}})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	tables, err := c.ListTables(context.Background())
	assert.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "t1", tables[0].ID)
}

func TestBearerAttachedOnlyWhenWellFormed(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": []models.Table{}})
	}))
	defer srv.Close()

	// Well-formed JWT: attached.
	tokens := NewMemoryTokenStore(signedToken(t))
	c := New(srv.URL, tokens)
	_, err := c.ListTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer "+tokens.Token(), gotAuth)

	// Malformed token: silently omitted, not sent broken.
	tokens.Set("not-a-jwt")
	_, err = c.ListTables(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)

	// No token at all.
	tokens.Clear()
	_, err = c.ListTables(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestUnauthorizedClearsCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "token expired"})
	}))
	defer srv.Close()

	tokens := NewMemoryTokenStore(signedToken(t))
	c := New(srv.URL, tokens)

	_, err := c.ListBookings(context.Background())
	assert.True(t, IsUnauthorized(err))
	assert.Empty(t, tokens.Token())
}

func TestConflictError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "Time slot already booked"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.CreateBooking(context.Background(), models.Booking{TableID: "t1"})

	assert.True(t, IsConflict(err))
	assert.False(t, IsUnauthorized(err))

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.Status)
	assert.Contains(t, httpErr.Message, "already booked")
}

func TestCreateBookingStampsIdentityAndStatus(t *testing.T) {
	var received models.Booking
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": received})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	created, err := c.CreateBooking(context.Background(), models.Booking{
		TableID:     "t1",
		BookingDate: "2025-06-01",
		BookingTime: "14:00",
	})
	assert.NoError(t, err)

	assert.NotEmpty(t, received.ID)
	assert.NotEmpty(t, received.CreatedAt)
	assert.Equal(t, models.BookingStatusConfirmed, received.Status)
	assert.Equal(t, received.ID, created.ID)
}
