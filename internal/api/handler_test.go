package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"table-booking-backend/config"
	"table-booking-backend/internal/booking"
	"table-booking-backend/internal/catalog"
	"table-booking-backend/internal/clock"
	"table-booking-backend/internal/model"
	"table-booking-backend/internal/mw"
	"table-booking-backend/internal/store"
	"table-booking-backend/internal/testutil"
)

const adminSecret = "test-secret"

func setupRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	s := store.NewGormStore(testutil.NewSQLiteDB(t))
	clk := clock.NewFixed(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	logger := log.New(io.Discard, "", 0)

	cat := catalog.New(s, time.Minute, clk, logger)
	_, err := cat.SeedIfMissing(context.Background(), catalog.DefaultLayout)
	require.NoError(t, err)
	engine := booking.NewEngine(s, cat, clk, logger, booking.Options{MaxListResults: 50})

	return NewRouter(NewHandler(engine, cat, s, logger), &config.ServerConfig{
		CacheTTLSeconds: 30,
		AdminJWTSecret:  adminSecret,
	})
}

func adminToken(t *testing.T) string {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "maitre",
		"role": mw.RoleAdmin,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(adminSecret))
	require.NoError(t, err)
	return tok
}

func request(r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req, _ := http.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func anaBody() gin.H {
	return gin.H{
		"date":          "2025-06-10",
		"time":          "20:00",
		"num_people":    4,
		"customer_name": "Ana Pérez",
		"phone":         "34600111222",
	}
}

func TestReservationLifecycle(t *testing.T) {
	r := setupRouter(t)

	w := request(r, "POST", "/api/reservations", anaBody(), "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created model.Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, model.StatusPending, created.Status)
	assert.Equal(t, "I3", created.TableID)

	w = request(r, "GET", "/api/reservations/"+created.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = request(r, "PATCH", "/api/reservations/"+created.ID, gin.H{"time": "20:30"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var moved model.Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &moved))
	assert.Equal(t, "20:30", moved.Time)
	assert.Equal(t, created.TableID, moved.TableID)

	w = request(r, "GET", "/api/customers/34600111222/reservations", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var mine []model.Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	require.Len(t, mine, 1)

	w = request(r, "POST", "/api/admin/reservations/"+created.ID+"/confirm", nil, adminToken(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = request(r, "POST", "/api/reservations/"+created.ID+"/cancel", gin.H{"reason": "sick"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var cancelled booking.CancelResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cancelled))
	assert.False(t, cancelled.AlreadyCancelled)
	assert.Equal(t, "sick", cancelled.Reservation.CancelReason)

	w = request(r, "POST", "/api/reservations/"+created.ID+"/cancel", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"already_cancelled":true`)

	w = request(r, "PATCH", "/api/reservations/"+created.ID, gin.H{"status": "pending"}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"cancelled"`)

	w = request(r, "GET", "/api/reservations?status=cancelled", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []model.Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestErrorMapping(t *testing.T) {
	r := setupRouter(t)

	body := anaBody()
	body["date"] = "2025-06-09"
	w := request(r, "POST", "/api/reservations", body, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"the restaurant is closed on Mondays","code":"closed","field":"date"}`, w.Body.String())

	w = request(r, "GET", "/api/reservations/RES-NOPE", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	big := anaBody()
	big["num_people"] = 12
	w = request(r, "POST", "/api/reservations", big, "")
	assert.Equal(t, http.StatusConflict, w.Code, "no table seats 12")
	assert.Contains(t, w.Body.String(), `"code":"no_availability"`)

	w = request(r, "GET", "/api/availability?date=2025-06-10&people=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req, _ := http.NewRequest("POST", "/api/reservations", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.JSONEq(t, `{"error":"invalid request","code":"invalid_request"}`, rec.Body.String())
}

func TestAvailabilityEndpoint(t *testing.T) {
	r := setupRouter(t)

	w := request(r, "GET", "/api/availability?date=2025-06-10&people=2&zone=terrace", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Times []booking.AvailableTime `json:"times"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Times, 15)
	assert.Equal(t, booking.AvailableTime{Time: "13:00", TableID: "T1", Zone: "terrace"}, resp.Times[0])
}

func TestAdminRoutes(t *testing.T) {
	r := setupRouter(t)

	w := request(r, "GET", "/api/admin/stats", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := adminToken(t)
	w = request(r, "PUT", "/api/admin/tables/I6/active", gin.H{"active": false}, token)
	require.Equal(t, http.StatusOK, w.Code)
	w = request(r, "PUT", "/api/admin/tables/ZZ/active", gin.H{"active": false}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = request(r, "PUT", "/api/admin/tables/I6/active", gin.H{}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	eight := anaBody()
	eight["num_people"] = 8
	w = request(r, "POST", "/api/reservations", eight, "")
	assert.Equal(t, http.StatusConflict, w.Code, "the only table for 8 is inactive")

	w = request(r, "POST", "/api/reservations", anaBody(), "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = request(r, "GET", "/api/admin/stats", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var stats booking.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.Total)

	w = request(r, "GET", "/api/admin/occupancy?from=2025-06-10&to=2025-06-10", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var occ booking.Occupancy
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &occ))
	assert.Equal(t, int64(3), occ.UsedSlots)
	assert.Equal(t, int64(15*10), occ.Capacity)

	w = request(r, "GET", "/api/tables", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var tables []model.Table
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tables))
	assert.Len(t, tables, len(catalog.DefaultLayout))
}

func TestHealthz(t *testing.T) {
	r := setupRouter(t)
	w := request(r, "GET", "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
