package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"agroapi/internal/auth"
	"agroapi/internal/model"
	"agroapi/internal/service"
	serviceMocks "agroapi/internal/service/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func driverClaims() *auth.Claims {
	return &auth.Claims{
		Role:             auth.RoleDriver,
		Mobile:           true,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "DRV-MANI001"},
	}
}

func TestCreateDispatch(t *testing.T) {
	mockSvc := new(serviceMocks.MockGPSService)
	app := fiber.New()
	app.Post("/dispatch", CreateDispatch(mockSvc))

	t.Run("success", func(t *testing.T) {
		expected := &model.Dispatch{ID: "disp-1", VehicleNo: "TN-72-1234", DriverID: "DRV-MANI001", TripStatus: model.TripCreated}
		mockSvc.On("CreateDispatch", mock.Anything, mock.MatchedBy(func(in service.CreateDispatchInput) bool {
			return in.VehicleNo == "TN-72-1234" && in.SackCount == 40
		})).Return(expected, nil).Once()

		body := `{"vehicle_no":"TN-72-1234","driver_id":"DRV-MANI001","lot_id":"LOT-2026-0042","sack_count":40}`
		req := httptest.NewRequest(http.MethodPost, "/dispatch", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result model.Dispatch
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "disp-1", result.ID)
		assert.Equal(t, model.TripCreated, result.TripStatus)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing vehicle", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/dispatch", strings.NewReader(`{"driver_id":"DRV-MANI001"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "VALIDATION_ERROR", res.Error.Code)
	})
}

func TestStartTracking(t *testing.T) {
	t.Run("driver passes own id", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockGPSService)
		app := fiber.New()
		app.Post("/start-tracking/:dispatch_id", withClaims(driverClaims()), StartTracking(mockSvc))

		expected := &model.Dispatch{ID: "disp-1", TripStatus: model.TripInTransit, TrackingActive: true}
		mockSvc.On("StartTracking", mock.Anything, "disp-1", "DRV-MANI001").Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/start-tracking/disp-1", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Message  string         `json:"message"`
			Dispatch model.Dispatch `json:"dispatch"`
		}
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "tracking started", body.Message)
		assert.True(t, body.Dispatch.TrackingActive)
		mockSvc.AssertExpectations(t)
	})

	t.Run("manager skips ownership check", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockGPSService)
		claims := &auth.Claims{
			Role:             auth.RoleEstateManager,
			RegisteredClaims: jwt.RegisteredClaims{Subject: "EST-VELU001"},
		}
		app := fiber.New()
		app.Post("/start-tracking/:dispatch_id", withClaims(claims), StartTracking(mockSvc))

		expected := &model.Dispatch{ID: "disp-1", TrackingActive: true}
		mockSvc.On("StartTracking", mock.Anything, "disp-1", "").Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/start-tracking/disp-1", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("foreign driver", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockGPSService)
		app := fiber.New()
		app.Post("/start-tracking/:dispatch_id", withClaims(driverClaims()), StartTracking(mockSvc))

		mockSvc.On("StartTracking", mock.Anything, "disp-9", "DRV-MANI001").
			Return(nil, service.ErrNotTripDriver).Once()

		req := httptest.NewRequest(http.MethodPost, "/start-tracking/disp-9", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_TRIP_DRIVER", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestCompleteTrip(t *testing.T) {
	mockSvc := new(serviceMocks.MockGPSService)
	app := fiber.New()
	app.Post("/complete/:dispatch_id", withClaims(driverClaims()), CompleteTrip(mockSvc))

	t.Run("success", func(t *testing.T) {
		expected := &model.Dispatch{ID: "disp-1", TripStatus: model.TripDelivered}
		mockSvc.On("CompleteTrip", mock.Anything, "disp-1", "DRV-MANI001").Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/complete/disp-1", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("already delivered", func(t *testing.T) {
		mockSvc.On("CompleteTrip", mock.Anything, "disp-1", "DRV-MANI001").
			Return(nil, service.ErrTripCompleted).Once()

		req := httptest.NewRequest(http.MethodPost, "/complete/disp-1", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)

		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "TRIP_COMPLETED", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestLogLocation(t *testing.T) {
	mockSvc := new(serviceMocks.MockGPSService)
	app := fiber.New()
	app.Post("/log-location", withClaims(driverClaims()), LogLocation(mockSvc))

	t.Run("success with fence evaluation", func(t *testing.T) {
		result := &service.LocationResult{
			Log:     &model.GPSLog{ID: "gps-1", DispatchID: "disp-1", InsideFence: true, NearestSite: "estate"},
			Created: true,
		}
		mockSvc.On("LogLocation", mock.Anything, mock.MatchedBy(func(in service.LogLocationInput) bool {
			return in.DispatchID == "disp-1" && in.DriverID == "DRV-MANI001"
		})).Return(result, nil).Once()

		body := `{"dispatch_id":"disp-1","latitude":8.2833,"longitude":77.3167,"speed_kph":35}`
		req := httptest.NewRequest(http.MethodPost, "/log-location", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var res service.LocationResult
		json.NewDecoder(resp.Body).Decode(&res)
		assert.True(t, res.Created)
		assert.True(t, res.Log.InsideFence)
		mockSvc.AssertExpectations(t)
	})

	t.Run("latitude out of range", func(t *testing.T) {
		body := `{"dispatch_id":"disp-1","latitude":120.0,"longitude":77.3167}`
		req := httptest.NewRequest(http.MethodPost, "/log-location", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "VALIDATION_ERROR", res.Error.Code)
	})

	t.Run("tracking not active", func(t *testing.T) {
		mockSvc.On("LogLocation", mock.Anything, mock.Anything).
			Return(nil, service.ErrTrackingInactive).Once()

		body := `{"dispatch_id":"disp-2","latitude":8.28,"longitude":77.31}`
		req := httptest.NewRequest(http.MethodPost, "/log-location", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestSyncLocations(t *testing.T) {
	mockSvc := new(serviceMocks.MockGPSService)
	app := fiber.New()
	app.Post("/sync-batch", withClaims(driverClaims()), SyncLocations(mockSvc))

	matchDevice := func(id string) any {
		return mock.MatchedBy(func(in service.LogLocationInput) bool { return in.DeviceID == id })
	}
	mockSvc.On("LogLocation", mock.Anything, matchDevice("d1")).
		Return(&service.LocationResult{Log: &model.GPSLog{ID: "gps-1"}, Created: true}, nil).Once()
	mockSvc.On("LogLocation", mock.Anything, matchDevice("d2")).
		Return(&service.LocationResult{Log: &model.GPSLog{ID: "gps-1"}, Created: false}, nil).Once()
	mockSvc.On("LogLocation", mock.Anything, matchDevice("d3")).
		Return(nil, service.ErrTripCompleted).Once()

	body := `{"points":[
		{"dispatch_id":"disp-1","latitude":8.28,"longitude":77.31,"device_id":"d1"},
		{"dispatch_id":"disp-1","latitude":8.29,"longitude":77.32,"device_id":"d2"},
		{"dispatch_id":"disp-1","latitude":8.30,"longitude":77.33,"device_id":"d3"}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/sync-batch", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var res struct {
		Synced  int      `json:"synced"`
		Skipped int      `json:"skipped"`
		Failed  int      `json:"failed"`
		Errors  []string `json:"errors"`
	}
	json.NewDecoder(resp.Body).Decode(&res)
	assert.Equal(t, 1, res.Synced)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Failed)
	assert.Len(t, res.Errors, 1)
	mockSvc.AssertExpectations(t)
}

func TestTrackDispatch(t *testing.T) {
	mockSvc := new(serviceMocks.MockGPSService)
	app := fiber.New()
	app.Get("/track/:dispatch_id", TrackDispatch(mockSvc))

	t.Run("caps the limit", func(t *testing.T) {
		logs := []model.GPSLog{{ID: "gps-1"}, {ID: "gps-2"}}
		mockSvc.On("Track", mock.Anything, "disp-1", 100).Return(logs, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/track/disp-1?limit=500", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Count int `json:"count"`
		}
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, 2, body.Count)
		mockSvc.AssertExpectations(t)
	})

	t.Run("unknown dispatch", func(t *testing.T) {
		mockSvc.On("Track", mock.Anything, "disp-9", 100).
			Return(nil, service.ErrDispatchNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/track/disp-9", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}
