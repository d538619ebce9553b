package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
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

func TestListNotifications(t *testing.T) {
	claims := &auth.Claims{
		Role:             auth.RoleEstateManager,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "EST-VELU001"},
	}

	t.Run("lists the caller's inbox", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockNotificationService)
		app := fiber.New()
		app.Get("/notifications", withClaims(claims), ListNotifications(mockSvc))

		result := &service.NotificationListResult{
			Items:  []model.Notification{{ID: "n-1", Recipient: "EST-VELU001", Type: model.NotifyProvision}},
			Total:  1,
			Unread: 1,
		}
		mockSvc.On("List", mock.Anything, "EST-VELU001", true, 5, 0).Return(result, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/notifications?unread=true&limit=5", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body service.NotificationListResult
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, 1, body.Unread)
		assert.Len(t, body.Items, 1)
		mockSvc.AssertExpectations(t)
	})

	t.Run("requires auth", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockNotificationService)
		app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
		app.Get("/notifications", ListNotifications(mockSvc))

		req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestMarkNotificationRead(t *testing.T) {
	claims := &auth.Claims{
		Role:             auth.RoleEstateManager,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "EST-VELU001"},
	}
	mockSvc := new(serviceMocks.MockNotificationService)
	app := fiber.New()
	app.Post("/notifications/:id/read", withClaims(claims), MarkNotificationRead(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("MarkRead", mock.Anything, "n-1", "EST-VELU001").Return(nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/notifications/n-1/read", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not the recipient", func(t *testing.T) {
		mockSvc.On("MarkRead", mock.Anything, "n-2", "EST-VELU001").
			Return(service.ErrNotificationNotFound).Once()

		req := httptest.NewRequest(http.MethodPost, "/notifications/n-2/read", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})
}
