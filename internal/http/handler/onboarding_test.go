package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
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

func TestSubmitOnboarding(t *testing.T) {
	mockSvc := new(serviceMocks.MockOnboardingService)
	app := fiber.New()
	app.Post("/requests", SubmitOnboarding(mockSvc))

	t.Run("with face photo", func(t *testing.T) {
		created := &model.OnboardingRequest{
			ID:        "ob-1",
			FirstName: "Selvam",
			Role:      "worker",
			Status:    model.OnboardingPending,
			FacePath:  "onboarding/ob-1/face.jpg",
		}
		mockSvc.On("Submit", mock.Anything, mock.MatchedBy(func(in service.SubmitOnboardingInput) bool {
			return in.FirstName == "Selvam" && in.Role == "worker" && in.FacePhoto != nil
		})).Return(created, nil).Once()

		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		writer.WriteField("first_name", "Selvam")
		writer.WriteField("last_name", "R")
		writer.WriteField("mobile", "9876543210")
		writer.WriteField("role", "worker")
		part, _ := writer.CreateFormFile("face_photo", "face.jpg")
		part.Write([]byte("jpeg bytes"))
		writer.Close()

		req := httptest.NewRequest(http.MethodPost, "/requests", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result model.OnboardingRequest
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, model.OnboardingPending, result.Status)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing role", func(t *testing.T) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		writer.WriteField("first_name", "Selvam")
		writer.Close()

		req := httptest.NewRequest(http.MethodPost, "/requests", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "VALIDATION_ERROR", res.Error.Code)
	})
}

func TestPendingOnboarding(t *testing.T) {
	mockSvc := new(serviceMocks.MockOnboardingService)
	app := fiber.New()
	app.Get("/requests/pending", PendingOnboarding(mockSvc))

	t.Run("defaults to pending", func(t *testing.T) {
		reqs := []model.OnboardingRequest{{ID: "ob-1", Status: model.OnboardingPending}}
		mockSvc.On("List", mock.Anything, model.OnboardingPending).Return(reqs, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/requests/pending", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Count int `json:"count"`
		}
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, 1, body.Count)
		mockSvc.AssertExpectations(t)
	})

	t.Run("explicit status filter", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, model.OnboardingRejected).Return([]model.OnboardingRequest{}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/requests/pending?status=rejected", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestApproveOnboarding(t *testing.T) {
	mockSvc := new(serviceMocks.MockOnboardingService)
	claims := &auth.Claims{
		Role:             auth.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "ADM-RAJ001"},
	}
	app := fiber.New()
	app.Post("/requests/:id/approve", withClaims(claims), ApproveOnboarding(mockSvc))

	t.Run("creates the person", func(t *testing.T) {
		result := &service.ApprovalResult{
			Request: &model.OnboardingRequest{ID: "ob-1", Status: model.OnboardingApproved, StaffID: "WRK-SEKU"},
			Person:  &model.Person{StaffID: "WRK-SEKU", FirstName: "Selvam"},
		}
		mockSvc.On("Review", mock.Anything, "ob-1", mock.MatchedBy(func(in service.ReviewOnboardingInput) bool {
			return in.Approve && in.ReviewedBy == "ADM-RAJ001"
		})).Return(result, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/requests/ob-1/approve", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body service.ApprovalResult
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "WRK-SEKU", body.Person.StaffID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("already reviewed", func(t *testing.T) {
		mockSvc.On("Review", mock.Anything, "ob-2", mock.Anything).
			Return(nil, service.ErrAlreadyReviewed).Once()

		req := httptest.NewRequest(http.MethodPost, "/requests/ob-2/approve", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)

		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "ALREADY_REVIEWED", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestRejectOnboarding(t *testing.T) {
	mockSvc := new(serviceMocks.MockOnboardingService)
	claims := &auth.Claims{
		Role:             auth.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "ADM-RAJ001"},
	}
	app := fiber.New()
	app.Post("/requests/:id/reject", withClaims(claims), RejectOnboarding(mockSvc))

	result := &service.ApprovalResult{
		Request: &model.OnboardingRequest{ID: "ob-1", Status: model.OnboardingRejected, ReviewNote: "duplicate entry"},
	}
	mockSvc.On("Review", mock.Anything, "ob-1", mock.MatchedBy(func(in service.ReviewOnboardingInput) bool {
		return !in.Approve && in.Note == "duplicate entry"
	})).Return(result, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/requests/ob-1/reject", strings.NewReader(`{"note":"duplicate entry"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body service.ApprovalResult
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, model.OnboardingRejected, body.Request.Status)
	assert.Nil(t, body.Person)
	mockSvc.AssertExpectations(t)
}

func TestOnboardingStats(t *testing.T) {
	mockSvc := new(serviceMocks.MockOnboardingService)
	app := fiber.New()
	app.Get("/stats", OnboardingStats(mockSvc))

	mockSvc.On("Stats", mock.Anything).Return(map[string]int{"pending": 3, "approved": 12}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		ByStatus map[string]int `json:"by_status"`
	}
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, 3, body.ByStatus["pending"])
	mockSvc.AssertExpectations(t)
}
