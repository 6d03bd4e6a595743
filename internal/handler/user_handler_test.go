package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fedauth/internal/domain"
	"fedauth/internal/handler"
	"fedauth/internal/middleware"
	"fedauth/internal/service"
	"fedauth/mocks"
)

func TestUserHandler_Me(t *testing.T) {
	mockUsers := new(mocks.MockUserService)
	h := handler.NewUserHandler(mockUsers, handler.Responder{})
	mockUsers.On("GetByID", mock.Anything, int64(5)).Return(&domain.User{
		ID: 5, Username: "a", Email: "a@b.com", FirstName: "John", LastName: "Doe", IsActive: true,
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/user/", http.NoBody)
	c.Set(middleware.ContextKeyUserID, int64(5))
	h.Me(c)

	require.Equal(t, http.StatusOK, w.Code)
	var payload service.UserPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, service.UserPayload{ID: 5, Username: "a", Email: "a@b.com", FirstName: "John", LastName: "Doe"}, payload)
	mockUsers.AssertExpectations(t)
}

func TestUserHandler_Me_NoAuthContext(t *testing.T) {
	mockUsers := new(mocks.MockUserService)
	h := handler.NewUserHandler(mockUsers, handler.Responder{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/user/", http.NoBody)
	h.Me(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockUsers.AssertNotCalled(t, "GetByID")
}

func TestUserHandler_Me_NotFound(t *testing.T) {
	mockUsers := new(mocks.MockUserService)
	h := handler.NewUserHandler(mockUsers, handler.Responder{})
	mockUsers.On("GetByID", mock.Anything, int64(9)).Return(nil, domain.ErrNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/user/", http.NoBody)
	c.Set(middleware.ContextKeyUserID, int64(9))
	h.Me(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
