package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	testmock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SampritiSC2/react-proshop/internal/domain"
	apperrors "github.com/SampritiSC2/react-proshop/pkg/errors"
)

func TestGetProfileEndpoint(t *testing.T) {
	env := newTestEnv()
	cookie := env.loginAs(&domain.User{ID: "64a000000000000000000001", Name: "John Doe", Email: "john@example.com"})

	req := httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
	req.AddCookie(cookie)
	rec := env.do(req)

	require.Equal(t, http.StatusOK, rec.Code)

	var user domain.User
	decodeData(t, rec, &user)
	assert.Equal(t, "john@example.com", user.Email)
}

func TestUpdateProfileEndpoint(t *testing.T) {
	env := newTestEnv()
	cookie := env.loginAs(&domain.User{ID: "64a000000000000000000001", Name: "John Doe", Email: "john@example.com"})

	env.userRepo.On("Update", testmock.Anything, testmock.AnythingOfType("*domain.User")).Return(nil)

	req := jsonRequest(http.MethodPut, "/api/users/profile", `{"name":"Johnny"}`)
	req.AddCookie(cookie)
	rec := env.do(req)

	require.Equal(t, http.StatusOK, rec.Code)

	var user domain.User
	decodeData(t, rec, &user)
	assert.Equal(t, "Johnny", user.Name)
	env.userRepo.AssertExpectations(t)
}

func TestListUsersEndpoint_AdminOnly(t *testing.T) {
	env := newTestEnv()
	admin := &domain.User{ID: "64a000000000000000000003", Name: "Admin", IsAdmin: true}
	cookie := env.loginAs(admin)

	env.userRepo.On("List", testmock.Anything, admin.ID, 0, 5).
		Return([]domain.User{{ID: "64a000000000000000000004", Name: "Other"}}, 1, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/users/", nil)
	req.AddCookie(cookie)
	rec := env.do(req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Users []domain.User `json:"users"`
		Page  int           `json:"page"`
		Pages int           `json:"pages"`
	}
	decodeData(t, rec, &body)
	assert.Len(t, body.Users, 1)
	assert.Equal(t, 1, body.Page)
	assert.Equal(t, 1, body.Pages)
}

func TestUpdateUserEndpoint_Promote(t *testing.T) {
	env := newTestEnv()
	admin := &domain.User{ID: "64a000000000000000000003", IsAdmin: true}
	cookie := env.loginAs(admin)

	target := &domain.User{ID: "64a000000000000000000004", Name: "Jane", Email: "jane@example.com"}
	env.userRepo.On("GetByID", testmock.Anything, target.ID).Return(target, nil)
	env.userRepo.On("Update", testmock.Anything, testmock.AnythingOfType("*domain.User")).Return(nil)

	req := jsonRequest(http.MethodPut, "/api/users/"+target.ID, `{"isAdmin":true}`)
	req.AddCookie(cookie)
	rec := env.do(req)

	require.Equal(t, http.StatusOK, rec.Code)

	var user domain.User
	decodeData(t, rec, &user)
	assert.True(t, user.IsAdmin)
}

func TestDeleteUserEndpoint(t *testing.T) {
	env := newTestEnv()
	admin := &domain.User{ID: "64a000000000000000000003", IsAdmin: true}
	cookie := env.loginAs(admin)

	target := &domain.User{ID: "64a000000000000000000004", Name: "Jane"}
	env.userRepo.On("GetByID", testmock.Anything, target.ID).Return(target, nil)
	env.orderRepo.On("DeleteByUser", testmock.Anything, target.ID).Return(int64(0), nil)
	env.userRepo.On("Delete", testmock.Anything, target.ID).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/users/"+target.ID, nil)
	req.AddCookie(cookie)
	rec := env.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "User removed")
	env.userRepo.AssertExpectations(t)
	env.orderRepo.AssertExpectations(t)
}

func TestDeleteUserEndpoint_AdminTarget(t *testing.T) {
	env := newTestEnv()
	admin := &domain.User{ID: "64a000000000000000000003", IsAdmin: true}
	cookie := env.loginAs(admin)

	target := &domain.User{ID: "64a000000000000000000005", Name: "Root", IsAdmin: true}
	env.userRepo.On("GetByID", testmock.Anything, target.ID).Return(target, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/users/"+target.ID, nil)
	req.AddCookie(cookie)
	rec := env.do(req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	errEnv := decodeError(t, rec)
	assert.Equal(t, "Cannot delete admin user", errEnv.Error.Message)
}

func TestGetUserEndpoint_NotFound(t *testing.T) {
	env := newTestEnv()
	admin := &domain.User{ID: "64a000000000000000000003", IsAdmin: true}
	cookie := env.loginAs(admin)

	env.userRepo.On("GetByID", testmock.Anything, "64a000000000000000000099").
		Return(nil, apperrors.NotFound("user", "64a000000000000000000099"))

	req := httptest.NewRequest(http.MethodGet, "/api/users/64a000000000000000000099", nil)
	req.AddCookie(cookie)
	rec := env.do(req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
