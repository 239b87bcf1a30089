package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"toko-storefront/internal/apperr"
	"toko-storefront/internal/models"
	"toko-storefront/internal/services"
)

func TestProfileService_Profile(t *testing.T) {
	backend := new(MockBackend)
	sessions, _ := newSessionService(backend)
	service := services.NewProfileService(backend, sessions)
	ctx := context.Background()

	backend.On("Profile", ctx).Return(&models.User{ID: 1, Name: "Anna"}, nil)
	backend.On("Role", ctx).Return(models.RoleSupplier, nil)
	backend.On("Addresses", ctx).Return(nil, nil)

	view, err := service.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Anna", view.User.Name)
	assert.Equal(t, "Supplier", view.RoleLabel)
	assert.NotNil(t, view.Addresses)
}

func TestProfileService_UpdateProfileMirrorsIntoSession(t *testing.T) {
	backend := new(MockBackend)
	sessions, repo := newSessionService(backend)
	service := services.NewProfileService(backend, sessions)
	ctx := context.Background()

	session := &models.Session{AccessToken: "tok", UserName: "Anna", PhoneNumber: "+7"}
	require.NoError(t, repo.Create(ctx, session))

	update := models.ProfileUpdate{Name: "Anna K", PhoneNumber: "+71"}
	backend.On("UpdateProfile", ctx, update).Return(nil).Once()
	backend.On("Profile", ctx).Return(&models.User{ID: 1, Name: "Anna K", PhoneNumber: "+71"}, nil)
	backend.On("Role", ctx).Return(models.RoleCustomer, nil)
	backend.On("Addresses", ctx).Return([]models.Address{{Description: "Home", Street: "Main 1"}}, nil)

	view, err := service.UpdateProfile(ctx, session.ID, update)
	require.NoError(t, err)
	assert.Equal(t, "Anna K", view.User.Name)
	assert.Len(t, view.Addresses, 1)

	stored, err := repo.GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anna K", stored.UserName)
	assert.Equal(t, "+71", stored.PhoneNumber)
}

func TestProfileService_UpdateRejectedLeavesSession(t *testing.T) {
	backend := new(MockBackend)
	sessions, repo := newSessionService(backend)
	service := services.NewProfileService(backend, sessions)
	ctx := context.Background()

	session := &models.Session{AccessToken: "tok", UserName: "Anna"}
	require.NoError(t, repo.Create(ctx, session))

	backend.On("UpdateProfile", ctx, mock.Anything).Return(&apperr.AuthError{Op: "user.UpdateProfile"})

	_, err := service.UpdateProfile(ctx, session.ID, models.ProfileUpdate{Name: "Other", PhoneNumber: "+1"})
	assert.True(t, apperr.IsAuth(err))

	stored, err := repo.GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anna", stored.UserName)
}
