package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/dto"
	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/entity"
	middlewarepkg "github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/middleware"
)

// ProfileStore loads and saves the caller's business profile.
type ProfileStore interface {
	Get(ctx context.Context, ownerID string) (*entity.BusinessProfile, error)
	Save(ctx context.Context, ownerID string, profile entity.BusinessProfile) (*entity.BusinessProfile, error)
}

// ProfileHandler exposes the caller's business profile.
type ProfileHandler struct {
	profiles ProfileStore
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(profiles ProfileStore) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get handles GET /profile requests.
func (h *ProfileHandler) Get(c echo.Context) error {
	profile, err := h.profiles.Get(c.Request().Context(), middlewarepkg.UserIDFromContext(c))
	if err != nil {
		return serviceError(c, err, "failed to load profile")
	}
	return Success(c, http.StatusOK, "profile loaded", dto.NewProfileResponse(*profile))
}

// Save handles PUT /profile requests.
func (h *ProfileHandler) Save(c echo.Context) error {
	var req dto.ProfileRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	profile, err := h.profiles.Save(c.Request().Context(), middlewarepkg.UserIDFromContext(c), req.Entity())
	if err != nil {
		return serviceError(c, err, "failed to save profile")
	}
	return Success(c, http.StatusOK, "profile saved", dto.NewProfileResponse(*profile))
}
