package handlers

import (
	"fmt"
	"maps"
	"net/http"

	"github.com/gin-gonic/gin"

	"rideshare/internal/api/middleware"
	"rideshare/internal/domain/entities"
	"rideshare/internal/identity"
	"rideshare/internal/repository"
)

// profileKeys are the fields a user may set on their profile.
var profileKeys = map[string]bool{
	entities.ProfileFirstName:          true,
	entities.ProfileLastName:           true,
	entities.ProfileEmail:              true,
	entities.ProfilePhone:              true,
	entities.ProfileGender:             true,
	entities.ProfileAge:                true,
	entities.ProfileCarModel:           true,
	entities.ProfileCarNumber:          true,
	entities.ProfileRegistrationNumber: true,
	entities.ProfileAadharNumber:       true,
	entities.ProfileDescription:        true,
}

type ProfileHandler struct {
	profiles repository.ProfileRepository
	identity identity.Provider
}

func NewProfileHandler(profiles repository.ProfileRepository, provider identity.Provider) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, identity: provider}
}

// GetProfile handles GET /profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	user, ok := h.identity.CurrentUser(c.Request.Context())
	if !ok {
		respondError(c, entities.NewValidationError(entities.KindNotAuthenticated, nil))
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /profile. Keys present in the body overwrite the
// stored values; keys left out keep theirs. Rides already posted keep the
// profile they were posted with.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for k := range req {
		if !profileKeys[k] {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown profile field %q", k)})
			return
		}
	}

	user, err := h.profiles.GetOrCreate(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, entities.NewValidationError(entities.KindStoreUnavailable, err))
		return
	}
	maps.Copy(user.Profile, req)
	if err := h.profiles.Update(c.Request.Context(), user); err != nil {
		respondError(c, entities.NewValidationError(entities.KindPersistenceFailed, err))
		return
	}

	c.JSON(http.StatusOK, user)
}
