package delivery

import (
	"errors"
	"net/http"

	"authsphere/config"
	"authsphere/domain"
	"authsphere/dto"
	"authsphere/utils"

	"github.com/gin-gonic/gin"
)

type userHandler struct {
	uc domain.UserUseCase
}

// NewUserHandler mounts the authenticated self-service routes. Only the
// token's owner can ever read or write the record behind /me.
func NewUserHandler(app *gin.Engine, uc domain.UserUseCase, jwtManager *utils.JWTManager) {
	handler := &userHandler{uc: uc}

	me := app.Group("/me")
	me.Use(config.AuthMiddleware(jwtManager))
	{
		me.GET("/", handler.Me)
		me.PATCH("/", handler.UpdateProfile)
	}
}

func (h *userHandler) Me(c *gin.Context) {
	userUUID := c.GetString("userUUID")
	if userUUID == "" {
		fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	user, err := h.uc.Me(c.Request.Context(), userUUID)
	if err != nil {
		utils.PrintLogInfo(&userUUID, 404, "Me", &err)
		if errors.Is(err, domain.ErrNotFound) {
			fail(c, http.StatusNotFound, "NOT_FOUND", "User not found")
			return
		}
		failDomain(c, err)
		return
	}

	ok(c, http.StatusOK, "User retrieved successfully", dto.MapUserResponse(user))
}

func (h *userHandler) UpdateProfile(c *gin.Context) {
	userUUID := c.GetString("userUUID")
	if userUUID == "" {
		fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.PrintLogInfo(&userUUID, 400, "UpdateProfile", &err)
		bindError(c, err)
		return
	}

	// Email is an immutable identity key; reject rather than silently drop.
	if req.Email != nil {
		failFields(c, "Invalid request", map[string]string{"email": domain.ErrEmailImmutable.Error()})
		return
	}

	user, err := h.uc.UpdateProfile(c.Request.Context(), userUUID, req.Changes())
	if err != nil {
		utils.PrintLogInfo(&userUUID, 500, "UpdateProfile", &err)
		if errors.Is(err, domain.ErrNotFound) {
			fail(c, http.StatusNotFound, "NOT_FOUND", "User not found")
			return
		}
		failDomain(c, err)
		return
	}

	utils.PrintLogInfo(&userUUID, 200, "UpdateProfile", nil)
	ok(c, http.StatusOK, "User updated successfully", dto.MapUserResponse(user))
}
