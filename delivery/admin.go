package delivery

import (
	"errors"
	"net/http"
	"strconv"

	"authsphere/config"
	"authsphere/domain"
	"authsphere/dto"
	"authsphere/middleware"
	"authsphere/utils"

	"github.com/gin-gonic/gin"
)

type adminHandler struct {
	uc domain.AdminUseCase
}

// NewAdminHandler mounts the staff-only read surface over users and OTPs.
func NewAdminHandler(app *gin.Engine, uc domain.AdminUseCase, jwtManager *utils.JWTManager) {
	handler := &adminHandler{uc: uc}

	admin := app.Group("/admin")
	admin.Use(config.AuthMiddleware(jwtManager), middleware.StaffOnly())
	{
		admin.GET("/users", handler.ListUsers)
		admin.GET("/users/:uuid", handler.GetUser)
		admin.GET("/otps", handler.ListOTPs)
	}
}

func (h *adminHandler) ListUsers(c *gin.Context) {
	filter := domain.UserFilter{
		Search: c.Query("search"),
		Limit:  queryInt(c, "limit", 50),
		Offset: queryInt(c, "offset", 0),
	}
	if v, set := queryBool(c, "is_active"); set {
		filter.IsActive = &v
	}
	if v, set := queryBool(c, "is_staff"); set {
		filter.IsStaff = &v
	}

	users, total, err := h.uc.ListUsers(c.Request.Context(), filter)
	if err != nil {
		failDomain(c, err)
		return
	}

	resp := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, dto.MapUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   total,
		"data":    resp,
	})
}

func (h *adminHandler) GetUser(c *gin.Context) {
	uuid := c.Param("uuid")
	user, err := h.uc.GetUser(c.Request.Context(), uuid)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			fail(c, http.StatusNotFound, "NOT_FOUND", "User not found")
			return
		}
		failDomain(c, err)
		return
	}
	ok(c, http.StatusOK, "User retrieved successfully", dto.MapUserResponse(user))
}

func (h *adminHandler) ListOTPs(c *gin.Context) {
	filter := domain.OTPFilter{
		Email:  c.Query("email"),
		Limit:  queryInt(c, "limit", 50),
		Offset: queryInt(c, "offset", 0),
	}
	if v, set := queryBool(c, "used"); set {
		filter.Used = &v
	}

	otps, total, err := h.uc.ListOTPs(c.Request.Context(), filter)
	if err != nil {
		failDomain(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   total,
		"data":    otps,
	})
}

func queryInt(c *gin.Context, key string, def int) int {
	if v := c.Query(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func queryBool(c *gin.Context, key string) (bool, bool) {
	v := c.Query(key)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}
