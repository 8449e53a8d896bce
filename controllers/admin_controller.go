package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"campus-booking-backend/middleware"
	"campus-booking-backend/models"
	"campus-booking-backend/services"
	"campus-booking-backend/utils"

	"github.com/gin-gonic/gin"
)

type roleUpdatePayload struct {
	Role string `json:"role" binding:"required"`
}

type AdminController struct {
	Users   *services.UserService
	Metrics *services.MetricsService
}

func NewAdminController(users *services.UserService, metrics *services.MetricsService) *AdminController {
	return &AdminController{Users: users, Metrics: metrics}
}

// UpdateUserRole changes a user's role. An admin cannot drop their own ADMIN
// role, so the system always keeps at least the acting admin.
func (ac *AdminController) UpdateUserRole(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	var payload roleUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !models.ValidRole(payload.Role) {
		utils.JSONError(c, http.StatusBadRequest, "unknown role")
		return
	}

	admin := middleware.CurrentUser(c)
	if uint(id) == admin.ID && payload.Role != models.RoleAdmin {
		utils.JSONError(c, http.StatusBadRequest, "you cannot change your own ADMIN role")
		return
	}

	user, err := ac.Users.UpdateRole(uint(id), payload.Role)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.JSONError(c, http.StatusNotFound, "user not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to update role")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (ac *AdminController) GetMetrics(c *gin.Context) {
	metrics, err := ac.Metrics.Collect()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to collect metrics")
		return
	}
	c.JSON(http.StatusOK, metrics)
}
