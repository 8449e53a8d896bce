package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"campus-booking-backend/models"
	"campus-booking-backend/services"
	"campus-booking-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type createRoomPayload struct {
	Code      string   `json:"code" binding:"required,max=50"`
	Name      string   `json:"name" binding:"required,max=120"`
	Location  string   `json:"location" binding:"omitempty,max=120"`
	Capacity  int      `json:"capacity" binding:"omitempty,min=1,max=500"`
	Amenities []string `json:"amenities"`
}

type RoomController struct {
	Rooms *services.RoomService
}

func NewRoomController(rooms *services.RoomService) *RoomController {
	return &RoomController{Rooms: rooms}
}

func (rc *RoomController) CreateRoom(c *gin.Context) {
	var payload createRoomPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	if payload.Capacity == 0 {
		payload.Capacity = 1
	}

	room := models.Room{
		Code:     strings.TrimSpace(payload.Code),
		Name:     strings.TrimSpace(payload.Name),
		Location: strings.TrimSpace(payload.Location),
		Capacity: payload.Capacity,
	}
	if len(payload.Amenities) > 0 {
		raw, err := json.Marshal(payload.Amenities)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid amenities list")
			return
		}
		room.Amenities = datatypes.JSON(raw)
	}

	if err := rc.Rooms.Create(&room); err != nil {
		if errors.Is(err, services.ErrRoomCodeTaken) {
			utils.JSONError(c, http.StatusConflict, "room code already exists")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to create room")
		return
	}

	c.JSON(http.StatusCreated, room)
}

func (rc *RoomController) GetRooms(c *gin.Context) {
	rooms, err := rc.Rooms.GetAll()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to retrieve rooms")
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (rc *RoomController) GetRoomByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid room id")
		return
	}

	room, err := rc.Rooms.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrRoomNotFound) {
			utils.JSONError(c, http.StatusNotFound, "room not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to retrieve room")
		return
	}
	c.JSON(http.StatusOK, room)
}
