package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Room is a bookable campus space (lecture room, study room, lab).
// The booking engine only ever reads rooms; they are not deleted while
// bookings reference them.
type Room struct {
	gorm.Model

	// Human-friendly identifier, e.g. "A101" or "Library-2F-12".
	Code string `json:"code" gorm:"column:code;uniqueIndex;type:varchar(50)"`

	Name     string `json:"name" gorm:"type:varchar(120)"`
	Location string `json:"location,omitempty" gorm:"type:varchar(120)"`
	Capacity int    `json:"capacity" gorm:"default:1"`

	// Optional list of amenities ("projector", "whiteboard", ...), stored as JSON.
	Amenities datatypes.JSON `gorm:"column:amenities" json:"amenities,omitempty"`
}
