package services

import (
	"fmt"

	"campus-booking-backend/models"

	"gorm.io/gorm"
)

// AdminMetrics is a snapshot of booking activity for the admin dashboard.
type AdminMetrics struct {
	TotalRooms        int64 `json:"total_rooms"`
	TotalUsers        int64 `json:"total_users"`
	TotalBookings     int64 `json:"total_bookings"`
	PendingBookings   int64 `json:"pending_bookings"`
	ApprovedBookings  int64 `json:"approved_bookings"`
	RejectedBookings  int64 `json:"rejected_bookings"`
	CancelledBookings int64 `json:"cancelled_bookings"`
}

type MetricsService struct {
	DB *gorm.DB
}

func NewMetricsService(db *gorm.DB) *MetricsService {
	return &MetricsService{DB: db}
}

func (s *MetricsService) Collect() (AdminMetrics, error) {
	var m AdminMetrics

	if err := s.DB.Model(&models.Room{}).Count(&m.TotalRooms).Error; err != nil {
		return m, fmt.Errorf("failed to count rooms: %w", err)
	}
	if err := s.DB.Model(&models.User{}).Count(&m.TotalUsers).Error; err != nil {
		return m, fmt.Errorf("failed to count users: %w", err)
	}
	if err := s.DB.Model(&models.Booking{}).Count(&m.TotalBookings).Error; err != nil {
		return m, fmt.Errorf("failed to count bookings: %w", err)
	}

	byStatus := []struct {
		status models.BookingStatus
		dest   *int64
	}{
		{models.StatusPending, &m.PendingBookings},
		{models.StatusApproved, &m.ApprovedBookings},
		{models.StatusRejected, &m.RejectedBookings},
		{models.StatusCancelled, &m.CancelledBookings},
	}
	for _, b := range byStatus {
		if err := s.DB.Model(&models.Booking{}).Where("status = ?", b.status).Count(b.dest).Error; err != nil {
			return m, fmt.Errorf("failed to count %s bookings: %w", b.status, err)
		}
	}
	return m, nil
}
