// services/booking_service.go
package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"campus-booking-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Error kinds returned by the booking workflow engine. Controllers map these
// to HTTP statuses; the engine never retries, since a conflict or invalid
// state is permanent for the given inputs.
var (
	ErrInvalidTime            = errors.New("invalid_booking_time")
	ErrRoomNotFound           = errors.New("room_not_found")
	ErrBookingNotFound        = errors.New("booking_not_found")
	ErrInvalidStatus          = errors.New("invalid_status_transition")
	ErrConflict               = errors.New("booking_conflict")
	ErrAlreadyCancelled       = errors.New("booking_already_cancelled")
	ErrRejectedNotCancellable = errors.New("rejected_cannot_cancel")
)

const (
	MinBookingDuration = 15 * time.Minute
	MaxBookingDuration = 4 * time.Hour
)

// BookingService owns all booking state transitions and overlap checks.
type BookingService struct {
	DB *gorm.DB

	// mu serializes every overlap-check-then-write sequence. At most one
	// mutation may sit between its conflict check and its commit; otherwise
	// two racing approvals could both pass the check against a stale read.
	mu sync.Mutex
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{DB: db}
}

// validateBookingWindow enforces the request-time rules:
// start before end, duration between 15 minutes and 4 hours, start in the future.
func validateBookingWindow(start, end time.Time) error {
	if !start.Before(end) {
		return fmt.Errorf("%w: start_time must be before end_time", ErrInvalidTime)
	}

	duration := end.Sub(start)
	if duration < MinBookingDuration {
		return fmt.Errorf("%w: booking duration must be at least 15 minutes", ErrInvalidTime)
	}
	if duration > MaxBookingDuration {
		return fmt.Errorf("%w: booking duration cannot exceed 4 hours", ErrInvalidTime)
	}

	if !start.After(time.Now()) {
		return fmt.Errorf("%w: bookings must start in the future", ErrInvalidTime)
	}
	return nil
}

// findOverlap returns the first booking in the room whose interval intersects
// [start, end) and whose status is one of the blocking statuses. The create
// path blocks on ACTIVE bookings (PENDING or APPROVED); the approve path
// blocks on APPROVED only, excluding the booking being approved.
func findOverlap(tx *gorm.DB, roomID uint, start, end time.Time, blocking []models.BookingStatus, excludeID uint) (*models.Booking, error) {
	q := tx.Where("room_id = ? AND status IN ?", roomID, blocking)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var candidates []models.Booking
	if err := q.Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to load bookings for room %d: %w", roomID, err)
	}

	for i := range candidates {
		if candidates[i].Overlaps(start, end) {
			return &candidates[i], nil
		}
	}
	return nil, nil
}

// CreateBooking inserts a PENDING booking request for the given room and time
// range. The slot must not overlap any ACTIVE booking in the same room.
func (s *BookingService) CreateBooking(userID, roomID uint, start, end time.Time, note string) (*models.Booking, error) {
	if err := validateBookingWindow(start, end); err != nil {
		return nil, err
	}

	var room models.Room
	if err := s.DB.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("db error checking room %d: %w", roomID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	booking := models.Booking{
		RoomID:        roomID,
		UserID:        userID,
		StartTime:     start,
		EndTime:       end,
		Status:        models.StatusPending,
		ReferenceCode: uuid.NewString(),
		Note:          note,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		conflict, err := findOverlap(tx, roomID, start, end, models.ActiveStatuses, 0)
		if err != nil {
			return err
		}
		if conflict != nil {
			return fmt.Errorf("%w: room already booked for this time range", ErrConflict)
		}

		if err := tx.Create(&booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// ApproveBooking moves a PENDING booking to APPROVED after a final overlap
// check against other APPROVED bookings in the room. Sibling PENDING requests
// for the same slot are left untouched; they simply become unapprovable.
func (s *BookingService) ApproveBooking(bookingID uint) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var booking models.Booking
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if booking.Status != models.StatusPending {
			return fmt.Errorf("%w: only PENDING bookings can be approved", ErrInvalidStatus)
		}

		conflict, err := findOverlap(tx, booking.RoomID, booking.StartTime, booking.EndTime,
			[]models.BookingStatus{models.StatusApproved}, booking.ID)
		if err != nil {
			return err
		}
		if conflict != nil {
			return fmt.Errorf("%w: booking conflicts with an existing approved booking", ErrConflict)
		}

		booking.Status = models.StatusApproved
		return tx.Model(&booking).Update("status", models.StatusApproved).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// RejectBooking moves a PENDING booking to REJECTED. No conflict check is
// needed; rejection never creates a claim on a slot.
func (s *BookingService) RejectBooking(bookingID uint) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var booking models.Booking
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if booking.Status != models.StatusPending {
			return fmt.Errorf("%w: only PENDING bookings can be rejected", ErrInvalidStatus)
		}

		booking.Status = models.StatusRejected
		return tx.Model(&booking).Update("status", models.StatusRejected).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// CancelBooking moves a PENDING or APPROVED booking to CANCELLED. REJECTED
// bookings cannot be cancelled, and cancelling twice is an error. Ownership
// checks belong to the caller; the engine only enforces the state rule.
func (s *BookingService) CancelBooking(bookingID uint) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var booking models.Booking
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		switch booking.Status {
		case models.StatusCancelled:
			return ErrAlreadyCancelled
		case models.StatusRejected:
			return ErrRejectedNotCancellable
		}

		booking.Status = models.StatusCancelled
		return tx.Model(&booking).Update("status", models.StatusCancelled).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// BookingFilter narrows a booking listing. Status and RoomID are optional.
type BookingFilter struct {
	UserID uint
	Status models.BookingStatus
	RoomID uint
	Limit  int
	Offset int
}

// ListForUser returns the user's bookings, newest first.
func (s *BookingService) ListForUser(f BookingFilter) ([]models.Booking, error) {
	q := s.DB.Where("user_id = ?", f.UserID)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.RoomID != 0 {
		q = q.Where("room_id = ?", f.RoomID)
	}

	var list []models.Booking
	if err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	return list, nil
}

// GetBooking returns a single booking by id.
func (s *BookingService) GetBooking(bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.DB.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to retrieve booking: %w", err)
	}
	return &booking, nil
}
