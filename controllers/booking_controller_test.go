package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campus-booking-backend/config"
	"campus-booking-backend/controllers"
	"campus-booking-backend/middleware"
	"campus-booking-backend/models"
	"campus-booking-backend/routes"
	"campus-booking-backend/services"
	"campus-booking-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testCfg = config.App{Port: "8080", JWTSecret: "test-secret", JWTExpireMin: 60}

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.User{}, &models.Room{}, &models.Booking{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	userService := services.NewUserService(db)
	roomService := services.NewRoomService(db)
	bookingService := services.NewBookingService(db)
	metricsService := services.NewMetricsService(db)

	router := routes.SetupRouter(
		controllers.NewAuthController(userService, testCfg),
		controllers.NewRoomController(roomService),
		controllers.NewBookingController(bookingService),
		controllers.NewAdminController(userService, metricsService),
		middleware.JWTAuth(testCfg.JWTSecret, userService),
	)
	return router, db
}

// newUserWithToken registers a user, upgrades its role if needed and mints a token.
func newUserWithToken(t *testing.T, db *gorm.DB, email, role string) (*models.User, string) {
	t.Helper()
	svc := services.NewUserService(db)
	user, err := svc.Register(email, "Test User", "secret-password")
	if err != nil {
		t.Fatalf("failed to register test user: %v", err)
	}
	if role != models.RoleStudent {
		if user, err = svc.UpdateRole(user.ID, role); err != nil {
			t.Fatalf("failed to set role: %v", err)
		}
	}
	token, err := utils.CreateAccessToken(testCfg.JWTSecret, user.ID, user.Role, time.Hour)
	if err != nil {
		t.Fatalf("failed to create token: %v", err)
	}
	return user, token
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthRoute(t *testing.T) {
	router, _ := newTestServer(t)
	w := doJSON(t, router, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("GET /health status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRegisterAndLoginFlow(t *testing.T) {
	router, _ := newTestServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "alice@campus.local",
		"name":     "Alice",
		"password": "secret-password",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, want %d (body: %s)", w.Code, http.StatusCreated, w.Body.String())
	}

	// Duplicate registration is rejected.
	w = doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "alice@campus.local",
		"name":     "Alice",
		"password": "secret-password",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want %d", w.Code, http.StatusConflict)
	}

	w = doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "alice@campus.local",
		"password": "secret-password",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, want %d", w.Code, http.StatusOK)
	}
	var loginResp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &loginResp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	if loginResp.AccessToken == "" {
		t.Fatal("login returned empty access_token")
	}

	w = doJSON(t, router, http.MethodGet, "/api/auth/me", loginResp.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Errorf("GET /api/auth/me status = %d, want %d", w.Code, http.StatusOK)
	}

	w = doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "alice@campus.local",
		"password": "wrong-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestBookingLifecycleOverHTTP(t *testing.T) {
	router, db := newTestServer(t)

	_, studentToken := newUserWithToken(t, db, "student@campus.local", models.RoleStudent)
	_, staffToken := newUserWithToken(t, db, "staff@campus.local", models.RoleStaff)

	// Students may not create rooms.
	w := doJSON(t, router, http.MethodPost, "/api/rooms", studentToken, gin.H{
		"code": "A101", "name": "Lecture Room A101", "capacity": 40,
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("student create room status = %d, want %d", w.Code, http.StatusForbidden)
	}

	w = doJSON(t, router, http.MethodPost, "/api/rooms", staffToken, gin.H{
		"code": "A101", "name": "Lecture Room A101", "capacity": 40,
		"amenities": []string{"projector", "whiteboard"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("staff create room status = %d, want %d (body: %s)", w.Code, http.StatusCreated, w.Body.String())
	}
	var room models.Room
	if err := json.Unmarshal(w.Body.Bytes(), &room); err != nil {
		t.Fatalf("failed to decode room: %v", err)
	}

	start := time.Now().Add(24 * time.Hour).Truncate(time.Minute)
	end := start.Add(time.Hour)

	w = doJSON(t, router, http.MethodPost, "/api/bookings", studentToken, gin.H{
		"room_id":    room.ID,
		"start_time": start.Format(time.RFC3339),
		"end_time":   end.Format(time.RFC3339),
		"note":       "study group",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create booking status = %d, want %d (body: %s)", w.Code, http.StatusCreated, w.Body.String())
	}
	var booking models.Booking
	if err := json.Unmarshal(w.Body.Bytes(), &booking); err != nil {
		t.Fatalf("failed to decode booking: %v", err)
	}
	if booking.Status != models.StatusPending {
		t.Errorf("booking.Status = %v, want %v", booking.Status, models.StatusPending)
	}

	// Overlapping request for the same room conflicts.
	w = doJSON(t, router, http.MethodPost, "/api/bookings", studentToken, gin.H{
		"room_id":    room.ID,
		"start_time": start.Add(30 * time.Minute).Format(time.RFC3339),
		"end_time":   end.Add(30 * time.Minute).Format(time.RFC3339),
	})
	if w.Code != http.StatusConflict {
		t.Errorf("overlapping booking status = %d, want %d", w.Code, http.StatusConflict)
	}

	// Too-short bookings are rejected up front.
	w = doJSON(t, router, http.MethodPost, "/api/bookings", studentToken, gin.H{
		"room_id":    room.ID,
		"start_time": start.Add(5 * time.Hour).Format(time.RFC3339),
		"end_time":   start.Add(5*time.Hour + 10*time.Minute).Format(time.RFC3339),
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("too-short booking status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	approvePath := fmt.Sprintf("/api/bookings/%d/approve", booking.ID)

	// Students may not approve.
	w = doJSON(t, router, http.MethodPost, approvePath, studentToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("student approve status = %d, want %d", w.Code, http.StatusForbidden)
	}

	w = doJSON(t, router, http.MethodPost, approvePath, staffToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("staff approve status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
	}

	// Listing shows the caller's own booking.
	w = doJSON(t, router, http.MethodGet, "/api/bookings?status=APPROVED", studentToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list bookings status = %d, want %d", w.Code, http.StatusOK)
	}
	var list []models.Booking
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to decode booking list: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("len(list) = %d, want 1", len(list))
	}

	// Another student cannot cancel someone else's booking.
	_, otherToken := newUserWithToken(t, db, "other@campus.local", models.RoleStudent)
	cancelPath := fmt.Sprintf("/api/bookings/%d/cancel", booking.ID)
	w = doJSON(t, router, http.MethodPost, cancelPath, otherToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("foreign cancel status = %d, want %d", w.Code, http.StatusForbidden)
	}

	// The owner can.
	w = doJSON(t, router, http.MethodPost, cancelPath, studentToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("owner cancel status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
	}

	// Cancelling twice fails.
	w = doJSON(t, router, http.MethodPost, cancelPath, studentToken, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("double cancel status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestAdminRoutesOverHTTP(t *testing.T) {
	router, db := newTestServer(t)

	student, studentToken := newUserWithToken(t, db, "student@campus.local", models.RoleStudent)
	admin, adminToken := newUserWithToken(t, db, "admin@campus.local", models.RoleAdmin)

	// Non-admins are locked out.
	w := doJSON(t, router, http.MethodGet, "/api/admin/metrics", studentToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("student metrics status = %d, want %d", w.Code, http.StatusForbidden)
	}

	w = doJSON(t, router, http.MethodGet, "/api/admin/metrics", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Errorf("admin metrics status = %d, want %d", w.Code, http.StatusOK)
	}

	// Promote the student to staff.
	rolePath := fmt.Sprintf("/api/admin/users/%d/role", student.ID)
	w = doJSON(t, router, http.MethodPatch, rolePath, adminToken, gin.H{"role": models.RoleStaff})
	if w.Code != http.StatusOK {
		t.Fatalf("role update status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
	}
	var updated models.User
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("failed to decode user: %v", err)
	}
	if updated.Role != models.RoleStaff {
		t.Errorf("updated.Role = %v, want %v", updated.Role, models.RoleStaff)
	}

	// An admin cannot drop their own ADMIN role.
	selfPath := fmt.Sprintf("/api/admin/users/%d/role", admin.ID)
	w = doJSON(t, router, http.MethodPatch, selfPath, adminToken, gin.H{"role": models.RoleStudent})
	if w.Code != http.StatusBadRequest {
		t.Errorf("self-demotion status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	// Unknown roles are rejected.
	w = doJSON(t, router, http.MethodPatch, rolePath, adminToken, gin.H{"role": "SUPERUSER"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown role status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
