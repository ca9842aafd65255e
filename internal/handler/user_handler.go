package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"analytics-service/internal/usermgmt"
	"analytics-service/pkg/database"
	"analytics-service/pkg/logger"
	"analytics-service/prometheus"
)

// LoginRequest carries login credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates an operator and returns a signed token.
func Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.AuthAttemptsCounter.Inc()

	var req LoginRequest
	if err := c.Bind(&req); err != nil || req.Username == "" || req.Password == "" {
		prometheus.RecordAuthError("bad_request")
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	result, err := usermgmt.New(database.GetDB()).Authenticate(req.Username, req.Password)
	if errors.Is(err, usermgmt.ErrInvalidCredentials) {
		prometheus.RecordAuthError("invalid_credentials")
		log.Warn("Login failed", zap.String("username", req.Username))
		return errorJSON(c, http.StatusUnauthorized, "Invalid username or password")
	}
	if err != nil {
		prometheus.RecordAuthError("internal")
		log.Error("Login error", zap.String("username", req.Username), zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "Login failed")
	}

	prometheus.AuthSuccessCounter.Inc()
	log.Info("Login succeeded",
		zap.String("username", result.Username), zap.String("role", result.Role))
	return c.JSON(http.StatusOK, result)
}

// Permissions returns the feature flags of the authenticated user.
func Permissions(c echo.Context) error {
	log := logger.FromEcho(c)

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, "Authentication required")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	permissions, err := usermgmt.New(database.GetDB()).Permissions(userID)
	if errors.Is(err, usermgmt.ErrUserNotFound) {
		return errorJSON(c, http.StatusNotFound, "User not found")
	}
	if err != nil {
		log.Error("Failed to load permissions", zap.Uint("user_id", userID), zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "Failed to load permissions")
	}

	return c.JSON(http.StatusOK, permissions)
}

// ListUsers returns all operator accounts.
func ListUsers(c echo.Context) error {
	log := logger.FromEcho(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	users, err := usermgmt.New(database.GetDB()).ListUsers()
	if err != nil {
		log.Error("Failed to list users", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "Failed to list users")
	}

	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// UserRequest carries account creation fields.
type UserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateUser registers a new operator account.
func CreateUser(c echo.Context) error {
	log := logger.FromEcho(c)

	var req UserRequest
	if err := c.Bind(&req); err != nil || req.Username == "" || req.Password == "" || req.Role == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username, password and role are required")
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	user, err := usermgmt.New(database.GetDB()).CreateUser(req.Username, req.Password, req.Role)
	switch {
	case errors.Is(err, usermgmt.ErrInvalidRole):
		return errorJSON(c, http.StatusBadRequest, "Invalid role")
	case errors.Is(err, usermgmt.ErrDuplicateUsername):
		return errorJSON(c, http.StatusConflict, "Username already exists")
	case err != nil:
		log.Error("Failed to create user", zap.String("username", req.Username), zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "Failed to create user")
	}

	log.Info("User created",
		zap.String("username", user.Username), zap.String("role", user.Role))
	return c.JSON(http.StatusCreated, user)
}

// UserUpdateRequest carries optional account changes.
type UserUpdateRequest struct {
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

// UpdateUser applies a partial update to an account.
func UpdateUser(c echo.Context) error {
	log := logger.FromEcho(c)

	userID, err := userIDParam(c)
	if err != nil {
		return err
	}

	var req UserUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	user, err := usermgmt.New(database.GetDB()).UpdateUser(userID, usermgmt.UserUpdate{
		Password: req.Password,
		Role:     req.Role,
	})
	switch {
	case errors.Is(err, usermgmt.ErrUserNotFound):
		return errorJSON(c, http.StatusNotFound, "User not found")
	case errors.Is(err, usermgmt.ErrInvalidRole):
		return errorJSON(c, http.StatusBadRequest, "Invalid role")
	case err != nil:
		log.Error("Failed to update user", zap.Uint("user_id", userID), zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "Failed to update user")
	}

	return c.JSON(http.StatusOK, user)
}

// DeleteUser removes an operator account.
func DeleteUser(c echo.Context) error {
	log := logger.FromEcho(c)

	userID, err := userIDParam(c)
	if err != nil {
		return err
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	err = usermgmt.New(database.GetDB()).DeleteUser(userID)
	if errors.Is(err, usermgmt.ErrUserNotFound) {
		return errorJSON(c, http.StatusNotFound, "User not found")
	}
	if err != nil {
		log.Error("Failed to delete user", zap.Uint("user_id", userID), zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "Failed to delete user")
	}

	log.Info("User deleted", zap.Uint("user_id", userID))
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func userIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}
	return uint(id), nil
}
