package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/adiprasetyo/tokoku/internal/hash"
	"github.com/adiprasetyo/tokoku/internal/models"
	"github.com/adiprasetyo/tokoku/internal/mykafka"
	"github.com/adiprasetyo/tokoku/internal/service/token"
)

type AuthHandler struct {
	DB       *gorm.DB
	Tokens   *token.TokenService
	Producer *mykafka.Producer
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
		Gender   string `json:"gender"`
		Dob      string `json:"dob"`
		Address  string `json:"address"`
	}

	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.Username == "" || req.Password == "" {
		return errorResponse(c, http.StatusBadRequest, "email, username and password are required")
	}

	var existing models.User
	err := h.DB.Where("email = ? OR username = ?", req.Email, req.Username).First(&existing).Error
	if err == nil {
		return errorResponse(c, http.StatusBadRequest, "email or username already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return internalError(c, err)
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return internalError(c, err)
	}

	user := models.User{
		Email:        req.Email,
		Username:     req.Username,
		Phone:        req.Phone,
		PasswordHash: passwordHash,
		Gender:       req.Gender,
		Address:      req.Address,
	}
	if req.Dob != "" {
		if dob, err := time.Parse("2006-01-02", req.Dob); err == nil {
			user.Dob = &dob
		}
	}

	if err := h.DB.Create(&user).Error; err != nil {
		return internalError(c, err)
	}

	publish(c, h.Producer, "user_events", map[string]any{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	})

	return c.JSON(http.StatusCreated, echo.Map{"msg": "registration successful", "user": user})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}
	if req.Username == "" || req.Password == "" {
		return errorResponse(c, http.StatusBadRequest, "username and password are required")
	}

	var user models.User
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, "user not found")
		}
		return internalError(c, err)
	}

	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return errorResponse(c, http.StatusUnauthorized, "wrong password")
	}

	signed, err := h.Tokens.Sign(user.ID, user.Username)
	if err != nil {
		return internalError(c, err)
	}

	publish(c, h.Producer, "user_events", map[string]any{
		"type":     "user_logged_in",
		"userID":   user.ID,
		"username": user.Username,
	})

	return c.JSON(http.StatusOK, echo.Map{"msg": "login successful", "token": signed})
}

func (h *AuthHandler) Profile(c echo.Context) error {
	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, "user not found")
		}
		return internalError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"user": user})
}
