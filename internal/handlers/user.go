package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/adiprasetyo/tokoku/internal/hash"
	"github.com/adiprasetyo/tokoku/internal/models"
)

type UserHandler struct {
	DB *gorm.DB
}

func (h *UserHandler) GetUsers(c echo.Context) error {
	var users []models.User
	if err := h.DB.Find(&users).Error; err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, "user not found")
		}
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

type userRequest struct {
	Email    *string `json:"email"`
	Username *string `json:"username"`
	Password *string `json:"password"`
	Phone    *string `json:"phone"`
	Gender   *string `json:"gender"`
	Dob      *string `json:"dob"`
	Address  *string `json:"address"`
}

func (h *UserHandler) CreateUser(c echo.Context) error {
	var req userRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}
	if req.Email == nil || req.Username == nil || req.Password == nil {
		return errorResponse(c, http.StatusBadRequest, "email, username and password are required")
	}

	passwordHash, err := hash.HashPassword(*req.Password)
	if err != nil {
		return internalError(c, err)
	}

	user := models.User{
		Email:        *req.Email,
		Username:     *req.Username,
		PasswordHash: passwordHash,
	}
	applyUserFields(&user, req)

	if err := h.DB.Create(&user).Error; err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"msg": "user created", "data": user})
}

func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}

	var req userRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, "user not found")
		}
		return internalError(c, err)
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Password != nil {
		passwordHash, err := hash.HashPassword(*req.Password)
		if err != nil {
			return internalError(c, err)
		}
		user.PasswordHash = passwordHash
	}
	applyUserFields(&user, req)

	if err := h.DB.Save(&user).Error; err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"msg": "user updated", "data": user})
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}

	res := h.DB.Delete(&models.User{}, id)
	if res.Error != nil {
		return internalError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return errorResponse(c, http.StatusNotFound, "user not found")
	}
	return c.JSON(http.StatusOK, Response{Msg: "user deleted"})
}

func applyUserFields(user *models.User, req userRequest) {
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.Dob != nil {
		if dob, err := time.Parse("2006-01-02", *req.Dob); err == nil {
			user.Dob = &dob
		}
	}
}
