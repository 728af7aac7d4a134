package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/adiprasetyo/tokoku/internal/models"
)

type BuyerHandler struct {
	DB *gorm.DB
}

type buyerRequest struct {
	Username *string `json:"username"`
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
}

func (h *BuyerHandler) RegisterBuyer(c echo.Context) error {
	var req buyerRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}
	if req.Name == nil || req.Email == nil {
		return errorResponse(c, http.StatusBadRequest, "name and email are required")
	}

	buyer := models.Buyer{
		Name:  *req.Name,
		Email: *req.Email,
	}
	applyBuyerFields(&buyer, req)

	if err := h.DB.Create(&buyer).Error; err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusCreated, buyer)
}

func (h *BuyerHandler) GetBuyer(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}

	var buyer models.Buyer
	if err := h.DB.First(&buyer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, "buyer not found")
		}
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, buyer)
}

func (h *BuyerHandler) UpdateBuyer(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}

	var req buyerRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}

	var buyer models.Buyer
	if err := h.DB.First(&buyer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, "buyer not found")
		}
		return internalError(c, err)
	}

	if req.Name != nil {
		buyer.Name = *req.Name
	}
	if req.Email != nil {
		buyer.Email = *req.Email
	}
	applyBuyerFields(&buyer, req)

	if err := h.DB.Save(&buyer).Error; err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, buyer)
}

func (h *BuyerHandler) GetBuyers(c echo.Context) error {
	var buyers []models.Buyer
	if err := h.DB.Find(&buyers).Error; err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, buyers)
}

func applyBuyerFields(buyer *models.Buyer, req buyerRequest) {
	if req.Username != nil {
		buyer.Username = *req.Username
	}
	if req.Phone != nil {
		buyer.Phone = *req.Phone
	}
	if req.Address != nil {
		buyer.Address = *req.Address
	}
}
