package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/adiprasetyo/tokoku/internal/models"
	"github.com/adiprasetyo/tokoku/internal/mykafka"
)

type VoucherHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func (h *VoucherHandler) CreateVoucher(c echo.Context) error {
	var req struct {
		Name         string `json:"name"`
		Code         string `json:"code"`
		ExpiredTime  string `json:"expired_time"`
		QuantityUsed int    `json:"quantity_used"`
		QuantityMax  *int   `json:"quantity_max"`
	}

	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" || req.Code == "" || req.ExpiredTime == "" || req.QuantityMax == nil {
		return errorResponse(c, http.StatusBadRequest, "name, code, expired_time and quantity_max are required")
	}

	expired, err := time.Parse(time.RFC3339, req.ExpiredTime)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "expired_time must be RFC3339")
	}

	code := strings.ToUpper(req.Code)

	var existing models.Voucher
	lookupErr := h.DB.Where("code = ?", code).First(&existing).Error
	if lookupErr == nil {
		return errorResponse(c, http.StatusConflict, "voucher code already exists")
	}
	if !errors.Is(lookupErr, gorm.ErrRecordNotFound) {
		return internalError(c, lookupErr)
	}

	voucher := models.Voucher{
		Name:         req.Name,
		Code:         code,
		ExpiredTime:  expired,
		QuantityUsed: req.QuantityUsed,
		QuantityMax:  *req.QuantityMax,
	}

	if err := h.DB.Create(&voucher).Error; err != nil {
		return internalError(c, err)
	}

	publish(c, h.Producer, "voucher_events", map[string]any{
		"type":      "voucher_created",
		"voucherID": voucher.ID,
		"code":      voucher.Code,
	})

	return c.JSON(http.StatusCreated, echo.Map{"msg": "voucher created", "data": voucher})
}

func (h *VoucherHandler) GetVouchers(c echo.Context) error {
	var vouchers []models.Voucher
	if err := h.DB.Find(&vouchers).Error; err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, vouchers)
}

// ValidateVoucher reports whether a code can still be redeemed. Absent,
// expired and exhausted vouchers each get their own status code so clients
// can tell the cases apart.
func (h *VoucherHandler) ValidateVoucher(c echo.Context) error {
	var req struct {
		Code string `json:"code"`
	}

	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}
	if req.Code == "" {
		return errorResponse(c, http.StatusBadRequest, "voucher code is required")
	}

	var voucher models.Voucher
	if err := h.DB.Where("code = ?", strings.ToUpper(req.Code)).First(&voucher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"valid": false, "msg": "voucher not found"})
		}
		return internalError(c, err)
	}

	if time.Now().After(voucher.ExpiredTime) {
		return c.JSON(http.StatusGone, echo.Map{"valid": false, "msg": "voucher expired"})
	}

	if voucher.QuantityUsed >= voucher.QuantityMax {
		return c.JSON(http.StatusTooManyRequests, echo.Map{"valid": false, "msg": "voucher quota exhausted"})
	}

	return c.JSON(http.StatusOK, echo.Map{"valid": true, "msg": "voucher is valid", "data": voucher})
}
