package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/adiprasetyo/tokoku/internal/models"
	"github.com/adiprasetyo/tokoku/internal/mykafka"
)

type RatingHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func (h *RatingHandler) AddRating(c echo.Context) error {
	var req struct {
		BuyerID   uint   `json:"buyer_id"`
		ProductID uint   `json:"product_id"`
		OrderID   uint   `json:"order_id"`
		Rating    *int   `json:"rating"`
		Review    string `json:"review"`
	}

	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}
	if req.BuyerID == 0 || req.ProductID == 0 || req.OrderID == 0 || req.Rating == nil {
		return errorResponse(c, http.StatusBadRequest, "buyer_id, product_id, order_id and rating are required")
	}
	if *req.Rating < 1 || *req.Rating > 5 {
		return errorResponse(c, http.StatusBadRequest, "rating must be between 1 and 5")
	}

	rating := models.Rating{
		BuyerID:   req.BuyerID,
		ProductID: req.ProductID,
		OrderID:   req.OrderID,
		Rating:    *req.Rating,
		Review:    req.Review,
	}

	if err := h.DB.Create(&rating).Error; err != nil {
		return internalError(c, err)
	}

	publish(c, h.Producer, "rating_events", map[string]any{
		"type":      "rating_added",
		"buyerID":   rating.BuyerID,
		"productID": rating.ProductID,
		"rating":    rating.Rating,
	})

	return c.JSON(http.StatusCreated, echo.Map{"msg": "rating added", "data": rating})
}

func (h *RatingHandler) GetRatingsByProduct(c echo.Context) error {
	productID, err := paramID(c, "productId")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}

	var ratings []models.Rating
	dbErr := h.DB.
		Where("product_id = ?", productID).
		Preload("Buyer", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username")
		}).
		Order("created_at DESC").
		Find(&ratings).Error
	if dbErr != nil {
		return internalError(c, dbErr)
	}

	if len(ratings) == 0 {
		return errorResponse(c, http.StatusNotFound, "no ratings found for this product")
	}

	return c.JSON(http.StatusOK, ratings)
}
