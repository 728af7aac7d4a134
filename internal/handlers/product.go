package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/adiprasetyo/tokoku/internal/es"
	"github.com/adiprasetyo/tokoku/internal/models"
	"github.com/adiprasetyo/tokoku/internal/mykafka"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	ESIndex  string
}

type productRequest struct {
	ProductCode *string  `json:"product_code"`
	Name        *string  `json:"name"`
	Type        *string  `json:"type"`
	Price       *float64 `json:"price"`
	Desc        *string  `json:"desc"`
	Image       *string  `json:"image"`
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}
	if req.ProductCode == nil || req.Name == nil || req.Price == nil {
		return errorResponse(c, http.StatusBadRequest, "product_code, name and price are required")
	}
	if *req.Price < 0 {
		return errorResponse(c, http.StatusBadRequest, "price must be non-negative")
	}

	var existing models.Product
	err := h.DB.Where("product_code = ?", *req.ProductCode).First(&existing).Error
	if err == nil {
		return errorResponse(c, http.StatusConflict, "product code already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return internalError(c, err)
	}

	prod := models.Product{
		ProductCode: *req.ProductCode,
		Name:        *req.Name,
		Price:       *req.Price,
	}
	applyProductFields(&prod, req)

	if err := h.DB.Create(&prod).Error; err != nil {
		return internalError(c, err)
	}

	h.index(c, prod)
	publish(c, h.Producer, "product_events", map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})

	return c.JSON(http.StatusCreated, echo.Map{"msg": "product created", "data": prod})
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	q := h.DB.Model(&models.Product{})

	if t := c.QueryParam("type"); t != "" {
		q = q.Where("type = ?", t)
	}
	if search := c.QueryParam("search"); search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}

	var prod models.Product
	if err := h.DB.First(&prod, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, "product not found")
		}
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}

	var prod models.Product
	if err := h.DB.First(&prod, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, "product not found")
		}
		return internalError(c, err)
	}

	if req.ProductCode != nil {
		prod.ProductCode = *req.ProductCode
	}
	if req.Name != nil {
		prod.Name = *req.Name
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return errorResponse(c, http.StatusBadRequest, "price must be non-negative")
		}
		prod.Price = *req.Price
	}
	applyProductFields(&prod, req)

	if err := h.DB.Save(&prod).Error; err != nil {
		return internalError(c, err)
	}

	h.index(c, prod)
	publish(c, h.Producer, "product_events", map[string]any{
		"type":      "product_updated",
		"productID": prod.ID,
		"name":      prod.Name,
	})

	return c.JSON(http.StatusOK, echo.Map{"msg": "product updated", "data": prod})
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}

	res := h.DB.Delete(&models.Product{}, id)
	if res.Error != nil {
		return internalError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return errorResponse(c, http.StatusNotFound, "product not found")
	}

	if h.ES != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if err := es.DeleteProduct(ctx, h.ES, h.ESIndex, id); err != nil {
			c.Logger().Errorf("ES delete error: %v", err)
		}
	}
	publish(c, h.Producer, "product_events", map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})

	return c.JSON(http.StatusOK, Response{Msg: "product deleted"})
}

// index mirrors the product into the search index; failures are logged, not
// surfaced, the database row is the source of truth.
func (h *ProductHandler) index(c echo.Context, prod models.Product) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := es.IndexProduct(ctx, h.ES, h.ESIndex, prod); err != nil {
		c.Logger().Errorf("ES index error: %v", err)
	}
}

func applyProductFields(prod *models.Product, req productRequest) {
	if req.Type != nil {
		prod.Type = *req.Type
	}
	if req.Desc != nil {
		prod.Desc = *req.Desc
	}
	if req.Image != nil {
		prod.Image = *req.Image
	}
}
