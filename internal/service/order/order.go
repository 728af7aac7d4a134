package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adiprasetyo/tokoku/internal/models"
)

// VoucherDiscount is the flat amount taken off the subtotal when a voucher
// with remaining quota is redeemed.
const VoucherDiscount = 10000

var (
	ErrMissingFields   = errors.New("user, buyer and products are required")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrProductNotFound = errors.New("one or more products not found")
	ErrVoucherNotFound = errors.New("voucher not found")
)

type LineRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type CreateOrderRequest struct {
	UserID      uint          `json:"user_id"`
	BuyerID     uint          `json:"buyer_id"`
	Products    []LineRequest `json:"products"`
	VoucherCode string        `json:"voucher_code"`
	Desc        string        `json:"desc"`
}

type OrderService struct {
	DB *gorm.DB
}

// CreateOrder persists an order with all its lines and the optional voucher
// redemption as one transaction. Any error rolls back every write, the
// voucher counter included.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	if req.UserID == 0 || req.BuyerID == 0 || len(req.Products) == 0 {
		return nil, ErrMissingFields
	}

	var created models.Order

	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seen := make(map[uint]bool, len(req.Products))
		ids := make([]uint, 0, len(req.Products))
		for _, p := range req.Products {
			if p.Quantity <= 0 {
				return ErrInvalidQuantity
			}
			if !seen[p.ProductID] {
				seen[p.ProductID] = true
				ids = append(ids, p.ProductID)
			}
		}

		var dbProducts []models.Product
		if err := tx.Where("id IN ?", ids).Find(&dbProducts).Error; err != nil {
			return fmt.Errorf("load products: %w", err)
		}
		if len(dbProducts) != len(ids) {
			return ErrProductNotFound
		}

		priceMap := make(map[uint]float64, len(dbProducts))
		for _, p := range dbProducts {
			priceMap[p.ID] = p.Price
		}

		var subTotal float64
		details := make([]models.DetailOrder, 0, len(req.Products))
		for _, p := range req.Products {
			price, ok := priceMap[p.ProductID]
			if !ok {
				return ErrProductNotFound
			}
			lineTotal := price * float64(p.Quantity)
			subTotal += lineTotal
			details = append(details, models.DetailOrder{
				ProductID: p.ProductID,
				Quantity:  p.Quantity,
				Price:     price,
				SubTotal:  lineTotal,
			})
		}

		var discount float64
		var voucherID *uint
		if req.VoucherCode != "" {
			code := strings.ToUpper(req.VoucherCode)

			var voucher models.Voucher
			if err := tx.Where("code = ?", code).First(&voucher).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrVoucherNotFound
				}
				return fmt.Errorf("load voucher: %w", err)
			}

			// Guarded increment: the quota check and the counter bump are one
			// statement, so concurrent redemptions can never push the counter
			// past quantity_max.
			res := tx.Model(&models.Voucher{}).
				Where("id = ? AND quantity_used < quantity_max AND expired_time > ?", voucher.ID, time.Now()).
				UpdateColumn("quantity_used", gorm.Expr("quantity_used + 1"))
			if res.Error != nil {
				return fmt.Errorf("redeem voucher: %w", res.Error)
			}
			if res.RowsAffected == 1 {
				discount = VoucherDiscount
			}
			voucherID = &voucher.ID
		}

		total := subTotal - discount
		if total < 0 {
			total = 0
		}

		order := models.Order{
			OrderCode:    newOrderCode(),
			Total:        total,
			Discount:     discount,
			Desc:         req.Desc,
			UserID:       req.UserID,
			BuyerID:      req.BuyerID,
			VoucherID:    voucherID,
			DetailOrders: details,
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		if err := tx.Preload("DetailOrders.Product").Preload("Buyer").
			First(&created, order.ID).Error; err != nil {
			return fmt.Errorf("reload order: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return &created, nil
}

// GetOrdersByBuyer returns a buyer's orders, most recent first, each line
// carrying only the product name and image.
func (s *OrderService) GetOrdersByBuyer(ctx context.Context, buyerID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Preload("DetailOrders.Product", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "image")
		}).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrderByID returns one order with full line and product detail and the
// buyer's username and phone.
func (s *OrderService) GetOrderByID(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.DB.WithContext(ctx).
		Preload("DetailOrders.Product").
		Preload("Buyer", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "phone")
		}).
		First(&order, orderID).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := s.DB.WithContext(ctx).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func newOrderCode() string {
	return "INV-" + uuid.NewString()
}
