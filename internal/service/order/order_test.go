package order

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/adiprasetyo/tokoku/internal/models"
)

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to connect to in-memory db")

	err = db.AutoMigrate(
		&models.User{},
		&models.Buyer{},
		&models.Product{},
		&models.Voucher{},
		&models.Order{},
		&models.DetailOrder{},
	)
	require.NoError(t, err, "failed to migrate tables")

	return db
}

func seedCatalog(t *testing.T, db *gorm.DB) (models.User, models.Buyer, models.Product, models.Product) {
	t.Helper()

	user := models.User{Email: "u@test.local", Username: "test_user", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)

	buyer := models.Buyer{Username: "test_buyer", Name: "Test Buyer", Email: "b@test.local", Phone: "0812"}
	require.NoError(t, db.Create(&buyer).Error)

	p1 := models.Product{ProductCode: "P1", Name: "Keyboard", Price: 10000}
	p2 := models.Product{ProductCode: "P2", Name: "Mouse", Price: 5000}
	require.NoError(t, db.Create(&p1).Error)
	require.NoError(t, db.Create(&p2).Error)

	return user, buyer, p1, p2
}

func seedVoucher(t *testing.T, db *gorm.DB, used, max int, expired time.Time) models.Voucher {
	t.Helper()

	v := models.Voucher{
		Name:         "promo",
		Code:         "HEMAT10",
		ExpiredTime:  expired,
		QuantityUsed: used,
		QuantityMax:  max,
	}
	require.NoError(t, db.Create(&v).Error)
	return v
}

func TestCreateOrderTotals(t *testing.T) {
	db := initTestDB(t)
	user, buyer, p1, p2 := seedCatalog(t, db)
	svc := &OrderService{DB: db}

	created, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		UserID:  user.ID,
		BuyerID: buyer.ID,
		Products: []LineRequest{
			{ProductID: p1.ID, Quantity: 2},
			{ProductID: p2.ID, Quantity: 1},
		},
		Desc: "first order",
	})
	require.NoError(t, err)

	require.Equal(t, float64(25000), created.Total)
	require.Equal(t, float64(0), created.Discount)
	require.Nil(t, created.VoucherID)
	require.Regexp(t, `^INV-`, created.OrderCode)
	require.Len(t, created.DetailOrders, 2)

	require.Equal(t, float64(10000), created.DetailOrders[0].Price)
	require.Equal(t, float64(20000), created.DetailOrders[0].SubTotal)
	require.Equal(t, "Keyboard", created.DetailOrders[0].Product.Name)
	require.Equal(t, float64(5000), created.DetailOrders[1].SubTotal)
	require.Equal(t, "Test Buyer", created.Buyer.Name)
}

func TestCreateOrderWithVoucher(t *testing.T) {
	db := initTestDB(t)
	user, buyer, p1, p2 := seedCatalog(t, db)
	voucher := seedVoucher(t, db, 3, 5, time.Now().Add(24*time.Hour))
	svc := &OrderService{DB: db}

	created, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		UserID:  user.ID,
		BuyerID: buyer.ID,
		Products: []LineRequest{
			{ProductID: p1.ID, Quantity: 2},
			{ProductID: p2.ID, Quantity: 1},
		},
		VoucherCode: "hemat10",
	})
	require.NoError(t, err)

	require.Equal(t, float64(10000), created.Discount)
	require.Equal(t, float64(15000), created.Total)
	require.NotNil(t, created.VoucherID)
	require.Equal(t, voucher.ID, *created.VoucherID)

	var after models.Voucher
	require.NoError(t, db.First(&after, voucher.ID).Error)
	require.Equal(t, 4, after.QuantityUsed)
}

func TestCreateOrderVoucherExhausted(t *testing.T) {
	db := initTestDB(t)
	user, buyer, p1, _ := seedCatalog(t, db)
	voucher := seedVoucher(t, db, 5, 5, time.Now().Add(24*time.Hour))
	svc := &OrderService{DB: db}

	created, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		UserID:      user.ID,
		BuyerID:     buyer.ID,
		Products:    []LineRequest{{ProductID: p1.ID, Quantity: 1}},
		VoucherCode: "HEMAT10",
	})
	require.NoError(t, err)

	require.Equal(t, float64(0), created.Discount)
	require.Equal(t, float64(10000), created.Total)

	var after models.Voucher
	require.NoError(t, db.First(&after, voucher.ID).Error)
	require.Equal(t, 5, after.QuantityUsed, "counter must never pass the cap")
}

func TestCreateOrderVoucherExpired(t *testing.T) {
	db := initTestDB(t)
	user, buyer, p1, _ := seedCatalog(t, db)
	voucher := seedVoucher(t, db, 0, 5, time.Now().Add(-time.Hour))
	svc := &OrderService{DB: db}

	created, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		UserID:      user.ID,
		BuyerID:     buyer.ID,
		Products:    []LineRequest{{ProductID: p1.ID, Quantity: 1}},
		VoucherCode: "HEMAT10",
	})
	require.NoError(t, err)

	require.Equal(t, float64(0), created.Discount)

	var after models.Voucher
	require.NoError(t, db.First(&after, voucher.ID).Error)
	require.Equal(t, 0, after.QuantityUsed)
}

func TestCreateOrderVoucherCapSingleRedemption(t *testing.T) {
	db := initTestDB(t)
	user, buyer, p1, _ := seedCatalog(t, db)
	voucher := seedVoucher(t, db, 4, 5, time.Now().Add(24*time.Hour))
	svc := &OrderService{DB: db}

	discounted := 0
	for i := 0; i < 5; i++ {
		created, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
			UserID:      user.ID,
			BuyerID:     buyer.ID,
			Products:    []LineRequest{{ProductID: p1.ID, Quantity: 2}},
			VoucherCode: "HEMAT10",
		})
		require.NoError(t, err)
		if created.Discount > 0 {
			discounted++
		}
	}

	require.Equal(t, 1, discounted, "only the redemption that won the last slot gets the discount")

	var after models.Voucher
	require.NoError(t, db.First(&after, voucher.ID).Error)
	require.Equal(t, 5, after.QuantityUsed)
}

func TestCreateOrderDiscountClampedAtZero(t *testing.T) {
	db := initTestDB(t)
	user, buyer, _, p2 := seedCatalog(t, db)
	seedVoucher(t, db, 0, 5, time.Now().Add(24*time.Hour))
	svc := &OrderService{DB: db}

	created, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		UserID:      user.ID,
		BuyerID:     buyer.ID,
		Products:    []LineRequest{{ProductID: p2.ID, Quantity: 1}},
		VoucherCode: "HEMAT10",
	})
	require.NoError(t, err)

	require.Equal(t, float64(10000), created.Discount)
	require.Equal(t, float64(0), created.Total, "total must not go negative")
}

func TestCreateOrderProductMissingRollsBack(t *testing.T) {
	db := initTestDB(t)
	user, buyer, p1, _ := seedCatalog(t, db)
	svc := &OrderService{DB: db}

	_, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		UserID:  user.ID,
		BuyerID: buyer.ID,
		Products: []LineRequest{
			{ProductID: p1.ID, Quantity: 1},
			{ProductID: 9999, Quantity: 1},
		},
	})
	require.ErrorIs(t, err, ErrProductNotFound)

	var orders, details int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.DetailOrder{}).Count(&details).Error)
	require.Zero(t, orders, "no order may survive a failed attempt")
	require.Zero(t, details)
}

func TestCreateOrderVoucherNotFound(t *testing.T) {
	db := initTestDB(t)
	user, buyer, p1, _ := seedCatalog(t, db)
	svc := &OrderService{DB: db}

	_, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		UserID:      user.ID,
		BuyerID:     buyer.ID,
		Products:    []LineRequest{{ProductID: p1.ID, Quantity: 1}},
		VoucherCode: "NOPE",
	})
	require.ErrorIs(t, err, ErrVoucherNotFound)

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.Zero(t, orders)
}

func TestCreateOrderValidation(t *testing.T) {
	db := initTestDB(t)
	user, buyer, p1, _ := seedCatalog(t, db)
	svc := &OrderService{DB: db}

	tests := []struct {
		name    string
		req     CreateOrderRequest
		wantErr error
	}{
		{
			name:    "empty products",
			req:     CreateOrderRequest{UserID: user.ID, BuyerID: buyer.ID},
			wantErr: ErrMissingFields,
		},
		{
			name:    "missing buyer",
			req:     CreateOrderRequest{UserID: user.ID, Products: []LineRequest{{ProductID: p1.ID, Quantity: 1}}},
			wantErr: ErrMissingFields,
		},
		{
			name:    "missing user",
			req:     CreateOrderRequest{BuyerID: buyer.ID, Products: []LineRequest{{ProductID: p1.ID, Quantity: 1}}},
			wantErr: ErrMissingFields,
		},
		{
			name:    "zero quantity",
			req:     CreateOrderRequest{UserID: user.ID, BuyerID: buyer.ID, Products: []LineRequest{{ProductID: p1.ID, Quantity: 0}}},
			wantErr: ErrInvalidQuantity,
		},
		{
			name:    "negative quantity",
			req:     CreateOrderRequest{UserID: user.ID, BuyerID: buyer.ID, Products: []LineRequest{{ProductID: p1.ID, Quantity: -1}}},
			wantErr: ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateOrder(context.Background(), tt.req)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGetOrdersByBuyerNewestFirst(t *testing.T) {
	db := initTestDB(t)
	user, buyer, p1, _ := seedCatalog(t, db)
	svc := &OrderService{DB: db}

	first, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		UserID:   user.ID,
		BuyerID:  buyer.ID,
		Products: []LineRequest{{ProductID: p1.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	second, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		UserID:   user.ID,
		BuyerID:  buyer.ID,
		Products: []LineRequest{{ProductID: p1.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	// Force distinct timestamps, sqlite time resolution is too coarse here.
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", first.ID).
		Update("created_at", time.Now().Add(-time.Hour)).Error)

	orders, err := svc.GetOrdersByBuyer(context.Background(), buyer.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	require.Equal(t, second.ID, orders[0].ID)
	require.Equal(t, first.ID, orders[1].ID)

	require.Len(t, orders[0].DetailOrders, 1)
	require.Equal(t, "Keyboard", orders[0].DetailOrders[0].Product.Name)
}

func TestGetOrderByIDNotFound(t *testing.T) {
	db := initTestDB(t)
	svc := &OrderService{DB: db}

	_, err := svc.GetOrderByID(context.Background(), 42)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.Zero(t, orders)
}

func TestGetOrderByIDProjectsBuyer(t *testing.T) {
	db := initTestDB(t)
	user, buyer, p1, _ := seedCatalog(t, db)
	svc := &OrderService{DB: db}

	created, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		UserID:   user.ID,
		BuyerID:  buyer.ID,
		Products: []LineRequest{{ProductID: p1.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	found, err := svc.GetOrderByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "test_buyer", found.Buyer.Username)
	require.Equal(t, "0812", found.Buyer.Phone)
	require.Equal(t, "Keyboard", found.DetailOrders[0].Product.Name)
}
