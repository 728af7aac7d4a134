package models

import (
	"time"
)

type User struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string     `gorm:"unique;not null"          json:"email"`
	Username     string     `gorm:"unique;not null"          json:"username"`
	Phone        string     `json:"phone"`
	PasswordHash string     `gorm:"not null"                 json:"-"`
	Gender       string     `json:"gender"`
	Dob          *time.Time `json:"dob"`
	Address      string     `json:"address"`
	CreatedAt    time.Time  `json:"created_at"`
}

type Buyer struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username string `json:"username"`
	Name     string `gorm:"not null"                 json:"name"`
	Email    string `gorm:"unique;not null"          json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductCode string    `gorm:"unique;not null"          json:"product_code"`
	Name        string    `gorm:"not null"                 json:"name"`
	Type        string    `json:"type"`
	Price       float64   `gorm:"not null"                 json:"price"`
	Desc        string    `json:"desc"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
}

type Voucher struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"not null"                 json:"name"`
	Code         string    `gorm:"unique;not null"          json:"code"`
	ExpiredTime  time.Time `gorm:"not null"                 json:"expired_time"`
	QuantityUsed int       `gorm:"default:0"                json:"quantity_used"`
	QuantityMax  int       `gorm:"not null"                 json:"quantity_max"`
}

type Order struct {
	ID           uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderCode    string        `gorm:"unique;not null"          json:"order_code"`
	Total        float64       `gorm:"not null"                 json:"total"`
	Discount     float64       `gorm:"default:0"                json:"discount"`
	Desc         string        `json:"desc"`
	UserID       uint          `gorm:"index;not null"           json:"user_id"`
	BuyerID      uint          `gorm:"index;not null"           json:"buyer_id"`
	VoucherID    *uint         `json:"voucher_id,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	Buyer        Buyer         `gorm:"foreignKey:BuyerID"       json:"buyer,omitempty"`
	DetailOrders []DetailOrder `gorm:"foreignKey:OrderID"       json:"detail_orders"`
}

type DetailOrder struct {
	ID        uint    `gorm:"primaryKey;autoIncrement"  json:"id"`
	OrderID   uint    `gorm:"index;not null"            json:"order_id"`
	ProductID uint    `gorm:"not null"                  json:"product_id"`
	Quantity  int     `gorm:"not null;check:quantity>0" json:"quantity"`
	Price     float64 `gorm:"not null"                  json:"price"`
	SubTotal  float64 `gorm:"not null"                  json:"sub_total"`
	Product   Product `gorm:"foreignKey:ProductID"      json:"product,omitempty"`
}

type Rating struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	BuyerID   uint      `gorm:"index;not null"           json:"buyer_id"`
	ProductID uint      `gorm:"index;not null"           json:"product_id"`
	OrderID   uint      `gorm:"not null"                 json:"order_id"`
	Rating    int       `gorm:"not null"                 json:"rating"`
	Review    string    `json:"review"`
	CreatedAt time.Time `json:"created_at"`
	Buyer     Buyer     `gorm:"foreignKey:BuyerID"       json:"buyer,omitempty"`
}
