package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusAwaitingPay OrderStatus = "awaiting_payment"
	OrderStatusPaid        OrderStatus = "paid"
	OrderStatusShipped     OrderStatus = "shipped"
	OrderStatusCancelled   OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusAwaitingPay, OrderStatusPaid, OrderStatusShipped, OrderStatusCancelled:
		return true
	}
	return false
}

type Customer struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
}

// Normalize trims every field and lowercases the email.
func (c Customer) Normalize() Customer {
	return Customer{
		Email:   strings.ToLower(strings.TrimSpace(c.Email)),
		Name:    strings.TrimSpace(c.Name),
		Phone:   strings.TrimSpace(c.Phone),
		Address: strings.TrimSpace(c.Address),
		City:    strings.TrimSpace(c.City),
	}
}

func (c Customer) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: name required", ErrInvalidCustomer)
	}
	if c.Email == "" {
		return fmt.Errorf("%w: email required", ErrInvalidCustomer)
	}
	if a, err := mail.ParseAddress(c.Email); err != nil || a.Address != c.Email {
		return fmt.Errorf("%w: bad email %q", ErrInvalidCustomer, c.Email)
	}
	return nil
}

// Order freezes the cart lines and money aggregates at checkout.
type Order struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Status      OrderStatus `gorm:"type:varchar(30);index" json:"status"`
	Items       []OrderItem `json:"items"`
	Email       string      `gorm:"size:140" json:"email"`
	Name        string      `gorm:"size:140" json:"name"`
	Phone       string      `gorm:"size:50" json:"phone"`
	Address     string      `gorm:"size:255" json:"address"`
	City        string      `gorm:"size:80" json:"city"`
	Currency    string      `gorm:"size:3" json:"currency"`
	Subtotal    int64       `gorm:"not null;default:0" json:"subtotal"`
	ShippingFee int64       `gorm:"not null;default:0" json:"shippingFee"`
	Total       int64       `gorm:"not null;default:0" json:"total"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;index" json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;index" json:"productId"`
	Slug      string    `gorm:"size:140" json:"slug"`
	Title     string    `gorm:"size:180" json:"title"`
	Size      string    `gorm:"size:20" json:"size,omitempty"`
	Color     string    `gorm:"size:60" json:"color,omitempty"`
	Qty       int       `gorm:"not null" json:"qty"`
	UnitPrice int64     `gorm:"not null" json:"unitPrice"`
}

func (i OrderItem) LineTotal() int64 { return i.UnitPrice * int64(i.Qty) }
