package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/H3nrYP0/optica-api/pkg/enums"
)

// Order is a customer order placed through the client-facing flow. SaleID
// stays null until the order is converted; a non-null value marks the order
// as already converted.
type Order struct {
	ID              uint                 `gorm:"column:id;primaryKey" json:"id"`
	ClientID        uint                 `gorm:"column:client_id;not null" json:"client_id"`
	UserID          uint                 `gorm:"column:user_id;not null" json:"user_id"`
	Date            time.Time            `gorm:"column:date;autoCreateTime" json:"date"`
	Total           decimal.Decimal      `gorm:"column:total;type:numeric(12,2);not null" json:"total"`
	PaymentMethod   enums.PaymentMethod  `gorm:"column:payment_method;size:20" json:"payment_method"`
	DeliveryMethod  enums.DeliveryMethod `gorm:"column:delivery_method;size:20" json:"delivery_method"`
	DeliveryAddress string               `gorm:"column:delivery_address;size:255" json:"delivery_address"`
	Status          enums.OrderStatus    `gorm:"column:status;size:20;not null;default:'pending'" json:"status"`
	PaymentProofURL *string              `gorm:"column:payment_proof_url;size:255" json:"payment_proof_url"`
	SaleID          *uint                `gorm:"column:sale_id" json:"sale_id"`

	Client *Client     `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Items  []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem is one product line within an order.
// Subtotal = quantity * unit price.
type OrderItem struct {
	ID        uint            `gorm:"column:id;primaryKey" json:"id"`
	OrderID   uint            `gorm:"column:order_id;not null" json:"order_id"`
	ProductID uint            `gorm:"column:product_id;not null" json:"product_id"`
	Quantity  int             `gorm:"column:quantity;not null;default:1" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null" json:"unit_price"`
	Subtotal  decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null" json:"subtotal"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
