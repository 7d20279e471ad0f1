package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/H3nrYP0/optica-api/pkg/enums"
)

// SaleStatus is a lookup row for sale lifecycle states.
type SaleStatus struct {
	ID   uint   `gorm:"column:id;primaryKey" json:"id"`
	Name string `gorm:"column:name;size:30;uniqueIndex;not null" json:"name"`
}

// Sale is a completed or in-progress point-of-sale transaction. Sales made
// from an appointment keep the originating appointment reference; sales
// converted from an order are linked back from the order side.
type Sale struct {
	ID            uint                `gorm:"column:id;primaryKey" json:"id"`
	ClientID      uint                `gorm:"column:client_id;not null" json:"client_id"`
	StatusID      uint                `gorm:"column:status_id;not null" json:"status_id"`
	AppointmentID *uint               `gorm:"column:appointment_id" json:"appointment_id"`
	EmployeeID    uint                `gorm:"column:employee_id;not null" json:"employee_id"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;size:30" json:"payment_method"`
	Date          time.Time           `gorm:"column:date;autoCreateTime" json:"date"`
	Total         decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null" json:"total"`

	Items    []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Payments []Payment  `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`
}

// SaleItem is one product line within a sale.
// Subtotal = quantity * unit price - discount.
type SaleItem struct {
	ID        uint            `gorm:"column:id;primaryKey" json:"id"`
	SaleID    uint            `gorm:"column:sale_id;not null" json:"sale_id"`
	ProductID uint            `gorm:"column:product_id;not null" json:"product_id"`
	Quantity  int             `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null" json:"unit_price"`
	Discount  decimal.Decimal `gorm:"column:discount;type:numeric(12,2);not null;default:0" json:"discount"`
	Subtotal  decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null" json:"subtotal"`
}

// Payment is a partial payment (installment) applied to a sale.
type Payment struct {
	ID     uint            `gorm:"column:id;primaryKey" json:"id"`
	SaleID uint            `gorm:"column:sale_id;not null" json:"sale_id"`
	Amount decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null" json:"amount"`
	Date   time.Time       `gorm:"column:date;autoCreateTime" json:"date"`
}
