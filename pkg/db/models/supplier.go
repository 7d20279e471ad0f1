package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier is a vendor the store purchases inventory from.
type Supplier struct {
	ID             uint   `gorm:"column:id;primaryKey" json:"id"`
	Kind           string `gorm:"column:kind;size:20" json:"kind"`
	DocumentType   string `gorm:"column:document_type;size:4" json:"document_type"`
	DocumentNumber string `gorm:"column:document_number;size:20" json:"document_number"`
	LegalName      string `gorm:"column:legal_name;size:60;not null" json:"legal_name"`
	ContactName    string `gorm:"column:contact_name;size:50" json:"contact_name"`
	Phone          string `gorm:"column:phone;size:20" json:"phone"`
	Email          string `gorm:"column:email;size:50" json:"email"`
	Department     string `gorm:"column:department;size:30" json:"department"`
	Municipality   string `gorm:"column:municipality;size:30" json:"municipality"`
	Address        string `gorm:"column:address;size:60" json:"address"`
	Active         bool   `gorm:"column:active;not null;default:true" json:"active"`
}

// Purchase is a stock receipt from a supplier. Receiving a purchase is the
// only operation that increases product stock.
type Purchase struct {
	ID         uint            `gorm:"column:id;primaryKey" json:"id"`
	SupplierID uint            `gorm:"column:supplier_id;not null" json:"supplier_id"`
	Total      decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null" json:"total"`
	Date       time.Time       `gorm:"column:date;autoCreateTime" json:"date"`
	Active     bool            `gorm:"column:active;not null;default:true" json:"active"`

	Items []PurchaseItem `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// PurchaseItem is one product line within a purchase.
type PurchaseItem struct {
	ID         uint            `gorm:"column:id;primaryKey" json:"id"`
	PurchaseID uint            `gorm:"column:purchase_id;not null" json:"purchase_id"`
	ProductID  uint            `gorm:"column:product_id;not null" json:"product_id"`
	UnitPrice  decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null" json:"unit_price"`
	Quantity   int             `gorm:"column:quantity;not null" json:"quantity"`
	Subtotal   decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null" json:"subtotal"`
}
