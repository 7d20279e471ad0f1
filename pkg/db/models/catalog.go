package models

import "github.com/shopspring/decimal"

// Brand is a product manufacturer label.
type Brand struct {
	ID     uint   `gorm:"column:id;primaryKey" json:"id"`
	Name   string `gorm:"column:name;size:50;not null" json:"name"`
	Active bool   `gorm:"column:active;not null;default:true" json:"active"`
}

// Category groups products for the storefront.
type Category struct {
	ID          uint   `gorm:"column:id;primaryKey" json:"id"`
	Name        string `gorm:"column:name;size:50;not null" json:"name"`
	Description string `gorm:"column:description;size:100" json:"description"`
	Active      bool   `gorm:"column:active;not null;default:true" json:"active"`
}

// Product is a sellable catalog item. Stock is mutated only by sale
// creation/conversion and purchase receipt and is never persisted negative.
type Product struct {
	ID            uint            `gorm:"column:id;primaryKey" json:"id"`
	CategoryID    uint            `gorm:"column:category_id;not null" json:"category_id"`
	BrandID       uint            `gorm:"column:brand_id;not null" json:"brand_id"`
	Name          string          `gorm:"column:name;size:60;not null" json:"name"`
	SalePrice     decimal.Decimal `gorm:"column:sale_price;type:numeric(12,2);not null" json:"sale_price"`
	PurchasePrice decimal.Decimal `gorm:"column:purchase_price;type:numeric(12,2);not null" json:"purchase_price"`
	Stock         int             `gorm:"column:stock;not null;default:0" json:"stock"`
	MinStock      int             `gorm:"column:min_stock;not null;default:0" json:"min_stock"`
	Description   string          `gorm:"column:description;size:120" json:"description"`
	Active        bool            `gorm:"column:active;not null;default:true" json:"active"`

	Images []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

// ProductImage references an externally stored product picture by URL.
type ProductImage struct {
	ID        uint   `gorm:"column:id;primaryKey" json:"id"`
	ProductID uint   `gorm:"column:product_id;not null" json:"product_id"`
	URL       string `gorm:"column:url;size:255;not null" json:"url"`
}
