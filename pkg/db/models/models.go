package models

import "github.com/shopspring/decimal"

func init() {
	// Money fields render as JSON numbers, matching the API contract.
	decimal.MarshalJSONWithoutQuotes = true
}

// All returns every entity in dependency order for schema migration.
func All() []any {
	return []any{
		&Role{},
		&Permission{},
		&User{},
		&Brand{},
		&Category{},
		&Product{},
		&ProductImage{},
		&Client{},
		&Employee{},
		&Schedule{},
		&Supplier{},
		&Purchase{},
		&PurchaseItem{},
		&Service{},
		&AppointmentStatus{},
		&Appointment{},
		&SaleStatus{},
		&Sale{},
		&SaleItem{},
		&Payment{},
		&Order{},
		&OrderItem{},
		&Prescription{},
	}
}
