package enums

import (
	"fmt"
	"strings"
)

// EntityKind is the typed replacement for the path-segment table lookup on the
// generic detail endpoint. Each kind maps one URL segment to one entity.
type EntityKind string

const (
	EntityProducts     EntityKind = "products"
	EntityClients      EntityKind = "clients"
	EntityEmployees    EntityKind = "employees"
	EntitySuppliers    EntityKind = "suppliers"
	EntitySales        EntityKind = "sales"
	EntityAppointments EntityKind = "appointments"
	EntityServices     EntityKind = "services"
	EntityUsers        EntityKind = "users"
	EntityBrands       EntityKind = "brands"
	EntityCategories   EntityKind = "categories"
)

var validEntityKinds = []EntityKind{
	EntityProducts,
	EntityClients,
	EntityEmployees,
	EntitySuppliers,
	EntitySales,
	EntityAppointments,
	EntityServices,
	EntityUsers,
	EntityBrands,
	EntityCategories,
}

// String implements fmt.Stringer.
func (e EntityKind) String() string {
	return string(e)
}

// Singular returns the human-readable singular noun for the kind, used in
// not-found messages.
func (e EntityKind) Singular() string {
	switch e {
	case EntityCategories:
		return "Category"
	case EntityProducts, EntityClients, EntityEmployees, EntitySuppliers,
		EntitySales, EntityAppointments, EntityServices, EntityUsers, EntityBrands:
		s := string(e)
		return strings.ToUpper(s[:1]) + strings.TrimSuffix(s[1:], "s")
	default:
		return string(e)
	}
}

// ParseEntityKind converts a URL path segment into an EntityKind.
func ParseEntityKind(value string) (EntityKind, error) {
	for _, candidate := range validEntityKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("unknown entity %q", value)
}
