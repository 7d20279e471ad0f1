package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/H3nrYP0/optica-api/pkg/enums"
)

// Service is a bookable exam or fitting the store offers.
type Service struct {
	ID              uint            `gorm:"column:id;primaryKey" json:"id"`
	Name            string          `gorm:"column:name;size:50;not null" json:"name"`
	DurationMinutes int             `gorm:"column:duration_minutes;not null" json:"duration_minutes"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	Description     string          `gorm:"column:description;size:120" json:"description"`
	Active          bool            `gorm:"column:active;not null;default:true" json:"active"`
}

// AppointmentStatus is a lookup row for appointment lifecycle states.
type AppointmentStatus struct {
	ID   uint   `gorm:"column:id;primaryKey" json:"id"`
	Name string `gorm:"column:name;size:30;uniqueIndex;not null" json:"name"`
}

// Appointment books a client into a service slot with an employee.
// StartTime uses the HH:MM wall-clock format; Date carries the calendar day.
type Appointment struct {
	ID              uint                `gorm:"column:id;primaryKey" json:"id"`
	ClientID        uint                `gorm:"column:client_id;not null" json:"client_id"`
	ServiceID       uint                `gorm:"column:service_id;not null" json:"service_id"`
	EmployeeID      uint                `gorm:"column:employee_id;not null" json:"employee_id"`
	StatusID        uint                `gorm:"column:status_id;not null" json:"status_id"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;size:15" json:"payment_method"`
	Date            time.Time           `gorm:"column:date;type:date;not null" json:"date"`
	StartTime       string              `gorm:"column:start_time;size:5;not null" json:"start_time"`
	DurationMinutes int                 `gorm:"column:duration_minutes" json:"duration_minutes"`

	Client   *Client            `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Service  *Service           `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Employee *Employee          `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Status   *AppointmentStatus `gorm:"foreignKey:StatusID" json:"status,omitempty"`
}
