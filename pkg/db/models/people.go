package models

import "time"

// Client is a customer of the optical store.
type Client struct {
	ID             uint       `gorm:"column:id;primaryKey" json:"id"`
	DocumentType   string     `gorm:"column:document_type;size:4" json:"document_type"`
	DocumentNumber string     `gorm:"column:document_number;size:20" json:"document_number"`
	FirstName      string     `gorm:"column:first_name;size:25;not null" json:"first_name"`
	LastName       string     `gorm:"column:last_name;size:25;not null" json:"last_name"`
	BirthDate      *time.Time `gorm:"column:birth_date;type:date" json:"birth_date"`
	Gender         string     `gorm:"column:gender;size:10" json:"gender"`
	Phone          string     `gorm:"column:phone;size:20" json:"phone"`
	Email          string     `gorm:"column:email;size:50" json:"email"`
	Municipality   string     `gorm:"column:municipality;size:30" json:"municipality"`
	Address        string     `gorm:"column:address;size:60" json:"address"`
	Occupation     string     `gorm:"column:occupation;size:30" json:"occupation"`
	EmergencyPhone string     `gorm:"column:emergency_phone;size:20" json:"emergency_phone"`
	Active         bool       `gorm:"column:active;not null;default:true" json:"active"`
}

// Employee is a staff member who attends appointments and registers sales.
type Employee struct {
	ID             uint      `gorm:"column:id;primaryKey" json:"id"`
	DocumentType   string    `gorm:"column:document_type;size:4" json:"document_type"`
	DocumentNumber string    `gorm:"column:document_number;size:20;not null" json:"document_number"`
	Name           string    `gorm:"column:name;size:50;not null" json:"name"`
	Phone          string    `gorm:"column:phone;size:20" json:"phone"`
	Address        string    `gorm:"column:address;size:60" json:"address"`
	HiredAt        time.Time `gorm:"column:hired_at;type:date;not null" json:"hired_at"`
	Position       string    `gorm:"column:position;size:30" json:"position"`
	Active         bool      `gorm:"column:active;not null;default:true" json:"active"`

	Schedules []Schedule `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"schedules,omitempty"`
}

// Schedule is one weekly working block for an employee. Weekday runs 0-6
// starting on Monday; times use the HH:MM wall-clock format.
type Schedule struct {
	ID         uint   `gorm:"column:id;primaryKey" json:"id"`
	EmployeeID uint   `gorm:"column:employee_id;not null" json:"employee_id"`
	Weekday    int    `gorm:"column:weekday;not null" json:"weekday"`
	StartTime  string `gorm:"column:start_time;size:5;not null" json:"start_time"`
	EndTime    string `gorm:"column:end_time;size:5;not null" json:"end_time"`
	Active     bool   `gorm:"column:active;not null;default:true" json:"active"`
}

// Prescription records one optical formula measurement for a client.
type Prescription struct {
	ID          uint      `gorm:"column:id;primaryKey" json:"id"`
	ClientID    uint      `gorm:"column:client_id;not null" json:"client_id"`
	Description string    `gorm:"column:description;size:100" json:"description"`
	ODSphere    string    `gorm:"column:od_sphere;size:10" json:"od_sphere"`
	ODCylinder  string    `gorm:"column:od_cylinder;size:10" json:"od_cylinder"`
	ODAxis      string    `gorm:"column:od_axis;size:10" json:"od_axis"`
	OSSphere    string    `gorm:"column:os_sphere;size:10" json:"os_sphere"`
	OSCylinder  string    `gorm:"column:os_cylinder;size:10" json:"os_cylinder"`
	OSAxis      string    `gorm:"column:os_axis;size:10" json:"os_axis"`
	Date        time.Time `gorm:"column:date;autoCreateTime" json:"date"`
}
