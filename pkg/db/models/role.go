package models

// Role groups the permissions granted to a set of users.
type Role struct {
	ID          uint         `gorm:"column:id;primaryKey" json:"id"`
	Name        string       `gorm:"column:name;size:25;uniqueIndex;not null" json:"name"`
	Description string       `gorm:"column:description;size:60" json:"description"`
	Active      bool         `gorm:"column:active;not null;default:true" json:"active"`
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
}

// Permission is a single named capability assignable to roles.
type Permission struct {
	ID   uint   `gorm:"column:id;primaryKey" json:"id"`
	Name string `gorm:"column:name;size:30;uniqueIndex;not null" json:"name"`
}
