package models

// User is an account that can authenticate against the API. Client-facing
// accounts additionally reference the client record they belong to.
type User struct {
	ID           uint   `gorm:"column:id;primaryKey" json:"id"`
	RoleID       uint   `gorm:"column:role_id;not null" json:"role_id"`
	Name         string `gorm:"column:name;size:50;not null" json:"name"`
	Email        string `gorm:"column:email;size:100;not null;uniqueIndex" json:"email"`
	PasswordHash string `gorm:"column:password_hash;size:255;not null" json:"-"`
	ClientID     *uint  `gorm:"column:client_id" json:"client_id"`
	Active       bool   `gorm:"column:active;not null;default:true" json:"active"`

	Role   *Role   `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Client *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}
