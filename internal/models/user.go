package models

import "time"

// RoleOwner is the role every registered account starts with.
const RoleOwner = "owner"

// User is a registered account. It owns reports and vitals.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialized
	Role      string    `json:"role" gorm:"type:varchar(20);not null;default:owner"`
	CreatedAt time.Time `json:"created_at"`
}
