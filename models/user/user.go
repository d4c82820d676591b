package user

import (
	"time"
)

// User correlates an external identity (by email) with a stored role.
type User struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Name  string `gorm:"type:varchar(255)" json:"name"`
	Role  Role   `gorm:"type:varchar(20);not null;default:'user'" json:"role"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	LastLogin time.Time `json:"last_login"`
}

type Role string

const (
	RoleUser  Role = "user"
	RoleRider Role = "rider"
	RoleAdmin Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleRider, RoleAdmin:
		return true
	default:
		return false
	}
}
