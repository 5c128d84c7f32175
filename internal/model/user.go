package model

import "gorm.io/gorm"

const (
	RoleAdmin    = "Admin"
	RoleOperator = "Operator"
)

// User adalah akun staf administrasi yang login ke API.
type User struct {
	gorm.Model
	Name     string `json:"name"`
	NIP      string `json:"nip" gorm:"column:nip;size:64;unique;not null"`
	Password string `json:"-"`
	Role     string `json:"role" gorm:"size:32;default:Operator"`
}
