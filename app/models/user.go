package models

import "gorm.io/gorm"

// User is the identity principal source. Credential issuance lives outside
// the order engine; the engine only trusts the (userID, role) pair carried
// in the JWT.
type User struct {
	gorm.Model
	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"` // hashed, never serialised
	Role     string `gorm:"size:50;default:client" json:"role"`
}
