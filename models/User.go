package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Username string   `json:"username"`
	Email    string   `json:"email" gorm:"uniqueIndex"`
	Password string   `json:"-"`
	Reviews  []Review `json:"-" gorm:"foreignKey:UserID"`
}
