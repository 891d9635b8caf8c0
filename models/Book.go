package models

import "gorm.io/gorm"

type Book struct {
	gorm.Model
	Title   string   `json:"title"`
	Author  string   `json:"author"`
	Genre   string   `json:"genre"`
	Reviews []Review `json:"reviews,omitempty" gorm:"foreignKey:BookID"`
}
