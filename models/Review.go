package models

import "gorm.io/gorm"

// Review is one user's take on one book. The composite unique index on
// (book_id, user_id) is what rejects a second review by the same user;
// the handlers never pre-check for an existing row.
type Review struct {
	gorm.Model
	BookID  uint   `json:"bookID" gorm:"not null;uniqueIndex:idx_reviews_book_user;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UserID  uint   `json:"userID" gorm:"not null;index;uniqueIndex:idx_reviews_book_user;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Book    *Book  `json:"-" gorm:"foreignKey:BookID"`
	User    *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Rating  int    `json:"rating"` // expected 1-5, not enforced
	Comment string `json:"comment" gorm:"type:text"`
}
