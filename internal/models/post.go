package models

import "time"

// Post is a user-authored entry. Only its owner may change or remove it.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"not null" json:"content"`
	Published bool      `gorm:"not null" json:"published"`
	OwnerID   uint      `gorm:"not null;index" json:"owner_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`

	Owner User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
}

// PostWithVotes is a post together with the number of votes it has received.
type PostWithVotes struct {
	Post  Post  `gorm:"embedded" json:"Post"`
	Votes int64 `gorm:"column:votes" json:"votes"`
}
