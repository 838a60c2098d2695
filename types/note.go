package types

import (
	"time"

	"gorm.io/gorm"
)

const UnknownOwner = "Unknown"

type Note struct {
	ID         string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	UserID     string    `gorm:"index;not null;size:36" bson:"user_id" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID" bson:"-" json:"owner"`
	IsUserNote bool      `gorm:"-" bson:"-" json:"-"`
	Title      string    `gorm:"not null" bson:"title" json:"title"`
	Subject    string    `gorm:"index;not null" bson:"subject" json:"subject"`
	Content    string    `gorm:"type:text;not null" bson:"content" json:"content"`
	CreatedAt  time.Time `gorm:"index" bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"index" bson:"updated_at" json:"updated_at"`
}

func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = NewID()
	}
	return nil
}

// WasEdited reports whether the note changed after it was created.
func (n Note) WasEdited() bool {
	return !n.UpdatedAt.Equal(n.CreatedAt)
}

func (n Note) OwnedBy(u *User) bool {
	return u != nil && u.ID != "" && u.ID == n.UserID
}

func (n Note) OwnerName() string {
	if n.User.Username == "" {
		return UnknownOwner
	}
	return n.User.Username
}
