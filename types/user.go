package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DateLayout = "2006-01-02"

type User struct {
	ID          string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Username    string    `gorm:"not null" bson:"username" json:"username"`
	LoginID     string    `gorm:"uniqueIndex;not null" bson:"login_id" json:"login_id"`
	Password    string    `gorm:"not null" bson:"password" json:"-"`
	DateOfBirth time.Time `bson:"date_of_birth" json:"date_of_birth"`
	Notes       []Note    `bson:"-" json:"-"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

func NewID() string {
	return uuid.NewString()
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = NewID()
	}
	return nil
}

func (u User) IsSet() bool {
	return u.ID != ""
}
