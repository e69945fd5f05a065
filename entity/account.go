package entity

import "time"

type Account struct {
	ID           string    `json:"id" bson:"_id" gorm:"type:varchar(36);primaryKey"`
	Email        string    `json:"email" bson:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `json:"-" bson:"password" gorm:"column:password;size:255;not null"`
	CreatedAt    time.Time `json:"created_at" bson:"createdAt" gorm:"not null"`
}

func (Account) TableName() string {
	return "accounts"
}
