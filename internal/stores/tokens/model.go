package tokens

import (
	"time"
)

// recordID is the primary key of the only row the table ever holds
const recordID = 1

// TokenModel represents the database row holding the current token pair
type TokenModel struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`

	AccessToken  string `gorm:"column:access_token;type:text;not null"`
	RefreshToken string `gorm:"column:refresh_token;type:text;not null"`
}

// TableName sets the table name for GORM
func (TokenModel) TableName() string {
	return "lawcus_tokens"
}
