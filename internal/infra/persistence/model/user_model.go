package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
// It is an exported type so the persistence layer can map it to the domain entity.
type UserModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email            string    `gorm:"type:varchar(255);unique;not null"`
	PasswordDigest   string    `gorm:"type:varchar(255);not null"`
	DisplayName      string    `gorm:"type:varchar(100);not null"`
	Role             string    `gorm:"type:varchar(20);not null;default:'COMMON'"`
	ProfileImagePath string    `gorm:"type:varchar(512)"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Todos []TodoModel `gorm:"foreignKey:OwnerID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
