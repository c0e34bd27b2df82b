// Package domain contains the collaborator records the fee ledger reads:
// schools, classes, transport areas, and the users acting on the ledger.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type School struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Address   string       `gorm:"type:text" json:"address,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (School) TableName() string { return "schools" }

type Class struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	SchoolID  snowflake.ID `gorm:"not null;index" json:"school_id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Class) TableName() string { return "classes" }

// TransportArea is a pickup area students can be assigned to. Its
// transportation price lives in the pricing tables.
type TransportArea struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	SchoolID  snowflake.ID `gorm:"not null;index" json:"school_id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (TransportArea) TableName() string { return "transport_areas" }

// User is the acting identity recorded on generated fees, payments, and
// audit rows. Authentication is out of scope; the ledger only needs the
// identity and a display name.
type User struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	SchoolID    snowflake.ID `gorm:"not null;index" json:"school_id"`
	DisplayName string       `gorm:"type:text;not null" json:"display_name"`
	Email       string       `gorm:"type:text;not null" json:"email"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (User) TableName() string { return "users" }
