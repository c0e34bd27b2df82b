// Package domain contains the pricing tables the fee calculator resolves
// amounts from. All amounts are int64 paise.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ClassPrice is the monthly tuition amount for one class. One row per
// class, updated in place when the school revises its fee structure.
type ClassPrice struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	SchoolID  snowflake.ID `gorm:"not null;index" json:"school_id"`
	ClassID   snowflake.ID `gorm:"not null;uniqueIndex:ux_class_prices_class" json:"class_id"`
	Amount    int64        `gorm:"not null" json:"amount"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (ClassPrice) TableName() string { return "class_prices" }

// TransportPrice is the monthly transportation amount for one pickup area.
type TransportPrice struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	SchoolID  snowflake.ID `gorm:"not null;index" json:"school_id"`
	AreaID    snowflake.ID `gorm:"not null;uniqueIndex:ux_transport_prices_area" json:"area_id"`
	Amount    int64        `gorm:"not null" json:"amount"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (TransportPrice) TableName() string { return "transport_prices" }
