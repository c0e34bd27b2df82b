package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Student is the admission record fees are generated against. CreatedAt is
// the admission date the fee timeline starts from. A student rides either
// the hostel or a transport area, never both.
type Student struct {
	ID              snowflake.ID   `gorm:"primaryKey" json:"id"`
	SchoolID        snowflake.ID   `gorm:"not null;index" json:"school_id"`
	ClassID         *snowflake.ID  `gorm:"index" json:"class_id,omitempty"`
	Name            string         `gorm:"type:text;not null" json:"name"`
	GuardianName    string         `gorm:"type:text" json:"guardian_name,omitempty"`
	Phone           string         `gorm:"type:text" json:"phone,omitempty"`
	Hostel          bool           `gorm:"not null;default:false" json:"hostel"`
	TransportAreaID *snowflake.ID  `gorm:"index" json:"transport_area_id,omitempty"`
	CreatedAt       time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Student) TableName() string { return "students" }
