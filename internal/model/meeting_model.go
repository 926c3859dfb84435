package model

import (
	"time"

	"gorm.io/datatypes"
)

type Meeting struct {
	Id            string         `gorm:"type:varchar(255);primaryKey"`
	Subject       string         `gorm:"type:varchar(500)"`
	StartTime     time.Time      `gorm:"not null;index"`
	EndTime       time.Time      `gorm:"not null;index"`
	Location      string         `gorm:"type:varchar(500)"`
	OrganizerName string         `gorm:"type:varchar(255)"`
	Attendees     datatypes.JSON `gorm:"type:json"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
}

func (Meeting) TableName() string {
	return "meetings"
}
