package model

import (
	"time"

	"gorm.io/gorm"
)

type TransferStatus string

const (
	StatusSuccess TransferStatus = "SUCCESS"
	StatusFailed  TransferStatus = "FAILED"
)

type History struct {
	gorm.Model
	Status        TransferStatus `gorm:"not null"`
	Mode          TransferMode   `gorm:"not null"`
	SrcPath       string         `gorm:"not null"`
	DstPath       string         `gorm:"not null"`
	ReplacedTrash string
	SourceTrash   string
	ErrMsg        string
	TransferredAt time.Time `gorm:"not null;index"`
}
