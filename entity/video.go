package entity

import (
	"time"

	"gorm.io/datatypes"
)

const (
	DefaultTransformationWidth   = 1080
	DefaultTransformationHeight  = 1920
	DefaultTransformationQuality = 100
)

type Transformation struct {
	Width   int `json:"width" bson:"width"`
	Height  int `json:"height" bson:"height"`
	Quality int `json:"quality" bson:"quality"`
}

// DefaultTransformation is the portrait 1080x1920 rendition applied when a record is created without one.
func DefaultTransformation() Transformation {
	return Transformation{
		Width:   DefaultTransformationWidth,
		Height:  DefaultTransformationHeight,
		Quality: DefaultTransformationQuality,
	}
}

type VideoRecord struct {
	ID             string                              `json:"id" gorm:"type:varchar(36);primaryKey"`
	Title          string                              `json:"title" gorm:"size:255;not null"`
	Description    string                              `json:"description" gorm:"type:text;not null"`
	VideoURL       string                              `json:"videoUrl" gorm:"column:video_url;size:2048;not null"`
	ThumbnailURL   string                              `json:"thumbnailUrl" gorm:"column:thumbnail_url;size:2048;not null"`
	Transformation datatypes.JSONType[Transformation] `json:"transformation" gorm:"type:jsonb"`
	CreatedAt      time.Time                           `json:"createdAt" gorm:"not null;index"`
}

func (VideoRecord) TableName() string {
	return "videos"
}
