package dto

import "github.com/tnqbao/gau-video-service/entity"

type CreateVideoRequestDTO struct {
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	VideoURL       string                 `json:"videoUrl"`
	ThumbnailURL   string                 `json:"thumbnailUrl"`
	Transformation *entity.Transformation `json:"transformation,omitempty"`
}
