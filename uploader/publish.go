package uploader

import (
	"context"
	"strings"

	"github.com/tnqbao/gau-video-service/entity"
	"github.com/tnqbao/gau-video-service/http/controller/dto"
)

type PublishInput struct {
	Title          string
	Description    string
	Video          *File
	Thumbnail      *File
	Transformation *entity.Transformation
}

// Publisher uploads a video and thumbnail, then records them with the service.
type Publisher struct {
	VideoFlow     *Flow
	ThumbnailFlow *Flow
	Records       *RecordClient
}

func NewPublisher(records *RecordClient, cdn CDN, videoObserver, thumbObserver Observer) *Publisher {
	return &Publisher{
		VideoFlow:     NewFlow(PurposeVideo, records, cdn, videoObserver),
		ThumbnailFlow: NewFlow(PurposeImage, records, cdn, thumbObserver),
		Records:       records,
	}
}

func (p *Publisher) Publish(ctx context.Context, in PublishInput) (*entity.VideoRecord, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" || in.Video == nil || in.Thumbnail == nil {
		return nil, ErrIncompleteForm
	}

	assets, err := UploadAssets(ctx, p.VideoFlow, *in.Video, p.ThumbnailFlow, *in.Thumbnail)
	if err != nil {
		return nil, err
	}

	return p.Records.CreateVideo(ctx, dto.CreateVideoRequestDTO{
		Title:          in.Title,
		Description:    in.Description,
		VideoURL:       assets.Video.URL,
		ThumbnailURL:   assets.Thumbnail.URL,
		Transformation: in.Transformation,
	})
}
