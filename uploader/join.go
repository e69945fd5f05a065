package uploader

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Assets holds the CDN results of a video and its thumbnail.
type Assets struct {
	Video     *UploadResult
	Thumbnail *UploadResult
}

// UploadAssets runs both flows concurrently and waits for both to finish.
// A failure on one side does not cancel the other.
func UploadAssets(ctx context.Context, videoFlow *Flow, video File, thumbFlow *Flow, thumbnail File) (*Assets, error) {
	var (
		g      errgroup.Group
		assets Assets
	)

	g.Go(func() error {
		res, err := videoFlow.Run(ctx, video)
		assets.Video = res
		return err
	})
	g.Go(func() error {
		res, err := thumbFlow.Run(ctx, thumbnail)
		assets.Thumbnail = res
		return err
	})

	if err := g.Wait(); err != nil {
		return &assets, err
	}
	return &assets, nil
}
