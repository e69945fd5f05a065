package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-video-service/entity"
	"github.com/tnqbao/gau-video-service/infra"
	"github.com/tnqbao/gau-video-service/infra/produce"
	"github.com/tnqbao/gau-video-service/repository"
	"go.opentelemetry.io/otel/metric"
	"gorm.io/datatypes"
)

const (
	videoCacheTTL     = 10 * time.Minute
	videoListCacheKey = "videos:all"
	videoListCacheTTL = time.Minute
)

type CreateVideoInput struct {
	Title          string
	Description    string
	VideoURL       string
	ThumbnailURL   string
	Transformation *entity.Transformation
	CreatedBy      string
}

type VideoEventPublisher interface {
	PublishVideoCreated(ctx context.Context, msg produce.VideoCreatedMessage) error
}

type VideoService struct {
	repo     repository.VideoRepository
	cache    infra.Cache
	verifier AssetVerifier
	events   VideoEventPublisher
	logger   *infra.LoggerClient
	created  metric.Int64Counter

	now   func() time.Time
	newID func() string
}

// NewVideoService wires the record store. cache, verifier and events may be nil.
func NewVideoService(repo repository.VideoRepository, cache infra.Cache, verifier AssetVerifier, events VideoEventPublisher, logger *infra.LoggerClient) *VideoService {
	return &VideoService{
		repo:     repo,
		cache:    cache,
		verifier: verifier,
		events:   events,
		logger:   loggerOrDiscard(logger),
		created:  newCounter("videos_created_total", "Video records created"),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Create validates the input, fills defaults and persists a new record.
// Nothing is written when validation fails.
func (s *VideoService) Create(ctx context.Context, input CreateVideoInput) (*entity.VideoRecord, error) {
	if err := validateVideoInput(input); err != nil {
		return nil, err
	}

	transformation, err := resolveTransformation(input.Transformation)
	if err != nil {
		return nil, err
	}

	if s.verifier != nil {
		for _, assetURL := range []string{input.VideoURL, input.ThumbnailURL} {
			if err := s.verifier.Verify(ctx, assetURL); err != nil {
				return nil, err
			}
		}
	}

	video := &entity.VideoRecord{
		ID:             s.newID(),
		Title:          strings.TrimSpace(input.Title),
		Description:    strings.TrimSpace(input.Description),
		VideoURL:       strings.TrimSpace(input.VideoURL),
		ThumbnailURL:   strings.TrimSpace(input.ThumbnailURL),
		Transformation: datatypes.NewJSONType(transformation),
		CreatedAt:      s.now().UTC().Truncate(time.Millisecond),
	}

	if err := s.repo.Create(ctx, video); err != nil {
		return nil, fmt.Errorf("failed to store video: %w", err)
	}
	incr(ctx, s.created)

	if s.cache != nil {
		if err := s.cache.Delete(ctx, videoListCacheKey); err != nil {
			s.logger.WarningWithContextf(ctx, "[Video] Failed to invalidate video list: %v", err)
		}
	}

	if s.events != nil {
		err := s.events.PublishVideoCreated(ctx, produce.VideoCreatedMessage{
			VideoID:      video.ID,
			Title:        video.Title,
			VideoURL:     video.VideoURL,
			ThumbnailURL: video.ThumbnailURL,
			CreatedBy:    input.CreatedBy,
		})
		if err != nil {
			s.logger.ErrorWithContextf(ctx, err, "[Video] Failed to publish video.created for %s: %v", video.ID, err)
		}
	}

	return video, nil
}

// GetByID returns ErrNotFound for unknown ids.
func (s *VideoService) GetByID(ctx context.Context, id string) (*entity.VideoRecord, error) {
	if s.cache != nil {
		var cached entity.VideoRecord
		err := s.cache.Get(ctx, videoCacheKey(id), &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, infra.ErrCacheMiss) {
			s.logger.WarningWithContextf(ctx, "[Video] Cache read failed for %s: %v", id, err)
		}
	}

	video, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch video: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, videoCacheKey(id), video, videoCacheTTL); err != nil {
			s.logger.WarningWithContextf(ctx, "[Video] Failed to cache video %s: %v", id, err)
		}
	}
	return video, nil
}

// ListAll returns every record in store order, served from the list cache when warm.
func (s *VideoService) ListAll(ctx context.Context) ([]entity.VideoRecord, error) {
	if s.cache != nil {
		var cached []entity.VideoRecord
		err := s.cache.Get(ctx, videoListCacheKey, &cached)
		if err == nil && cached != nil {
			return cached, nil
		}
		if err != nil && !errors.Is(err, infra.ErrCacheMiss) {
			s.logger.WarningWithContextf(ctx, "[Video] Cache read failed for video list: %v", err)
		}
	}

	videos, err := s.loadList(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheList(ctx, videos)
	return videos, nil
}

// Warm reloads one record and the full listing from the store into the cache.
// It returns ErrNotFound when the record no longer exists.
func (s *VideoService) Warm(ctx context.Context, id string) error {
	if s.cache == nil {
		return nil
	}

	video, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to fetch video: %w", err)
	}
	if err := s.cache.Set(ctx, videoCacheKey(id), video, videoCacheTTL); err != nil {
		return fmt.Errorf("failed to cache video: %w", err)
	}

	videos, err := s.loadList(ctx)
	if err != nil {
		return err
	}
	if err := s.cache.Set(ctx, videoListCacheKey, videos, videoListCacheTTL); err != nil {
		return fmt.Errorf("failed to cache video list: %w", err)
	}
	return nil
}

func (s *VideoService) loadList(ctx context.Context) ([]entity.VideoRecord, error) {
	videos, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	if videos == nil {
		videos = []entity.VideoRecord{}
	}
	return videos, nil
}

func (s *VideoService) cacheList(ctx context.Context, videos []entity.VideoRecord) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, videoListCacheKey, videos, videoListCacheTTL); err != nil {
		s.logger.WarningWithContextf(ctx, "[Video] Failed to cache video list: %v", err)
	}
}

func validateVideoInput(input CreateVideoInput) error {
	var missing []string
	if strings.TrimSpace(input.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(input.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(input.VideoURL) == "" {
		missing = append(missing, "videoUrl")
	}
	if strings.TrimSpace(input.ThumbnailURL) == "" {
		missing = append(missing, "thumbnailUrl")
	}
	if len(missing) > 0 {
		return NewValidationError("Missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// resolveTransformation fills zero fields with the defaults.
func resolveTransformation(t *entity.Transformation) (entity.Transformation, error) {
	resolved := entity.DefaultTransformation()
	if t == nil {
		return resolved, nil
	}

	if t.Width < 0 || t.Height < 0 {
		return resolved, NewValidationError("transformation width and height must be positive")
	}
	if t.Quality < 0 || t.Quality > 100 {
		return resolved, NewValidationError("transformation quality must be between 0 and 100, where 0 uses the default")
	}

	if t.Width > 0 {
		resolved.Width = t.Width
	}
	if t.Height > 0 {
		resolved.Height = t.Height
	}
	if t.Quality > 0 {
		resolved.Quality = t.Quality
	}
	return resolved, nil
}

func videoCacheKey(id string) string {
	return "video:" + id
}
