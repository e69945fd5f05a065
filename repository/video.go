package repository

import (
	"context"
	"errors"

	"github.com/tnqbao/gau-video-service/entity"
	"gorm.io/gorm"
)

// VideoGormRepository stores video records in Postgres.
type VideoGormRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoGormRepository {
	return &VideoGormRepository{db: db}
}

func (r *VideoGormRepository) Create(ctx context.Context, video *entity.VideoRecord) error {
	if video == nil {
		return errors.New("video cannot be nil")
	}
	err := r.db.WithContext(ctx).Create(video).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (r *VideoGormRepository) GetByID(ctx context.Context, id string) (*entity.VideoRecord, error) {
	var video entity.VideoRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&video).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &video, nil
}

// List returns every record in the table's natural order.
func (r *VideoGormRepository) List(ctx context.Context) ([]entity.VideoRecord, error) {
	videos := []entity.VideoRecord{}
	if err := r.db.WithContext(ctx).Find(&videos).Error; err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *VideoGormRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.VideoRecord{}).Count(&count).Error
	return count, err
}
