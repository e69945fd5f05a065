package repository

import (
	"context"
	"errors"

	"github.com/tnqbao/gau-video-service/entity"
	"github.com/tnqbao/gau-video-service/infra"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type VideoRepository interface {
	Create(ctx context.Context, video *entity.VideoRecord) error
	GetByID(ctx context.Context, id string) (*entity.VideoRecord, error)
	List(ctx context.Context) ([]entity.VideoRecord, error)
	Count(ctx context.Context) (int64, error)
}

type Repository struct {
	AccountRepo AccountRepository
	VideoRepo   VideoRepository
}

var repository *Repository

// InitRepository picks the backend matching the database client the infra connected.
func InitRepository(infra *infra.Infra) *Repository {
	switch {
	case infra.Postgres != nil:
		repository = &Repository{
			AccountRepo: NewAccountRepository(infra.Postgres.DB),
			VideoRepo:   NewVideoRepository(infra.Postgres.DB),
		}
	case infra.Mongo != nil:
		repository = &Repository{
			AccountRepo: NewMongoAccountRepository(infra.Mongo.Database),
			VideoRepo:   NewMongoVideoRepository(infra.Mongo.Database),
		}
	default:
		repository = NewMemoryRepository()
	}
	return repository
}
