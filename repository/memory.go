package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/tnqbao/gau-video-service/entity"
)

// NewMemoryRepository returns isolated in-process stores, used by the memory
// database driver and by tests.
func NewMemoryRepository() *Repository {
	return &Repository{
		AccountRepo: NewMemoryAccountRepository(),
		VideoRepo:   NewMemoryVideoRepository(),
	}
}

type MemoryAccountRepository struct {
	mu       sync.RWMutex
	accounts []entity.Account
}

func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{}
}

func (r *MemoryAccountRepository) Create(_ context.Context, account *entity.Account) error {
	if account == nil {
		return errors.New("account cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.ID == account.ID || a.Email == account.Email {
			return ErrDuplicate
		}
	}
	r.accounts = append(r.accounts, *account)
	return nil
}

func (r *MemoryAccountRepository) GetByID(_ context.Context, id string) (*entity.Account, error) {
	return r.find(func(a entity.Account) bool { return a.ID == id })
}

func (r *MemoryAccountRepository) GetByEmail(_ context.Context, email string) (*entity.Account, error) {
	return r.find(func(a entity.Account) bool { return a.Email == email })
}

func (r *MemoryAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *MemoryAccountRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.accounts)), nil
}

func (r *MemoryAccountRepository) find(match func(entity.Account) bool) (*entity.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.accounts {
		if match(a) {
			found := a
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

type MemoryVideoRepository struct {
	mu     sync.RWMutex
	videos []entity.VideoRecord
}

func NewMemoryVideoRepository() *MemoryVideoRepository {
	return &MemoryVideoRepository{}
}

func (r *MemoryVideoRepository) Create(_ context.Context, video *entity.VideoRecord) error {
	if video == nil {
		return errors.New("video cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.videos {
		if v.ID == video.ID {
			return ErrDuplicate
		}
	}
	r.videos = append(r.videos, *video)
	return nil
}

func (r *MemoryVideoRepository) GetByID(_ context.Context, id string) (*entity.VideoRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, v := range r.videos {
		if v.ID == id {
			found := v
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

// List returns records in insertion order.
func (r *MemoryVideoRepository) List(_ context.Context) ([]entity.VideoRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	videos := make([]entity.VideoRecord, len(r.videos))
	copy(videos, r.videos)
	return videos, nil
}

func (r *MemoryVideoRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.videos)), nil
}
