package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-video-service/entity"
	"github.com/tnqbao/gau-video-service/infra"
	"github.com/tnqbao/gau-video-service/utils"
	"go.opentelemetry.io/otel/metric"
)

const maxTokenAttempts = 3

var errTokenCollision = errors.New("could not reserve a unique upload token")

// UploadAuthService mints the signed tuples clients use to upload straight to the CDN.
type UploadAuthService struct {
	privateKey string
	publicKey  string
	ttl        time.Duration
	registry   infra.Cache
	issued     metric.Int64Counter

	now      func() time.Time
	newToken func() string
}

// NewUploadAuthService fails when either key is missing. registry may be nil,
// in which case token uniqueness rests on UUIDv4 alone.
func NewUploadAuthService(privateKey, publicKey string, ttl time.Duration, registry infra.Cache) (*UploadAuthService, error) {
	if privateKey == "" {
		return nil, errors.New("upload private key is not configured")
	}
	if publicKey == "" {
		return nil, errors.New("upload public key is not configured")
	}
	if ttl <= 0 {
		return nil, errors.New("upload token ttl must be positive")
	}

	return &UploadAuthService{
		privateKey: privateKey,
		publicKey:  publicKey,
		ttl:        ttl,
		registry:   registry,
		issued:     newCounter("upload_authorizations_issued_total", "Upload authorizations issued"),
		now:        time.Now,
		newToken:   uuid.NewString,
	}, nil
}

// Issue returns a fresh authorization. Tokens are reserved in the registry
// until they expire so the same token is never handed out twice.
func (s *UploadAuthService) Issue(ctx context.Context) (*entity.UploadAuthorization, error) {
	expire := s.now().Add(s.ttl).Unix()

	token, err := s.reserveToken(ctx, expire)
	if err != nil {
		return nil, &AuthError{Err: err}
	}

	incr(ctx, s.issued)

	return &entity.UploadAuthorization{
		Signature: utils.SignUpload(s.privateKey, token, expire),
		Expire:    expire,
		Token:     token,
		PublicKey: s.publicKey,
	}, nil
}

func (s *UploadAuthService) reserveToken(ctx context.Context, expire int64) (string, error) {
	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		token := s.newToken()
		if token == "" {
			continue
		}
		if s.registry == nil {
			return token, nil
		}

		ok, err := s.registry.SetNX(ctx, uploadTokenKey(token), expire, s.ttl)
		if err != nil {
			return "", err
		}
		if ok {
			return token, nil
		}
	}
	return "", errTokenCollision
}

func uploadTokenKey(token string) string {
	return "upload_token:" + token
}
