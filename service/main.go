package service

import (
	"context"
	"time"

	"github.com/tnqbao/gau-video-service/config"
	"github.com/tnqbao/gau-video-service/infra"
	"github.com/tnqbao/gau-video-service/repository"
)

type Service struct {
	Video      *VideoService
	Account    *AccountService
	UploadAuth *UploadAuthService
}

func InitService(cfg *config.Config, infra *infra.Infra, repo *repository.Repository) (*Service, error) {
	env := cfg.EnvConfig

	uploadAuth, err := NewUploadAuthService(
		env.ImageKit.PrivateKey,
		env.ImageKit.PublicKey,
		time.Duration(env.ImageKit.UploadTokenTTL)*time.Second,
		infra.Cache,
	)
	if err != nil {
		return nil, err
	}

	if env.ImageKit.URLEndpoint == "" {
		infra.Logger.WarningWithContextf(context.Background(),
			"[Video] IMAGEKIT_URL_ENDPOINT is not set, asset URLs will not be checked against the CDN")
	}

	var verifier AssetVerifier = &URLPrefixVerifier{Endpoint: env.ImageKit.URLEndpoint}
	if infra.Minio != nil {
		verifier = &OriginAssetVerifier{
			URLPrefixVerifier: URLPrefixVerifier{Endpoint: env.ImageKit.URLEndpoint},
			Origin:            infra.Minio,
		}
	}

	var videoEvents VideoEventPublisher
	var accountEvents AccountEventPublisher
	if infra.Produce != nil {
		videoEvents = infra.Produce.VideoService
		accountEvents = infra.Produce.EmailService
	}

	return &Service{
		Video:      NewVideoService(repo.VideoRepo, infra.Cache, verifier, videoEvents, infra.Logger),
		Account:    NewAccountService(repo.AccountRepo, accountEvents, env.CORS.GlobalDomain, infra.Logger),
		UploadAuth: uploadAuth,
	}, nil
}
