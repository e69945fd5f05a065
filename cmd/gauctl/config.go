package main

import (
	"time"

	"github.com/caarlos0/env/v6"
)

type clientConfig struct {
	APIURL          string        `env:"API_URL" envDefault:"http://localhost:8080"`
	UploadURL       string        `env:"UPLOAD_URL" envDefault:"https://upload.imagekit.io/api/v1/files/upload"`
	Token           string        `env:"TOKEN"`
	Timeout         time.Duration `env:"TIMEOUT" envDefault:"10m"`
	VideoFolder     string        `env:"VIDEO_FOLDER" envDefault:"/videos"`
	ThumbnailFolder string        `env:"THUMBNAIL_FOLDER" envDefault:"/thumbnails"`
}

func loadClientConfig() (*clientConfig, error) {
	cfg := &clientConfig{}
	if err := env.Parse(cfg, env.Options{Prefix: "GAU_"}); err != nil {
		return nil, err
	}
	return cfg, nil
}
