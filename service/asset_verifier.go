package service

import (
	"context"
	"net/url"
	"strings"
)

// AssetVerifier checks that a URL submitted for a video record points at an
// asset that was uploaded through the configured CDN.
type AssetVerifier interface {
	Verify(ctx context.Context, assetURL string) error
}

// URLPrefixVerifier accepts absolute http(s) URLs under Endpoint. An empty
// Endpoint only enforces the URL shape.
type URLPrefixVerifier struct {
	Endpoint string
}

func (v *URLPrefixVerifier) Verify(_ context.Context, assetURL string) error {
	_, err := v.objectKey(assetURL)
	return err
}

func (v *URLPrefixVerifier) objectKey(assetURL string) (string, error) {
	u, err := url.Parse(assetURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", NewValidationError("invalid asset url: %s", assetURL)
	}

	if v.Endpoint == "" {
		return strings.TrimPrefix(u.Path, "/"), nil
	}

	prefix := strings.TrimSuffix(v.Endpoint, "/") + "/"
	if !strings.HasPrefix(assetURL, prefix) {
		return "", NewValidationError("asset url is not served by the configured CDN: %s", assetURL)
	}

	key := strings.TrimPrefix(assetURL, prefix)
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	if key == "" {
		return "", NewValidationError("asset url has no object path: %s", assetURL)
	}
	return key, nil
}

type ObjectChecker interface {
	ObjectExists(ctx context.Context, key string) (bool, error)
}

// OriginAssetVerifier additionally requires the object to exist in the CDN's
// origin bucket.
type OriginAssetVerifier struct {
	URLPrefixVerifier
	Origin ObjectChecker
}

func (v *OriginAssetVerifier) Verify(ctx context.Context, assetURL string) error {
	key, err := v.objectKey(assetURL)
	if err != nil {
		return err
	}

	exists, err := v.Origin.ObjectExists(ctx, key)
	if err != nil {
		return err
	}
	if !exists {
		return NewValidationError("asset was not uploaded: %s", assetURL)
	}
	return nil
}
