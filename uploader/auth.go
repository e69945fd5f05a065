package uploader

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tnqbao/gau-video-service/entity"
)

type AuthFetcher interface {
	FetchUploadAuth(ctx context.Context) (*entity.UploadAuthorization, error)
}

// HTTPAuthFetcher asks the video service's upload-auth endpoint for a signed tuple.
type HTTPAuthFetcher struct {
	Endpoint string
	Client   *http.Client
	// Token is sent as a bearer credential when the server requires a session.
	Token string
}

func (f *HTTPAuthFetcher) FetchUploadAuth(ctx context.Context) (*entity.UploadAuthorization, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.Endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.Token != "" {
		req.Header.Set("Authorization", "Bearer "+f.Token)
	}

	resp, err := httpClient(f.Client).Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upload auth returned status %d", resp.StatusCode)
	}

	var auth entity.UploadAuthorization
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return nil, fmt.Errorf("decode upload auth: %w", err)
	}
	return &auth, nil
}

func httpClient(c *http.Client) *http.Client {
	if c == nil {
		return http.DefaultClient
	}
	return c
}
