package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tnqbao/gau-video-service/entity"
	"github.com/tnqbao/gau-video-service/http/controller/dto"
)

// RecordClient talks to the video service's JSON API.
type RecordClient struct {
	BaseURL string
	Client  *http.Client
	Token   string
}

func NewRecordClient(baseURL string, client *http.Client) *RecordClient {
	return &RecordClient{BaseURL: strings.TrimRight(baseURL, "/"), Client: client}
}

// FetchUploadAuth asks the service for a signed upload tuple using the current session token.
func (c *RecordClient) FetchUploadAuth(ctx context.Context) (*entity.UploadAuthorization, error) {
	fetcher := &HTTPAuthFetcher{
		Endpoint: c.BaseURL + "/api/auth/upload-auth",
		Client:   c.Client,
		Token:    c.Token,
	}
	return fetcher.FetchUploadAuth(ctx)
}

func (c *RecordClient) Register(ctx context.Context, email, password string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/register", dto.RegisterRequestDTO{Email: email, Password: password}, nil)
}

// Login stores the returned access token on the client for later calls.
func (c *RecordClient) Login(ctx context.Context, email, password string) (string, error) {
	var resp dto.LoginResponseDTO
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", dto.LoginRequestDTO{Email: email, Password: password}, &resp); err != nil {
		return "", err
	}
	c.Token = resp.AccessToken
	return resp.AccessToken, nil
}

// CreateVideo refuses to send a record with any empty field.
func (c *RecordClient) CreateVideo(ctx context.Context, req dto.CreateVideoRequestDTO) (*entity.VideoRecord, error) {
	for _, v := range []string{req.Title, req.Description, req.VideoURL, req.ThumbnailURL} {
		if strings.TrimSpace(v) == "" {
			return nil, ErrIncompleteForm
		}
	}

	var video entity.VideoRecord
	if err := c.do(ctx, http.MethodPost, "/api/video", req, &video); err != nil {
		return nil, err
	}
	return &video, nil
}

func (c *RecordClient) GetVideo(ctx context.Context, id string) (*entity.VideoRecord, error) {
	var video entity.VideoRecord
	if err := c.do(ctx, http.MethodGet, "/api/video/"+id, nil, &video); err != nil {
		return nil, err
	}
	return &video, nil
}

func (c *RecordClient) ListVideos(ctx context.Context) ([]entity.VideoRecord, error) {
	videos := []entity.VideoRecord{}
	if err := c.do(ctx, http.MethodGet, "/api/video", nil, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

func (c *RecordClient) do(ctx context.Context, method, path string, body, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := httpClient(c.Client).Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(data, resp.Status)}
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
