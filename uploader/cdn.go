package uploader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"

	"github.com/tnqbao/gau-video-service/entity"
)

const DefaultImageKitUploadURL = "https://upload.imagekit.io/api/v1/files/upload"

type UploadRequest struct {
	File   File
	Auth   entity.UploadAuthorization
	Folder string
}

// UploadResult is the CDN's description of a stored asset.
type UploadResult struct {
	FileID       string `json:"fileId"`
	Name         string `json:"name"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
	FilePath     string `json:"filePath"`
	Size         int64  `json:"size"`
	FileType     string `json:"fileType"`
}

type CDN interface {
	Upload(ctx context.Context, req UploadRequest, onProgress ProgressFunc) (*UploadResult, error)
}

// ImageKitCDN streams files to ImageKit's client-side upload API.
type ImageKitCDN struct {
	UploadURL string
	Client    *http.Client
}

func (c *ImageKitCDN) Upload(ctx context.Context, req UploadRequest, onProgress ProgressFunc) (*UploadResult, error) {
	uploadURL := c.UploadURL
	if uploadURL == "" {
		uploadURL = DefaultImageKitUploadURL
	}

	// Use io.Pipe so the file is streamed instead of buffered
	pr, pw := io.Pipe()
	w := multipart.NewWriter(pw)
	done := make(chan struct{})

	go func() {
		defer close(done)
		err := writeUploadForm(w, req, onProgress)
		if err == nil {
			err = w.Close()
		}
		pw.CloseWithError(err)
	}()

	// No progress callback may run after Upload returns.
	finish := func() {
		pr.Close()
		<-done
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, pr)
	if err != nil {
		finish()
		return nil, &TransferError{Kind: TransferInvalidRequest, Err: err}
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := httpClient(c.Client).Do(httpReq)
	finish()
	if err != nil {
		if ctx.Err() != nil {
			return nil, &TransferError{Kind: TransferAborted, Err: ctx.Err()}
		}
		return nil, &TransferError{Kind: TransferNetwork, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &TransferError{Kind: TransferAborted, Err: ctx.Err()}
		}
		return nil, &TransferError{Kind: TransferNetwork, Message: err.Error(), Err: err}
	}

	if resp.StatusCode >= 400 {
		kind := TransferServer
		if resp.StatusCode < 500 {
			kind = TransferInvalidRequest
		}
		return nil, &TransferError{
			Kind:       kind,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body, resp.Status),
		}
	}

	var result UploadResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &TransferError{Kind: TransferServer, StatusCode: resp.StatusCode, Message: "malformed upload response", Err: err}
	}
	if result.URL == "" {
		return nil, &TransferError{Kind: TransferServer, StatusCode: resp.StatusCode, Message: "upload response has no url"}
	}
	return &result, nil
}

func writeUploadForm(w *multipart.Writer, req UploadRequest, onProgress ProgressFunc) error {
	fields := [][2]string{
		{"fileName", req.File.Name},
		{"publicKey", req.Auth.PublicKey},
		{"signature", req.Auth.Signature},
		{"expire", strconv.FormatInt(req.Auth.Expire, 10)},
		{"token", req.Auth.Token},
		{"useUniqueFileName", "true"},
	}
	if req.Folder != "" {
		fields = append(fields, [2]string{"folder", req.Folder})
	}

	for _, field := range fields {
		if err := w.WriteField(field[0], field[1]); err != nil {
			return fmt.Errorf("failed to write %s field: %w", field[0], err)
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(req.File.Name)))
	if req.File.MediaType != "" {
		h.Set("Content-Type", req.File.MediaType)
	} else {
		h.Set("Content-Type", "application/octet-stream")
	}

	fw, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}

	if req.File.Content == nil {
		return errors.New("file has no content")
	}

	if _, err := io.Copy(fw, newProgressReader(req.File.Content, req.File.Size, onProgress)); err != nil {
		return fmt.Errorf("failed to stream file data: %w", err)
	}
	return nil
}

func errorMessage(body []byte, fallback string) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return fallback
}

func escapeQuotes(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '"' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
