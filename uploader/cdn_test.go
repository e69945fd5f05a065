package uploader

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageKitCDN_Upload(t *testing.T) {
	var fields map[string]string
	var fileBody string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		fields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			fields[k] = v[0]
		}
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		fileBody = string(data)
		assert.Equal(t, "clip.mp4", hdr.Filename)
		assert.Equal(t, "video/mp4", hdr.Header.Get("Content-Type"))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"fileId": "f1",
			"name":   "clip_abc.mp4",
			"url":    "https://ik.imagekit.io/demo/videos/clip_abc.mp4",
			"size":   len(data),
		})
	}))
	defer srv.Close()

	content := strings.Repeat("v", 4096)
	var last int64
	cdn := &ImageKitCDN{UploadURL: srv.URL, Client: srv.Client()}
	res, err := cdn.Upload(context.Background(), UploadRequest{
		File:   File{Name: "clip.mp4", MediaType: "video/mp4", Size: int64(len(content)), Content: strings.NewReader(content)},
		Auth:   *validAuth(),
		Folder: "/videos",
	}, func(loaded, total int64) {
		assert.GreaterOrEqual(t, loaded, last)
		last = loaded
	})
	require.NoError(t, err)

	assert.Equal(t, "https://ik.imagekit.io/demo/videos/clip_abc.mp4", res.URL)
	assert.Equal(t, "f1", res.FileID)
	assert.Equal(t, int64(len(content)), last)
	assert.Equal(t, content, fileBody)
	assert.Equal(t, map[string]string{
		"fileName":          "clip.mp4",
		"publicKey":         "pub",
		"signature":         "sig",
		"expire":            "1700000000",
		"token":             "tok",
		"useUniqueFileName": "true",
		"folder":            "/videos",
	}, fields)
}

func TestImageKitCDN_ErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		kind    TransferKind
		message string
	}{
		{"client error", http.StatusBadRequest, `{"message":"Your request contains expired signature"}`, TransferInvalidRequest, "Your request contains expired signature"},
		{"server error", http.StatusBadGateway, `oops`, TransferServer, "502 Bad Gateway"},
		{"missing url", http.StatusOK, `{"fileId":"f1"}`, TransferServer, "upload response has no url"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.Copy(io.Discard, r.Body)
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			cdn := &ImageKitCDN{UploadURL: srv.URL, Client: srv.Client()}
			_, err := cdn.Upload(context.Background(), UploadRequest{File: videoFile(4), Auth: *validAuth()}, nil)

			var te *TransferError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tc.kind, te.Kind)
			assert.Equal(t, tc.message, te.Message)
		})
	}
}

func TestImageKitCDN_Aborted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cdn := &ImageKitCDN{UploadURL: srv.URL, Client: srv.Client()}
	_, err := cdn.Upload(ctx, UploadRequest{File: videoFile(4), Auth: *validAuth()}, nil)

	var te *TransferError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, TransferAborted, te.Kind)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImageKitCDN_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	cdn := &ImageKitCDN{UploadURL: url}
	_, err := cdn.Upload(context.Background(), UploadRequest{File: videoFile(4), Auth: *validAuth()}, nil)

	var te *TransferError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, TransferNetwork, te.Kind)
	assert.Equal(t, "Network error", te.Kind.String())
}
