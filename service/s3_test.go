package service

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 answers path-style object requests for a single bucket.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]string // path -> content type
	puts    []string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.Method {
	case http.MethodPut:
		io.Copy(io.Discard, r.Body)
		f.objects[r.URL.Path] = r.Header.Get("Content-Type")
		f.puts = append(f.puts, r.URL.Path)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		ct, ok := f.objects[r.URL.Path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		w.Header().Set("Content-Type", ct)
		io.WriteString(w, "imagedata")
	case http.MethodDelete:
		delete(f.objects, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestS3Images(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	images := &S3Images{
		client: s3.New(s3.Options{
			BaseEndpoint: aws.String(srv.URL),
			Region:       "us-east-1",
			UsePathStyle: true,
			Credentials:  aws.AnonymousCredentials{},
			HTTPClient:   srv.Client(),
		}),
		bucket: "covers",
		prefix: "book_imgs/",
	}
	ctx := context.Background()

	require.NoError(t, images.Save(ctx, "abc.png", "image/png", strings.NewReader("png")))
	assert.Equal(t, []string{"/covers/book_imgs/abc.png"}, fake.puts)

	rc, ct, err := images.Open(ctx, "abc.png")
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "imagedata", string(b))
	assert.Equal(t, "image/png", ct)

	_, _, err = images.Open(ctx, "missing.png")
	assert.True(t, errors.Is(err, fs.ErrNotExist), "got %v", err)

	require.NoError(t, images.Delete(ctx, "abc.png"))
	_, _, err = images.Open(ctx, "abc.png")
	assert.True(t, errors.Is(err, fs.ErrNotExist), "got %v", err)
}
