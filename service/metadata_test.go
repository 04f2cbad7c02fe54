package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleBooksLookup(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		if gotQuery == "isbn:0000" {
			w.Write([]byte(`{"totalItems":0}`))
			return
		}
		w.Write([]byte(`{"totalItems":1,"items":[{"volumeInfo":{"title":"Dune","subtitle":"Deluxe","authors":["Frank Herbert","Brian Herbert"]}}]}`))
	}))
	defer srv.Close()

	g := &GoogleBooks{Client: srv.Client(), BaseURL: srv.URL}
	meta, err := g.Lookup(context.Background(), "978-0-441-17271-9")
	require.NoError(t, err)
	assert.Equal(t, "isbn:9780441172719", gotQuery)
	assert.Equal(t, "Dune: Deluxe", meta.Title)
	assert.Equal(t, "Frank Herbert, Brian Herbert", meta.Author)
	assert.Equal(t, "https://covers.openlibrary.org/b/isbn/9780441172719-L.jpg", meta.CoverURL)

	_, err = g.Lookup(context.Background(), "0000")
	assert.Error(t, err)
	_, err = g.Lookup(context.Background(), " ")
	assert.Error(t, err)
}
