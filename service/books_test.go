package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestCreateThenGet(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.books.Create(ctx, BookInput{ISBN: " 111 ", Title: "Dune", Author: "Frank Herbert", Price: "19.99", ImageURL: "/book_imgs/dune.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "111", created.ISBN)

	got, err := f.books.Get(ctx, "111")
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, "Frank Herbert", got.Author)
	assert.InDelta(t, 19.99, float64(got.Price), 1e-9)
	assert.Equal(t, "/book_imgs/dune.jpg", got.ImageURL)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.addBook("111", "Existing", 5)

	tests := []struct {
		name string
		in   BookInput
		want error
	}{
		{"missing isbn", BookInput{Title: "T", Price: "1"}, ErrISBNRequired},
		{"missing title", BookInput{ISBN: "222", Price: "1"}, ErrTitleRequired},
		{"bad price", BookInput{ISBN: "222", Title: "T", Price: "abc"}, ErrInvalidPrice},
		{"negative price", BookInput{ISBN: "222", Title: "T", Price: "-1"}, ErrInvalidPrice},
		{"empty price", BookInput{ISBN: "222", Title: "T"}, ErrInvalidPrice},
		{"duplicate isbn", BookInput{ISBN: "111", Title: "T", Price: "1"}, ErrBookExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.books.Create(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	books, err := f.books.List(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 1)
}

func TestCreateFillsMissingFieldsFromMetadata(t *testing.T) {
	f := newFixture()
	meta := &fakeMetadata{meta: &BookMetadata{Title: "Dune", Author: "Frank Herbert", CoverURL: "https://covers.example/dune.jpg"}}
	f.books.Metadata = meta

	book, err := f.books.Create(context.Background(), BookInput{ISBN: "111", Author: "F. Herbert", Price: "10"})
	require.NoError(t, err)
	assert.Equal(t, 1, meta.calls)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, "F. Herbert", book.Author)
	assert.Equal(t, "https://covers.example/dune.jpg", book.ImageURL)
}

func TestCreateIgnoresMetadataFailure(t *testing.T) {
	f := newFixture()
	f.books.Metadata = &fakeMetadata{err: errors.New("offline")}

	_, err := f.books.Create(context.Background(), BookInput{ISBN: "111", Price: "10"})
	assert.ErrorIs(t, err, ErrTitleRequired)
}

func TestUpdatePartial(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.addBook("111", "Old", 5)

	book, err := f.books.Update(ctx, "111", BookPatch{Title: strp("New"), Price: strp("")})
	require.NoError(t, err)
	assert.Equal(t, "New", book.Title)
	assert.Equal(t, "Author", book.Author)
	assert.InDelta(t, 5.0, float64(book.Price), 1e-9)

	book, err = f.books.Update(ctx, "111", BookPatch{Price: strp("7.5")})
	require.NoError(t, err)
	assert.InDelta(t, 7.5, float64(book.Price), 1e-9)

	_, err = f.books.Update(ctx, "111", BookPatch{Price: strp("seven")})
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = f.books.Update(ctx, "999", BookPatch{Title: strp("x")})
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestDeleteRemovesBookFromCarts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.addBook("111", "Gone", 5)
	f.addBook("222", "Stays", 3)

	_, err := f.carts.Add(ctx, 1, "111", 2, "")
	require.NoError(t, err)
	_, err = f.carts.Add(ctx, 1, "222", 1, "")
	require.NoError(t, err)
	_, err = f.carts.Add(ctx, 2, "111", 1, "")
	require.NoError(t, err)

	require.NoError(t, f.books.Delete(ctx, "111"))

	_, err = f.books.Get(ctx, "111")
	assert.ErrorIs(t, err, ErrBookNotFound)
	books, err := f.books.List(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "222", books[0].ISBN)

	cart, err := f.carts.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, cart.Books, 1)
	assert.Equal(t, "222", cart.Books[0].ISBN)

	cart, err = f.carts.Get(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, cart.Books)

	assert.ErrorIs(t, f.books.Delete(ctx, "111"), ErrBookNotFound)
}

func TestEnsureSeedOnlyWhenEmpty(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	n, err := f.books.EnsureSeed(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultCatalog()), n)

	n, err = f.books.EnsureSeed(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	books, err := f.books.List(ctx)
	require.NoError(t, err)
	assert.Len(t, books, len(DefaultCatalog()))
}

func TestCatalogCacheInvalidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := newFakeCache()
	f.books.Cache = c
	f.addBook("111", "Cached", 5)

	books, err := f.books.List(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)
	_, err = f.books.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, c.loads)

	_, err = f.books.Create(ctx, BookInput{ISBN: "222", Title: "New", Price: "2"})
	require.NoError(t, err)
	assert.Contains(t, c.deleted, "books:all")

	books, err = f.books.List(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 2)

	_, err = f.books.Get(ctx, "111")
	require.NoError(t, err)
	_, err = f.books.Update(ctx, "111", BookPatch{Title: strp("Renamed")})
	require.NoError(t, err)
	book, err := f.books.Get(ctx, "111")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", book.Title)

	_, err = f.books.Get(ctx, "999")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestCreateDuplicateSkipsMetadataLookup(t *testing.T) {
	f := newFixture()
	f.addBook("111", "Existing", 5)
	meta := &fakeMetadata{meta: &BookMetadata{Title: "Other"}}
	f.books.Metadata = meta

	_, err := f.books.Create(context.Background(), BookInput{ISBN: "111", Price: "10"})
	assert.ErrorIs(t, err, ErrBookExists)
	assert.Zero(t, meta.calls)
}
