package service

import (
	"context"
	"sync"

	"github.com/kevinaaaquil/bookstore/models"
	"github.com/kevinaaaquil/bookstore/store/memory"
)

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	loads   int
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}}
}

func (c *fakeCache) GetOrLoad(ctx context.Context, key string, load func(context.Context) ([]byte, error)) ([]byte, error) {
	c.mu.Lock()
	if b, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return b, nil
	}
	c.loads++
	c.mu.Unlock()

	b, err := load(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.entries[key] = b
	c.mu.Unlock()
	return b, nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	c.deleted = append(c.deleted, keys...)
	return nil
}

type fakeMetadata struct {
	meta  *BookMetadata
	err   error
	calls int
}

func (f *fakeMetadata) Lookup(context.Context, string) (*BookMetadata, error) {
	f.calls++
	return f.meta, f.err
}

type fixture struct {
	store    *memory.Store
	books    *Books
	carts    *Carts
	accounts *Accounts
}

func newFixture() *fixture {
	st := memory.New()
	books := &Books{Store: st}
	return &fixture{
		store:    st,
		books:    books,
		carts:    &Carts{Store: st, Books: books},
		accounts: &Accounts{Store: st},
	}
}

func (f *fixture) addBook(isbn, title string, price float64) {
	err := f.store.InsertBook(context.Background(), &models.Book{ISBN: isbn, Title: title, Author: "Author", Price: models.Amount(price)})
	if err != nil {
		panic(err)
	}
}

// slowReadStore holds the first BookByISBN after it has read the book,
// until release is closed.
type slowReadStore struct {
	*memory.Store
	once    sync.Once
	read    chan struct{}
	release chan struct{}
}

func (s *slowReadStore) BookByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	book, err := s.Store.BookByISBN(ctx, isbn)
	s.once.Do(func() {
		close(s.read)
		<-s.release
	})
	return book, err
}
