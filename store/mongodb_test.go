package store

import (
	"context"
	"errors"
	"testing"

	"github.com/kevinaaaquil/bookstore/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func mockDB(mt *mtest.T) *DB {
	return &DB{Client: mt.Client, Database: mt.DB}
}

func commandNames(mt *mtest.T) []string {
	var names []string
	for _, e := range mt.GetAllStartedEvents() {
		names = append(names, e.CommandName)
	}
	return names
}

func TestBookByISBN(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("found with string price", func(mt *mtest.T) {
		ns := mt.DB.Name() + ".books"
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "isbn", Value: "111"},
			{Key: "title", Value: "Dune"},
			{Key: "author", Value: "Frank Herbert"},
			{Key: "price", Value: "12.5"},
		}))
		book, err := mockDB(mt).BookByISBN(ctx, "111")
		require.NoError(mt, err)
		require.NotNil(mt, book)
		assert.Equal(mt, "Dune", book.Title)
		assert.Equal(mt, models.Amount(12.5), book.Price)
	})

	mt.Run("missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+".books", mtest.FirstBatch))
		book, err := mockDB(mt).BookByISBN(ctx, "999")
		require.NoError(mt, err)
		assert.Nil(mt, book)
	})
}

func TestInsertBookDuplicate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate key", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: bookstore.books index: isbn_1",
		}))
		err := mockDB(mt).InsertBook(context.Background(), &models.Book{ISBN: "111", Title: "Dune"})
		assert.True(mt, errors.Is(err, ErrDuplicate))
	})
}

func TestDeleteBookCascadesWhenBookMissing(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("cascade still runs", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}, bson.E{Key: "nModified", Value: 2}),
		)
		deleted, err := mockDB(mt).DeleteBook(context.Background(), "111")
		require.NoError(mt, err)
		assert.False(mt, deleted)
		assert.Equal(mt, []string{"delete", "update"}, commandNames(mt))
	})
}

func TestEnsureCartDefaultsBooks(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("fresh cart", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "userId", Value: 3},
			{Key: "version", Value: 0},
		}}))
		cart, err := mockDB(mt).EnsureCart(context.Background(), 3)
		require.NoError(mt, err)
		assert.Equal(mt, 3, cart.UserID)
		assert.NotNil(mt, cart.Books)
		assert.Empty(mt, cart.Books)
	})
}

func TestCartByUserCoercesNumbers(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("mixed numeric types", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+".carts", mtest.FirstBatch, bson.D{
			{Key: "userId", Value: 1},
			{Key: "books", Value: bson.A{
				bson.D{{Key: "isbn", Value: "111"}, {Key: "price", Value: int32(10)}, {Key: "quantity", Value: "2"}},
				bson.D{{Key: "isbn", Value: "222"}, {Key: "price", Value: "oops"}, {Key: "quantity", Value: int64(3)}},
			}},
		}))
		cart, err := mockDB(mt).CartByUser(context.Background(), 1)
		require.NoError(mt, err)
		require.Len(mt, cart.Books, 2)
		assert.Equal(mt, models.Amount(10), cart.Books[0].Price)
		assert.Equal(mt, models.Count(2), cart.Books[0].Quantity)
		assert.Equal(mt, models.Amount(0), cart.Books[1].Price)
		assert.Equal(mt, models.Count(3), cart.Books[1].Quantity)
	})
}

func TestCartItemUpdatesReportMatch(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("increment misses", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))
		ok, err := mockDB(mt).IncrementItem(ctx, 1, "111", 2)
		require.NoError(mt, err)
		assert.False(mt, ok)
	})

	mt.Run("push matches", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))
		ok, err := mockDB(mt).PushItem(ctx, 1, models.CartItem{ISBN: "111", Quantity: 1})
		require.NoError(mt, err)
		assert.True(mt, ok)
	})
}

func TestNextUserIDStartsAboveExisting(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("seeded from max", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, mt.DB.Name()+".users", mtest.FirstBatch, bson.D{{Key: "userId", Value: 7}}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
				{Key: "_id", Value: "userId"},
				{Key: "seq", Value: 8},
			}}),
		)
		id, err := mockDB(mt).NextUserID(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, 8, id)
		assert.Equal(mt, []string{"find", "update", "findAndModify"}, commandNames(mt))
	})
}

func TestUpdateBookWithNothingToSet(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("counts instead of updating", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+".books", mtest.FirstBatch, bson.D{{Key: "n", Value: 1}}))
		ok, err := mockDB(mt).UpdateBook(context.Background(), "111", models.BookUpdate{})
		require.NoError(mt, err)
		assert.True(mt, ok)
		assert.Equal(mt, []string{"aggregate"}, commandNames(mt))
	})
}

func TestEnsureCartRetriesAfterDuplicateKey(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("lost upsert race", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCommandErrorResponse(mtest.CommandError{
				Code:    11000,
				Name:    "DuplicateKey",
				Message: "E11000 duplicate key error collection: bookstore.carts index: userId_1",
			}),
			mtest.CreateCursorResponse(0, mt.DB.Name()+".carts", mtest.FirstBatch, bson.D{
				{Key: "userId", Value: 3},
				{Key: "books", Value: bson.A{
					bson.D{{Key: "isbn", Value: "111"}, {Key: "quantity", Value: 2}},
				}},
				{Key: "version", Value: int64(4)},
			}),
		)
		cart, err := mockDB(mt).EnsureCart(context.Background(), 3)
		require.NoError(mt, err)
		require.Len(mt, cart.Books, 1)
		assert.Equal(mt, models.Count(2), cart.Books[0].Quantity)
		assert.Equal(mt, int64(4), cart.Version)
		assert.Equal(mt, []string{"findAndModify", "find"}, commandNames(mt))
	})
}

func TestDeleteBookInTransaction(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("commits both writes", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(),
		)
		db := mockDB(mt)
		db.Transactions = true
		deleted, err := db.DeleteBook(context.Background(), "111")
		require.NoError(mt, err)
		assert.True(mt, deleted)
		assert.Equal(mt, []string{"delete", "update", "commitTransaction"}, commandNames(mt))
	})
}
