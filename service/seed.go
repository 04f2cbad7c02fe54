package service

import (
	"context"
	"fmt"
)

// SeedSample loads the sample catalog and accounts into empty stores.
func SeedSample(ctx context.Context, books BookStore, accounts *Accounts) error {
	if err := books.InsertBooks(ctx, SampleBooks()); err != nil {
		return fmt.Errorf("insert sample books: %w", err)
	}
	for _, u := range SampleUsers() {
		if _, err := accounts.create(ctx, u.Name, u.Email, u.Password, u.Type); err != nil {
			return fmt.Errorf("create %s: %w", u.Email, err)
		}
	}
	return nil
}
