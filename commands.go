package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/kevinaaaquil/bookstore/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// seedCmd wipes the database and loads the sample books and accounts.
func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Reset the database and load sample data",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return err
			}
			defer a.close()
			if a.db == nil {
				return errors.New("seed needs STORE_DRIVER=mongo")
			}
			if err := a.db.Reset(ctx); err != nil {
				return fmt.Errorf("reset: %w", err)
			}
			if err := a.db.EnsureIndexes(ctx); err != nil {
				return fmt.Errorf("ensure indexes: %w", err)
			}
			if err := service.SeedSample(ctx, a.store, a.accounts); err != nil {
				return err
			}
			a.log.Info("database seeded",
				zap.Int("books", len(service.SampleBooks())),
				zap.Int("users", len(service.SampleUsers())),
			)
			return nil
		},
	}
}

// setupCmd creates the collection indexes.
func setupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Create database indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return err
			}
			defer a.close()
			if a.db == nil {
				a.log.Info("memory store has no indexes to create")
				return nil
			}
			if err := a.db.EnsureIndexes(ctx); err != nil {
				return fmt.Errorf("ensure indexes: %w", err)
			}
			a.log.Info("indexes created")
			return nil
		},
	}
}
