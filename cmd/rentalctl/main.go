// rentalctl is the operator CLI: schema migrations and the two ledger
// repair passes, runnable on demand instead of living as one-off scripts.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/karim076/dvd-rental/internal/config"
	"github.com/karim076/dvd-rental/internal/database"
	"github.com/karim076/dvd-rental/internal/repository"
)

func main() {
	rootCmd := &cobra.Command{Use: "rentalctl", Short: "dvd-rental operations tool"}
	rootCmd.AddCommand(
		migrateCommand(),
		repairAmountsCommand(),
		repairStatusCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-up",
		Short: "apply all pending schema migrations",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			if err := database.MigrateUp(cfg.MigrationsDir, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName); err != nil {
				panic(err)
			}
			fmt.Println("migrated up")
		},
	}
}

func repairAmountsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repair-amounts",
		Short: "backfill zero/NULL rental amounts from the film rate",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			store, cleanup := openStore()
			defer cleanup()
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			n, err := store.RepairZeroAmounts(ctx)
			if err != nil {
				panic(err)
			}
			fmt.Printf("repaired %d rental amounts\n", n)
		},
	}
}

func repairStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repair-status",
		Short: "normalize rentals stuck in the transient processing status",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			store, cleanup := openStore()
			defer cleanup()
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			n, err := store.NormalizeProcessing(ctx)
			if err != nil {
				panic(err)
			}
			fmt.Printf("normalized %d rental statuses\n", n)
		},
	}
}

func loadConfig() config.Config {
	_ = godotenv.Load()
	return config.Load()
}

func openStore() (*repository.Store, func()) {
	cfg := loadConfig()
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		panic(err)
	}
	return repository.NewStore(db), func() { _ = db.Close() }
}
