package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"neomind-chat-be/internal/config"
	"neomind-chat-be/internal/repository/implementation"
	"neomind-chat-be/internal/repository/mongostore"
	"neomind-chat-be/pkg/database"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Prepare the NeoMind credential and session stores",
	Long:  "Creates the users and chat_sessions tables in PostgreSQL, or the unique and listing indexes in MongoDB.",
}

func postgresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "postgres",
		Short: "Run GORM auto-migration against DB_CONNECTION_STRING",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cfg.Database.Connection == "" {
				return fmt.Errorf("DB_CONNECTION_STRING is not set")
			}

			db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			color.Cyan("Migrating users and chat_sessions...")
			if err := implementation.AutoMigrate(db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			color.Green("✅ PostgreSQL schema is up to date")
			return nil
		},
	}
}

func mongoCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "mongo",
		Short: "Create MongoDB indexes on MONGODB_URI / MONGODB_DATABASE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			client, db, err := database.NewMongoDatabase(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
			if err != nil {
				return err
			}
			defer client.Disconnect(context.Background())

			color.Cyan("Ensuring indexes on %s...", cfg.Mongo.Database)
			if err := mongostore.EnsureIndexes(ctx, db); err != nil {
				return fmt.Errorf("index creation failed: %w", err)
			}
			color.Green("✅ MongoDB indexes are in place")
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall deadline for connecting and indexing")
	return cmd
}

func main() {
	rootCmd.AddCommand(postgresCmd(), mongoCmd())
	if err := rootCmd.Execute(); err != nil {
		color.Red("❌ %v", err)
		os.Exit(1)
	}
}
