package main

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	migrations "github.com/yoocash/idbroker/migrations/postgres"
)

func newMigrateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "migrate [up|down] [steps]",
		Short: "Apply embedded SQL migrations",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			action := "up"
			steps := 0
			if len(args) >= 1 && args[0] != "" {
				action = strings.ToLower(args[0])
			}
			if len(args) >= 2 {
				if n, err := strconv.Atoi(args[1]); err == nil && n > 0 {
					steps = n
				}
			}
			return migrate(configPath, action, steps)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "configs/config.yaml", "Path to YAML config")
	return cmd
}

func migrate(configPath, action string, steps int) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Storage.DSN)
	if err != nil {
		return fmt.Errorf("pgxpool: %w", err)
	}
	defer pool.Close()

	switch action {
	case "up":
		upFiles, err := migrations.List("_up.sql")
		if err != nil {
			return fmt.Errorf("list up: %w", err)
		}
		if steps > 0 && steps < len(upFiles) {
			upFiles = upFiles[:steps]
		}
		log.Printf("Applying %d up migration(s)...", len(upFiles))
		for _, f := range upFiles {
			if err := execSQLFile(ctx, pool, f); err != nil {
				return fmt.Errorf("exec %s: %w", f, err)
			}
		}
		log.Println("Up migrations completed.")
		return nil

	case "down":
		downFiles, err := migrations.List("_down.sql")
		if err != nil {
			return fmt.Errorf("list down: %w", err)
		}
		reverseInPlace(downFiles) // newest first
		if steps > 0 && steps < len(downFiles) {
			downFiles = downFiles[:steps] // only N most-recent downs
		}
		log.Printf("Applying %d down migration(s)...", len(downFiles))
		for _, f := range downFiles {
			if err := execSQLFile(ctx, pool, f); err != nil {
				return fmt.Errorf("exec %s: %w", f, err)
			}
		}
		log.Println("Down migrations completed.")
		return nil

	default:
		return fmt.Errorf("unknown action %q. Use: up | down [steps]", action)
	}
}

func reverseInPlace(ss []string) {
	for i, j := 0, len(ss)-1; i < j; i, j = i+1, j-1 {
		ss[i], ss[j] = ss[j], ss[i]
	}
}

func execSQLFile(ctx context.Context, pool *pgxpool.Pool, name string) error {
	b, err := migrations.FS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	start := time.Now()
	if _, err := pool.Exec(ctx, string(b)); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	log.Printf("OK %s (%s)", name, time.Since(start).Truncate(time.Millisecond))
	return nil
}
