package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/medsync/medsync/internal/config"
	"github.com/medsync/medsync/internal/platform/auth"
	"github.com/medsync/medsync/internal/platform/db"
	"github.com/medsync/medsync/migrations"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "medsync-server",
		Short:         "MedSync hospital resource-sharing API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(tokenCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

// migrationFiles returns the directory override when one is given and the
// migrations compiled into the binary otherwise.
func migrationFiles(dir string) fs.FS {
	if dir != "" {
		return os.DirFS(dir)
	}
	return migrations.FS
}

func openMigrator(ctx context.Context, cmd *cobra.Command) (*db.Migrator, func(), error) {
	schema, _ := cmd.Flags().GetString("schema")
	dir, _ := cmd.Flags().GetString("dir")

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if dir == "" {
		dir = cfg.MigrationsDir
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, db.PoolOptions{
		MaxConns:        2,
		ApplicationName: "medsync-migrate",
	})
	if err != nil {
		return nil, nil, err
	}

	migrator, err := db.NewMigrator(pool, migrationFiles(dir), schema)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return migrator, pool.Close, nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}
	cmd.PersistentFlags().String("schema", "public", "Target schema for migrations")
	cmd.PersistentFlags().String("dir", "", "Read migrations from this directory instead of the embedded set")

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			migrator, closeFn, err := openMigrator(ctx, cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) successfully.\n", count)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			migrator, closeFn, err := openMigrator(ctx, cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}
			printStatus(cmd, statuses)
			return nil
		},
	})

	return cmd
}

func printStatus(cmd *cobra.Command, statuses []db.MigrationStatus) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
	fmt.Fprintln(out, "---------- ---------------------------------------- ---------- --------------------")
	for _, s := range statuses {
		status := "pending"
		appliedAt := ""
		if s.Applied {
			status = "applied"
			if s.AppliedAt != nil {
				appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
		}
		fmt.Fprintf(out, "%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
	}
}

// tokenCmd mints a bearer token signed with AUTH_SIGNING_KEY, for local
// testing against a server running outside development mode.
func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed API token",
		RunE: func(cmd *cobra.Command, args []string) error {
			subject, _ := cmd.Flags().GetString("subject")
			roles, _ := cmd.Flags().GetStringSlice("roles")
			ttl, _ := cmd.Flags().GetDuration("ttl")
			if strings.TrimSpace(subject) == "" {
				return fmt.Errorf("--subject is required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.AuthSigningKey == "" {
				return fmt.Errorf("AUTH_SIGNING_KEY is not set")
			}

			tok, err := auth.IssueToken(jwtConfig(cfg), subject, roles, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().String("subject", "", "User id recorded as responded_by")
	cmd.Flags().StringSlice("roles", []string{auth.RoleCoordinator}, "Roles granted by the token")
	cmd.Flags().Duration("ttl", 12*time.Hour, "Token lifetime")
	return cmd
}
