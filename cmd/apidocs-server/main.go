package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/carebridge/apidocs/internal/config"
	"github.com/carebridge/apidocs/internal/domain/snapshot"
	"github.com/carebridge/apidocs/internal/mcpserver"
	"github.com/carebridge/apidocs/internal/platform/db"
	"github.com/carebridge/apidocs/internal/platform/openapi"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "apidocs-server",
		Short:        "OpenAPI documentation server for the CareBridge REST API",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(lintCmd())
	rootCmd.AddCommand(snapshotCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(publishCmd())
	rootCmd.AddCommand(mcpCmd())
	return rootCmd
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the documentation server",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrate, _ := cmd.Flags().GetBool("migrate")
			return runServer(migrate)
		},
	}
	cmd.Flags().Bool("migrate", false, "Apply pending migrations before serving (postgres only)")
	return cmd
}

// render encodes the document in one of the export formats.
func render(gen *openapi.Generator, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json":
		return gen.JSON()
	case "yaml", "yml":
		return gen.YAML()
	case "markdown", "md":
		return []byte(gen.Markdown()), nil
	case "html":
		return gen.ReferenceHTML()
	}
	return nil, fmt.Errorf("unknown format %q (expected json, yaml, markdown or html)", format)
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the OpenAPI document to a file or stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			out, _ := cmd.Flags().GetString("out")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			data, err := render(newGenerator(cfg), format)
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d bytes).\n", out, len(data))
			return nil
		},
	}
	cmd.Flags().StringP("format", "f", "json", "Output format: json, yaml, markdown or html")
	cmd.Flags().StringP("out", "o", "", "Output file (default stdout)")
	return cmd
}

func lintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Check the generated document for structural problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			report := openapi.Lint(cmd.Context(), newGenerator(cfg).GenerateSpec())

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(w, "%d operations, %d tags\n", report.Operations, report.Tags)
				for _, p := range report.Problems {
					fmt.Fprintln(w, p.String())
				}
			}
			if !report.OK() {
				return fmt.Errorf("lint found %d problem(s)", len(report.Problems))
			}
			if !asJSON {
				fmt.Fprintln(w, "OK")
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print the report as JSON")
	return cmd
}

// withSnapshots opens the configured store for a CLI command.
func withSnapshots(cmd *cobra.Command, fn func(svc *snapshot.Service, gen *openapi.Generator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	st, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer st.close()
	if cfg.StoreDriver == config.DriverMemory {
		fmt.Fprintln(cmd.ErrOrStderr(), "WARNING: STORE_DRIVER=memory; snapshots are discarded when the command exits.")
	}
	return fn(snapshot.NewService(st.snapshots), newGenerator(cfg))
}

func snapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Record and compare document snapshots",
	}

	saveCmd := &cobra.Command{
		Use:   "save",
		Short: "Store a snapshot of the current document",
		RunE: func(cmd *cobra.Command, args []string) error {
			note, _ := cmd.Flags().GetString("note")
			return withSnapshots(cmd, func(svc *snapshot.Service, gen *openapi.Generator) error {
				snap, err := svc.Capture(cmd.Context(), gen.GenerateSpec(), note)
				if errors.Is(err, snapshot.ErrUnchanged) {
					fmt.Fprintf(cmd.OutOrStdout(), "Unchanged since snapshot %s.\n", snap.ID)
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved snapshot %s (version %s, %d operations).\n",
					snap.ID, snap.Version, snap.EndpointCount)
				return nil
			})
		},
	}
	saveCmd.Flags().String("note", "", "Free-text note stored with the snapshot")
	cmd.AddCommand(saveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return withSnapshots(cmd, func(svc *snapshot.Service, _ *openapi.Generator) error {
				snaps, total, err := svc.List(cmd.Context(), limit, 0)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "%-36s %-10s %-10s %-20s %s\n", "ID", "VERSION", "ENDPOINTS", "CREATED AT", "NOTE")
				for _, s := range snaps {
					fmt.Fprintf(w, "%-36s %-10s %-10d %-20s %s\n",
						s.ID, s.Version, s.EndpointCount, s.CreatedAt.Format("2006-01-02 15:04:05"), s.Note)
				}
				fmt.Fprintf(w, "%d of %d snapshot(s)\n", len(snaps), total)
				return nil
			})
		},
	}
	listCmd.Flags().Int("limit", 20, "Maximum number of snapshots to list")
	cmd.AddCommand(listCmd)

	diffCmd := &cobra.Command{
		Use:   "diff <id>",
		Short: "Compare a snapshot with the current document or another snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			against, _ := cmd.Flags().GetString("against")
			from, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid snapshot id %q", args[0])
			}
			return withSnapshots(cmd, func(svc *snapshot.Service, gen *openapi.Generator) error {
				var changes *openapi.Changes
				if against != "" {
					to, err := uuid.Parse(against)
					if err != nil {
						return fmt.Errorf("invalid snapshot id %q", against)
					}
					changes, err = svc.CompareSnapshots(cmd.Context(), from, to)
					if err != nil {
						return err
					}
				} else {
					changes, err = svc.Compare(cmd.Context(), from, gen.GenerateSpec())
					if err != nil {
						return err
					}
				}
				printChanges(cmd.OutOrStdout(), changes)
				return nil
			})
		},
	}
	diffCmd.Flags().String("against", "", "Compare with this snapshot instead of the current document")
	cmd.AddCommand(diffCmd)

	return cmd
}

func printChanges(w io.Writer, c *openapi.Changes) {
	if c.Empty() {
		fmt.Fprintln(w, "No changes.")
		return
	}
	for _, set := range []struct {
		mark string
		refs []openapi.OperationRef
	}{{"+", c.Added}, {"-", c.Removed}, {"~", c.Changed}} {
		for _, r := range set.refs {
			fmt.Fprintf(w, "%s %-7s %s\n", set.mark, r.Method, r.Path)
		}
	}
	fmt.Fprintf(w, "%d added, %d removed, %d changed\n", len(c.Added), len(c.Removed), len(c.Changed))
}

// openMigrator connects to DATABASE_URL. dir overrides the embedded
// migrations.
func openMigrator(ctx context.Context, dir string) (*db.Migrator, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, nil, errors.New("DATABASE_URL is required for migrations")
	}
	pool, err := db.NewPool(ctx, db.PoolConfig{URL: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
	if err != nil {
		return nil, nil, err
	}
	fsys := db.EmbeddedMigrations()
	if dir != "" {
		fsys = os.DirFS(dir)
	}
	return db.NewMigrator(pool, fsys), pool.Close, nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	// migrate up
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			to, _ := cmd.Flags().GetInt("to")

			migrator, closePool, err := openMigrator(cmd.Context(), dir)
			if err != nil {
				return err
			}
			defer closePool()

			count, err := migrator.UpTo(cmd.Context(), to)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "", "Path to migrations directory (default embedded)")
	upCmd.Flags().Int("to", 0, "Stop after this version (default all)")
	cmd.AddCommand(upCmd)

	// migrate status
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			migrator, closePool, err := openMigrator(cmd.Context(), dir)
			if err != nil {
				return err
			}
			defer closePool()

			statuses, err := migrator.Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}
			printMigrationStatus(cmd.OutOrStdout(), statuses)
			return nil
		},
	}
	statusCmd.Flags().String("dir", "", "Path to migrations directory (default embedded)")
	cmd.AddCommand(statusCmd)

	return cmd
}

func printMigrationStatus(w io.Writer, statuses []db.MigrationStatus) {
	fmt.Fprintf(w, "%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
	fmt.Fprintln(w, "---------- ---------------------------------------- ---------- --------------------")
	for _, s := range statuses {
		status := "pending"
		appliedAt := ""
		if s.Applied {
			status = "applied"
			if s.AppliedAt != nil {
				appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
		}
		fmt.Fprintf(w, "%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
	}
}

func publishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload the JSON and YAML documents to S3",
		RunE: func(cmd *cobra.Command, args []string) error {
			version, _ := cmd.Flags().GetString("version")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if version == "" {
				version = cfg.APIVersion
			}
			publisher, err := newPublisher(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			gen := newGenerator(cfg)
			jsonDoc, err := gen.JSON()
			if err != nil {
				return err
			}
			yamlDoc, err := gen.YAML()
			if err != nil {
				return err
			}
			keys, err := publisher.Publish(cmd.Context(), version, jsonDoc, yamlDoc)
			if err != nil {
				return err
			}
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "s3://%s/%s\n", cfg.S3Bucket, k)
			}
			return nil
		},
	}
	cmd.Flags().String("version", "", "Version directory to publish under (default API_VERSION)")
	return cmd
}

func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the API reference as MCP tools over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			srv := mcpserver.NewServer(newGenerator(cfg))
			return srv.Run(cmd.Context(), cfg.APIVersion, os.Stdin, os.Stdout)
		},
	}
}
