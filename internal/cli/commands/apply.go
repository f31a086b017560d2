package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leapmigrate/pkg/adapter"
	"github.com/leapstack-labs/leapmigrate/pkg/adapters/mysql"
	"github.com/leapstack-labs/leapmigrate/pkg/core"
	"github.com/spf13/cobra"
)

// NewApplyCommand creates the apply command.
func NewApplyCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "apply <file>...",
		Short: "Apply request files to the target database",
		Long: `Build every operation in the request files and run the resulting
statements against the configured target, one operation at a time and in
file order.

Each operation runs on a single connection. Execution stops at the first
failing operation; operations that already ran are not rolled back.`,
		Example: `  # Apply to the target in leapmigrate.yaml
  leapmigrate apply migrations/0001_init.yaml

  # Show what would run
  leapmigrate apply migrations/*.yaml --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, args, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Render statements instead of executing them")
	return cmd
}

func runApply(cmd *cobra.Command, paths []string, dryRun bool) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	b, err := cmdCtx.Builder()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	plans, err := buildPlans(ctx, b, cmdCtx.Logger, paths)
	if err != nil {
		return err
	}
	if dryRun {
		return writePlans(cmdCtx.Renderer, plans)
	}

	if err := cmdCtx.Cfg.ValidateTarget(); err != nil {
		return fmt.Errorf("invalid target configuration: %w", err)
	}

	runID := uuid.NewString()
	logger := cmdCtx.Logger.With(slog.String("run_id", runID))

	a, err := adapter.NewAdapter(cmdCtx.Cfg.Target.ToAdapterConfig(), logger)
	if err != nil {
		return err
	}
	if a.DialectName() != b.Dialect().Name {
		return fmt.Errorf("target %q speaks %s, but statements are built for %s",
			cmdCtx.Cfg.Target.Type, a.DialectName(), b.Dialect().Name)
	}
	if err := a.Connect(ctx, cmdCtx.Cfg.Target.ToAdapterConfig()); err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	start := time.Now()
	applied := 0
	for _, p := range plans {
		for i, action := range p.Actions {
			op := p.Request.Operations[i].Op()
			if action.IsNoop() {
				logger.Debug("skipping no-op", slog.String("file", p.Path), slog.Int("index", i), slog.String("op", op))
				continue
			}
			logger.Info("applying operation", slog.String("file", p.Path), slog.Int("index", i), slog.String("op", op))
			if err := runAction(ctx, a, action, p.Path, i, op); err != nil {
				return err
			}
			applied++
		}
	}

	logger.Info("apply finished", slog.Int("applied", applied), slog.Duration("duration", time.Since(start)))
	cmdCtx.Renderer.Printf("Applied %d operation(s) from %d file(s) (run %s)\n", applied, len(plans), runID)
	return nil
}

func runAction(ctx context.Context, a adapter.Adapter, action core.Action, path string, index int, op string) error {
	if err := a.Run(ctx, action); err != nil {
		err = fmt.Errorf("%s: operations[%d] (%s): %w", path, index, op, err)
		if mysql.IsSchemaExists(err) {
			err = fmt.Errorf("%w\nHint: drop the schema first or remove the create_namespace entry", err)
		}
		return err
	}
	return nil
}
