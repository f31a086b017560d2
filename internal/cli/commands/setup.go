package commands

import (
	"log/slog"

	"github.com/leapstack-labs/leapmigrate/internal/cli/output"
	"github.com/leapstack-labs/leapmigrate/internal/config"
	"github.com/leapstack-labs/leapmigrate/pkg/mutation"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the config and logger stored by the root
// command. Without them (a command run on its own) config is loaded from
// the working directory.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg, ok := config.FromContext(cmd.Context())
	if !ok {
		var err error
		if cfg, err = config.Load("", cmd.Flags()); err != nil {
			return nil, err
		}
	}
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output)),
	}, nil
}

// Builder creates the DDL builder for the configured dialect.
func (c *CommandContext) Builder() (mutation.Builder, error) {
	return mutation.NewBuilder(c.Cfg.Dialect, c.Cfg.MutationOptions())
}
