package commands

import (
	"strings"

	"github.com/leapstack-labs/leapmigrate/internal/cli/output"
	"github.com/leapstack-labs/leapmigrate/pkg/mutation"
	"github.com/spf13/cobra"
)

// BuildInfo is the version metadata stamped in at build time.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

// VersionInfo is the version report, including the DDL policy the
// configured builder renders with.
type VersionInfo struct {
	Version           string   `json:"version"`
	Commit            string   `json:"commit"`
	BuildDate         string   `json:"build_date"`
	Dialect           string   `json:"dialect"`
	Builders          []string `json:"builders"`
	IndexPrefixLength int      `json:"index_prefix_length"`
	Charset           string   `json:"charset"`
	Collation         string   `json:"collation"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(build BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display LeapMigrate version and build information, along with the
dialect and index prefix length statements are rendered with.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			b, err := cmdCtx.Builder()
			if err != nil {
				return err
			}
			opts := b.Options()
			return writeVersion(cmdCtx.Renderer, VersionInfo{
				Version:           build.Version,
				Commit:            build.Commit,
				BuildDate:         build.BuildDate,
				Dialect:           b.Dialect().Name,
				Builders:          mutation.List(),
				IndexPrefixLength: opts.IndexPrefixLength,
				Charset:           opts.Charset,
				Collation:         opts.Collation,
			})
		},
	}
}

func writeVersion(r *output.Renderer, info VersionInfo) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(info)
	}
	r.Printf("LeapMigrate v%s (commit %s, built %s)\n", info.Version, info.Commit, info.BuildDate)
	r.Printf("dialect: %s (builders: %s)\n", info.Dialect, strings.Join(info.Builders, ", "))
	r.Printf("index prefix length: %d\n", info.IndexPrefixLength)
	r.Printf("charset: %s %s\n", info.Charset, info.Collation)
	return nil
}
