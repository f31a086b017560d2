package commands

import (
	"strings"

	"github.com/leapstack-labs/leapmigrate/internal/cli/output"
	"github.com/leapstack-labs/leapmigrate/pkg/adapter"
	"github.com/leapstack-labs/leapmigrate/pkg/dialect"
	"github.com/leapstack-labs/leapmigrate/pkg/mutation"
	"github.com/spf13/cobra"
)

// DialectInfo describes a registered dialect.
type DialectInfo struct {
	Name          string `json:"name"`
	Builder       bool   `json:"builder"`
	Adapter       bool   `json:"adapter"`
	MaxIdentifier int    `json:"max_identifier_length,omitempty"`
	Placeholder   string `json:"placeholder,omitempty"`
	Normalization string `json:"normalization,omitempty"`
}

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List supported dialects and database adapters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			return writeDialects(cmdCtx.Renderer, listDialects())
		},
	}
}

func listDialects() []DialectInfo {
	builders := make(map[string]bool)
	for _, name := range mutation.List() {
		builders[name] = true
	}
	adapters := make(map[string]bool)
	for _, name := range adapter.ListAdapters() {
		adapters[name] = true
	}

	var infos []DialectInfo
	for _, name := range dialect.List() {
		info := DialectInfo{Name: name, Builder: builders[name], Adapter: adapters[name]}
		if d, ok := dialect.Get(name); ok {
			info.MaxIdentifier = d.Identifiers.MaxLength
			info.Placeholder = d.FormatPlaceholder(1)
			info.Normalization = d.Identifiers.Normalization.String()
		}
		infos = append(infos, info)
	}
	return infos
}

func writeDialects(r *output.Renderer, infos []DialectInfo) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(infos)
	case output.ModeTable:
		rows := make([][]string, 0, len(infos))
		for _, d := range infos {
			rows = append(rows, []string{d.Name, yesNo(d.Builder), yesNo(d.Adapter), d.Placeholder, d.Normalization})
		}
		r.Table([]string{"Dialect", "Builder", "Adapter", "Placeholder", "Normalization"}, rows)
	default:
		for _, d := range infos {
			var caps []string
			if d.Builder {
				caps = append(caps, "builder")
			}
			if d.Adapter {
				caps = append(caps, "adapter")
			}
			r.Printf("%s\t%s\t%s\t%s\n", d.Name, strings.Join(caps, ","), d.Placeholder, d.Normalization)
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
