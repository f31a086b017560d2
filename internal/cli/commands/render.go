package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapmigrate/internal/cli/output"
	"github.com/leapstack-labs/leapmigrate/pkg/core"
	"github.com/spf13/cobra"
)

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <file>...",
		Short: "Render request files as DDL",
		Long: `Render the DDL statements for every operation in one or more request files.

Nothing is executed. Steps that read the live schema before writing (such as
dropping the foreign keys of a relation column) are shown as lookup comments.

Output adapts to environment:
  - Terminal: Table
  - Piped/Scripted: Plain SQL`,
		Example: `  # Render a request file
  leapmigrate render migrations/0001_init.yaml

  # Render several files as JSON
  leapmigrate render migrations/*.yaml --output json

  # Use a smaller index prefix
  leapmigrate render migrations/0002_email.yaml --index-prefix-length 100`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args)
		},
	}
	return cmd
}

func runRender(cmd *cobra.Command, paths []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	b, err := cmdCtx.Builder()
	if err != nil {
		return err
	}
	plans, err := buildPlans(cmd.Context(), b, cmdCtx.Logger, paths)
	if err != nil {
		return err
	}
	return writePlans(cmdCtx.Renderer, plans)
}

// StepOutput is one step of a rendered action.
type StepOutput struct {
	SQL    string `json:"sql,omitempty"`
	Lookup string `json:"lookup,omitempty"`
}

// OperationOutput is one rendered operation.
type OperationOutput struct {
	Index int          `json:"index"`
	Op    string       `json:"op"`
	Noop  bool         `json:"noop,omitempty"`
	Steps []StepOutput `json:"steps"`
}

// FileOutput is a rendered request file.
type FileOutput struct {
	File       string            `json:"file"`
	Operations []OperationOutput `json:"operations"`
}

func toFileOutput(p plan) FileOutput {
	out := FileOutput{File: p.Path, Operations: make([]OperationOutput, 0, len(p.Actions))}
	for i, action := range p.Actions {
		op := OperationOutput{Index: i, Op: p.Request.Operations[i].Op(), Noop: action.IsNoop(), Steps: []StepOutput{}}
		for _, s := range action.Steps {
			switch st := s.(type) {
			case core.Statement:
				op.Steps = append(op.Steps, StepOutput{SQL: st.SQL})
			case core.Lookup:
				op.Steps = append(op.Steps, StepOutput{Lookup: strings.Join(strings.Fields(st.Query), " ")})
			}
		}
		out.Operations = append(out.Operations, op)
	}
	return out
}

func writePlans(r *output.Renderer, plans []plan) error {
	files := make([]FileOutput, 0, len(plans))
	for _, p := range plans {
		files = append(files, toFileOutput(p))
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(files)
	case output.ModeTable:
		var rows [][]string
		for _, f := range files {
			for _, op := range f.Operations {
				rows = append(rows, []string{f.File, strconv.Itoa(op.Index), op.Op, stepText(op)})
			}
		}
		r.Table([]string{"File", "#", "Op", "SQL"}, rows)
	case output.ModeMarkdown:
		for i, p := range plans {
			if i > 0 {
				r.Println("")
			}
			r.Println(output.FormatHeader(2, p.Path))
			for j, action := range p.Actions {
				r.Println("")
				r.Println(output.FormatHeader(3, fmt.Sprintf("%d. %s", j, p.Request.Operations[j].Op())))
				r.Println("")
				r.Println(output.FormatCodeBlock("sql", actionText(action)))
			}
		}
	default:
		for _, p := range plans {
			r.Printf("-- %s\n", p.Path)
			for j, action := range p.Actions {
				r.Printf("-- [%d] %s\n", j, p.Request.Operations[j].Op())
				r.Println(actionText(action))
			}
		}
	}
	return nil
}

func actionText(a core.Action) string {
	if a.IsNoop() {
		return "-- no-op"
	}
	return a.String()
}

func stepText(op OperationOutput) string {
	if op.Noop {
		return "(no-op)"
	}
	lines := make([]string, 0, len(op.Steps))
	for _, s := range op.Steps {
		if s.Lookup != "" {
			lines = append(lines, "-- lookup: "+s.Lookup)
			continue
		}
		lines = append(lines, s.SQL+";")
	}
	return strings.Join(lines, "\n")
}
