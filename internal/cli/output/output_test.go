package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		mode Mode
		tty  bool
		want Mode
	}{
		{ModeAuto, false, ModeText},
		{ModeAuto, true, ModeTable},
		{"", false, ModeText},
		{ModeJSON, true, ModeJSON},
		{ModeMarkdown, false, ModeMarkdown},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, tt.mode)
			r.isTTY = tt.tty
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestBufferIsNotTerminal(t *testing.T) {
	assert.False(t, isTerminal(&bytes.Buffer{}))
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, &buf, ModeTable)
	r.Table([]string{"Op", "SQL"}, [][]string{{"create_namespace", "CREATE SCHEMA `p1`"}})

	out := buf.String()
	assert.Contains(t, out, "OP")
	assert.Contains(t, out, "CREATE SCHEMA `p1`")
	assert.Contains(t, out, "┌")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, &buf, ModeJSON)
	require.NoError(t, r.JSON(map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestMarkdownHelpers(t *testing.T) {
	assert.Equal(t, "## a.yaml", FormatHeader(2, "a.yaml"))
	block := FormatCodeBlock("sql", "SELECT 1;\n")
	assert.True(t, strings.HasPrefix(block, "```sql\n"))
	assert.True(t, strings.HasSuffix(block, "SELECT 1;\n```"))
}

func TestWarnf(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeText)
	r.Warnf("hint: %s", "x")
	assert.Empty(t, out.String())
	assert.Equal(t, "hint: x\n", errOut.String())
}
