package run_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmdspec/opencli/internal/engine"
	"github.com/cmdspec/opencli/internal/run"
)

type subCmd struct{}

func (c *subCmd) Execute([]string) error { return nil }

type compileRootCmd struct {
	Sub subCmd `command:"sub" desc:"a subcommand"`
}

func TestCompileMirrorsSchemaTree(t *testing.T) {
	prog, err := run.Command(&compileRootCmd{})
	require.NoError(t, err)

	root := run.Compile(prog, engine.RunOptions{})

	require.NotNil(t, root)
	assert.True(t, root.DisableFlagParsing, "cobra must never parse flags itself; the matcher owns that")
	require.NotNil(t, root.RunE)

	children := root.Commands()
	require.Len(t, children, 1)
	assert.Equal(t, "sub", children[0].Use)
	assert.True(t, children[0].DisableFlagParsing)
	require.NotNil(t, children[0].RunE)
}
