package describe_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmdspec/opencli/internal/convention"
	"github.com/cmdspec/opencli/internal/describe"
	"github.com/cmdspec/opencli/internal/schema"
)

func TestJSONRoundTripsCommandShape(t *testing.T) {
	cmd := &schema.Command{
		Name: "app",
		Arguments: []*schema.Argument{
			{
				Kind:     schema.KindOption,
				Names:    []convention.Name{convention.NewLong("output", "output", convention.POSIX)},
				Arity:    schema.Variadic,
				Strategy: schema.UpToNextOption,
				Completion: schema.CompletionHint{
					Kind:       schema.CompletionFile,
					Extensions: []string{"yaml"},
				},
			},
		},
		Children: []*schema.Command{
			{Name: "sub", ShouldDisplay: true},
		},
	}

	raw, err := describe.JSON(cmd)
	require.NoError(t, err)

	var doc describe.Document
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.Equal(t, describe.DocumentVersion, doc.Version)
	require.NotNil(t, doc.Command)
	assert.Equal(t, "app", doc.Command.Name)
	require.Len(t, doc.Command.Arguments, 1)
	assert.Equal(t, "option", doc.Command.Arguments[0].Kind)
	assert.True(t, doc.Command.Arguments[0].Variadic)
	assert.True(t, doc.Command.Arguments[0].SwiftArgumentParserFile)
	require.Len(t, doc.Command.Children, 1)
	assert.Equal(t, "sub", doc.Command.Children[0].Name)
}
