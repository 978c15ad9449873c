package help_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cmdspec/opencli/internal/convention"
	"github.com/cmdspec/opencli/internal/help"
	"github.com/cmdspec/opencli/internal/schema"
)

func TestRenderIncludesSectionsInOrder(t *testing.T) {
	cmd := &schema.Command{
		Name:     "app",
		Abstract: "does a thing",
		Arguments: []*schema.Argument{
			{
				Kind:  schema.KindOption,
				Names: []convention.Name{convention.NewLong("name", "name", convention.POSIX)},
				Help:  schema.Help{Abstract: "the name to use", Placeholder: "string"},
			},
			{
				Kind:     schema.KindPositional,
				Required: true,
				Help:     schema.Help{Placeholder: "target"},
			},
		},
	}
	cmd.Children = []*schema.Command{{Name: "sub", ShouldDisplay: true, Parent: cmd, Abstract: "a subcommand"}}

	text := help.Render(cmd, help.DefaultOptions)

	assert.Contains(t, text, "OVERVIEW:")
	assert.Contains(t, text, "does a thing")
	assert.Contains(t, text, "USAGE:")
	assert.Contains(t, text, "ARGUMENTS:")
	assert.Contains(t, text, "OPTIONS:")
	assert.Contains(t, text, "--name")
	assert.Contains(t, text, "SUBCOMMANDS:")
	assert.Contains(t, text, "sub")

	overviewIdx := indexOf(text, "OVERVIEW:")
	usageIdx := indexOf(text, "USAGE:")
	argsIdx := indexOf(text, "ARGUMENTS:")
	subsIdx := indexOf(text, "SUBCOMMANDS:")

	assert.True(t, overviewIdx < usageIdx)
	assert.True(t, usageIdx < argsIdx)
	assert.True(t, argsIdx < subsIdx)
}

func TestRenderHidesHiddenArgumentsByDefault(t *testing.T) {
	cmd := &schema.Command{
		Name: "app",
		Arguments: []*schema.Argument{
			{
				Kind:  schema.KindOption,
				Names: []convention.Name{convention.NewLong("secret", "secret", convention.POSIX)},
				Help:  schema.Help{Visibility: schema.VisibleHidden},
			},
		},
	}

	text := help.Render(cmd, help.DefaultOptions)
	assert.NotContains(t, text, "--secret")

	text = help.Render(cmd, help.Options{Hidden: true})
	assert.Contains(t, text, "--secret")
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}

	return -1
}
