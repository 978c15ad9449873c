package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmdspec/opencli/internal/convention"
	"github.com/cmdspec/opencli/internal/lexer"
)

func TestLexPOSIX(t *testing.T) {
	elements, err := lexer.Lex(
		[]string{"--name=value", "-xvfile", "positional", "--", "--not-an-option"},
		convention.POSIX,
	)
	require.NoError(t, err)
	require.Len(t, elements, 5)

	assert.Equal(t, lexer.KindLongOption, elements[0].Kind)
	assert.Equal(t, "name", elements[0].Name)
	assert.True(t, elements[0].HasAttached)
	assert.Equal(t, "value", elements[0].AttachedValue)

	assert.Equal(t, lexer.KindShortOptionBundle, elements[1].Kind)
	assert.Equal(t, "x", elements[1].Name)
	assert.Equal(t, "vfile", elements[1].Trailing)

	assert.Equal(t, lexer.KindValue, elements[2].Kind)
	assert.Equal(t, "positional", elements[2].Raw)

	assert.Equal(t, lexer.KindTerminator, elements[3].Kind)

	assert.Equal(t, lexer.KindValue, elements[4].Kind, "elements after -- are values regardless of shape")
	assert.Equal(t, "--not-an-option", elements[4].Raw)
}

func TestLexEmptyLongOptionErrors(t *testing.T) {
	_, err := lexer.Lex([]string{"--"}, convention.POSIX)
	assert.NoError(t, err, "bare terminator is not an empty long option")

	_, err = lexer.Lex([]string{"--="}, convention.POSIX)
	assert.Error(t, err)
}

func TestLexNegativeNumberBundle(t *testing.T) {
	elements, err := lexer.Lex([]string{"-42"}, convention.POSIX)
	require.NoError(t, err)
	require.Len(t, elements, 1)
	assert.Equal(t, lexer.KindShortOptionBundle, elements[0].Kind, "ambiguity deferred to the matcher")
}

func TestIsHelpRequest(t *testing.T) {
	helpNames := []convention.Name{
		convention.NewLong("help", "help", convention.POSIX),
		convention.NewShort("h", convention.POSIX),
	}

	elements, err := lexer.Lex([]string{"--help", "-h", "--verbose"}, convention.POSIX)
	require.NoError(t, err)

	assert.True(t, lexer.IsHelpRequest(elements[0], helpNames))
	assert.True(t, lexer.IsHelpRequest(elements[1], helpNames))
	assert.False(t, lexer.IsHelpRequest(elements[2], helpNames))
}
