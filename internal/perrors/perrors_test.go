package perrors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cmdspec/opencli/internal/perrors"
)

func TestMatchErrorUnwrapsToSentinel(t *testing.T) {
	err := perrors.NewMatch("app", "--bogus", "unknown option")
	assert.True(t, errors.Is(err, perrors.ErrMatch))
	assert.Equal(t, `unknown option: "--bogus"`, err.Error())
}

func TestMatchErrorWithoutTokenOmitsQuotes(t *testing.T) {
	err := perrors.NewMatch("app", "", "missing required argument")
	assert.Equal(t, "missing required argument", err.Error())
}

func TestDecodeErrorUnwrapsToSentinel(t *testing.T) {
	err := perrors.NewDecode("--port", "int", "nope", "invalid integer")
	assert.True(t, errors.Is(err, perrors.ErrDecode))
	assert.Equal(t, `--port: invalid value "nope": invalid integer`, err.Error())
}

func TestSchemaErrorFormatsWithAndWithoutCommand(t *testing.T) {
	withCmd := perrors.NewSchema("app", "duplicate name")
	assert.Equal(t, `schema error in "app": duplicate name`, withCmd.Error())
	assert.True(t, errors.Is(withCmd, perrors.ErrSchema))

	bare := perrors.NewSchema("", "duplicate name")
	assert.Equal(t, "schema error: duplicate name", bare.Error())
}

func TestValidationAndDomainErrorsUnwrap(t *testing.T) {
	v := perrors.NewValidation("must be positive")
	assert.True(t, errors.Is(v, perrors.ErrValidation))
	assert.Equal(t, "must be positive", v.Error())

	d := perrors.NewDomain("disk full")
	assert.True(t, errors.Is(d, perrors.ErrDomain))
	assert.Equal(t, "disk full", d.Error())
}

func TestCleanExitAndSilentExit(t *testing.T) {
	clean := perrors.CleanExit("usage: app [options]")
	assert.Equal(t, perrors.ExitClean, clean.Kind)
	assert.Equal(t, 0, clean.Code)
	assert.Equal(t, "usage: app [options]", clean.Error())

	silent := perrors.SilentExit(perrors.ExitUsage)
	assert.Equal(t, perrors.ExitSilent, silent.Kind)
	assert.Equal(t, perrors.ExitUsage, silent.Code)
	assert.Equal(t, "exit(64)", silent.Error())
}

func TestExitCodesMatchSpec(t *testing.T) {
	assert.Equal(t, 0, perrors.ExitSuccess)
	assert.Equal(t, 64, perrors.ExitUsage)
	assert.Equal(t, 1, perrors.ExitFailure)
}
