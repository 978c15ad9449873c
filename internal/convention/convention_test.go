package convention_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cmdspec/opencli/internal/convention"
)

func TestDerivePOSIXKebabCase(t *testing.T) {
	assert.Equal(t, "full-name", convention.POSIX.Derive("FullName"))
	assert.Equal(t, "max-retries", convention.POSIX.Derive("MaxRetries"))
}

func TestDeriveDOSPascalCase(t *testing.T) {
	assert.Equal(t, "FullName", convention.DOS.Derive("FullName"))
	assert.Equal(t, "MaxRetries", convention.DOS.Derive("MaxRetries"))
}

func TestPrefixesDifferByConvention(t *testing.T) {
	assert.Equal(t, "--", convention.POSIX.LongPrefix())
	assert.Equal(t, "-", convention.POSIX.ShortPrefix())
	assert.Equal(t, "/", convention.DOS.LongPrefix())
	assert.Equal(t, "+", convention.DOS.ShortPrefix())
}

func TestNameRenderByKind(t *testing.T) {
	long := convention.NewLong("FullName", "", convention.POSIX)
	assert.Equal(t, "--full-name", long.Render())

	short := convention.NewShort("f", convention.POSIX)
	assert.Equal(t, "-f", short.Render())

	dosLong := convention.NewLong("FullName", "", convention.DOS)
	assert.Equal(t, "/FullName", dosLong.Render())
}

func TestNameIdentityIgnoresPrefixAndConvention(t *testing.T) {
	a := convention.Name{Kind: convention.Long, Spelling: "--verbose", Convention: convention.POSIX}
	b := convention.Name{Kind: convention.Long, Spelling: "verbose", Convention: convention.DOS}

	assert.Equal(t, a.Identity(), b.Identity())
}

func TestDefaultConventionRoundTrips(t *testing.T) {
	orig := convention.Default()
	defer convention.SetDefault(orig)

	convention.SetDefault(convention.DOS)
	assert.Equal(t, convention.DOS, convention.Default())

	convention.SetDefault(convention.POSIX)
	assert.Equal(t, convention.POSIX, convention.Default())
}
