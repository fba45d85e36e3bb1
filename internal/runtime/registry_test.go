package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(context.Context, string, []string) (CommandResult, error) { return Info(""), nil }

func TestNewRegistryRejectsBadSpecs(t *testing.T) {
	_, err := NewRegistry(CommandSpec{Name: "a", Execute: noop}, CommandSpec{Name: "a", Execute: noop})
	assert.ErrorIs(t, err, ErrDuplicateCommand)

	_, err = NewRegistry(CommandSpec{Name: "Help", Execute: noop})
	assert.ErrorIs(t, err, ErrInvalidCommand)

	_, err = NewRegistry(CommandSpec{Name: "two words", Execute: noop})
	assert.ErrorIs(t, err, ErrInvalidCommand)

	_, err = NewRegistry(CommandSpec{Name: "x"})
	assert.ErrorIs(t, err, ErrInvalidCommand)
}

func TestRegistryLookupIsExact(t *testing.T) {
	reg, err := NewRegistry(
		CommandSpec{Name: "help", Execute: noop},
		CommandSpec{Name: "history", Category: CategoryFun, Execute: noop},
	)
	require.NoError(t, err)

	_, ok := reg.Lookup("help")
	assert.True(t, ok)
	_, ok = reg.Lookup("hel")
	assert.False(t, ok)
	_, ok = reg.Lookup("HELP")
	assert.False(t, ok)

	assert.Equal(t, []string{"help", "history"}, reg.Names())
	assert.Equal(t, 2, reg.Len())
	byCat := reg.ByCategory()
	assert.Len(t, byCat[CategoryInfo], 1, "empty category defaults to info")
	assert.Len(t, byCat[CategoryFun], 1)
}
