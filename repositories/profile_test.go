package repositories

import (
	"keyroom/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProfileRepository_Username(t *testing.T) {
	req := require.New(t)
	repository := NewProfileRepository(openDB(t))

	_, err := repository.GetUsername()
	req.ErrorIs(err, errors.ErrUsernameNotSet)

	req.NoError(repository.SetUsername("Alice"))
	req.NoError(repository.SetUsername("Bob"))

	name, err := repository.GetUsername()
	req.NoError(err)
	req.Equal("Bob", name)
}
