//go:generate go run go.uber.org/mock/mockgen -source=profile.go -destination=../mocks/mock_profile_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"keyroom/errors"

	"github.com/dgraph-io/badger/v4"
)

const usernameKey = "profile:username"

type IProfileRepository interface {
	SetUsername(name string) error
	GetUsername() (string, error)
}

type ProfileRepository struct {
	db *badger.DB
}

func NewProfileRepository(db *badger.DB) ProfileRepository {
	return ProfileRepository{db: db}
}

func (p ProfileRepository) SetUsername(name string) error {
	return p.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(usernameKey), []byte(name))
	})
}

// GetUsername returns errors.ErrUsernameNotSet until a name has been chosen.
func (p ProfileRepository) GetUsername() (string, error) {
	var name string
	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(usernameKey))
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return errors.ErrUsernameNotSet
		}
		if err != nil {
			return err
		}
		value, err := item.ValueCopy(nil)
		name = string(value)
		return err
	})
	return name, err
}
