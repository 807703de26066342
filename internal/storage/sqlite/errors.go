package sqlite

import (
	"database/sql"
	"errors"

	"github.com/verlic/zapcentral/internal/storage/model"
)

// ErrNotFound é o mesmo sentinela exposto como storage.ErrNotFound,
// para que errors.Is funcione nos chamadores independente do driver.
var ErrNotFound = model.ErrNotFound

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
