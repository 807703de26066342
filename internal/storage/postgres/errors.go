package postgres

import "github.com/verlic/zapcentral/internal/storage/model"

// ErrNotFound é o mesmo sentinela exposto como storage.ErrNotFound,
// para que errors.Is funcione nos chamadores independente do driver.
var ErrNotFound = model.ErrNotFound
