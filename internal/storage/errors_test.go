package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/verlic/zapcentral/internal/storage/postgres"
	"github.com/verlic/zapcentral/internal/storage/sqlite"
)

// Os drivers devolvem o mesmo sentinela exposto aqui; se cada um
// declarasse o seu, os handlers jamais mapeariam 404.
func TestDriverNotFoundMatchesSentinel(t *testing.T) {
	if !errors.Is(sqlite.ErrNotFound, ErrNotFound) {
		t.Error("sqlite.ErrNotFound não satisfaz storage.ErrNotFound")
	}
	if !errors.Is(postgres.ErrNotFound, ErrNotFound) {
		t.Error("postgres.ErrNotFound não satisfaz storage.ErrNotFound")
	}

	wrapped := fmt.Errorf("instância: %w", sqlite.ErrNotFound)
	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("erro embrulhado não satisfaz storage.ErrNotFound")
	}
}
