// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"gamecatalog/internal/domain/entity"
)

// ErrGameNotFound is returned when no cached record exists for an id.
var ErrGameNotFound = errors.New("game not found")

// GameRepository stores cached game records. Only the record cache writes to it.
type GameRepository interface {
	// FindByID retrieves a cached game by its upstream id.
	FindByID(ctx context.Context, id int64) (*entity.Game, error)

	// Upsert inserts the game or overwrites every column of an existing row with the same id.
	Upsert(ctx context.Context, game *entity.Game) error
}
