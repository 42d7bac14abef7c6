// Package reconcile applies client-side edit records to a persisted
// child collection (stages under a board, subtasks under a task).
package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidID signals a record carrying a malformed identifier. It is
// surfaced to the client as 422 and rolls back the whole request
// transaction.
var ErrInvalidID = errors.New("invalid record identifier")

type Kind uint8

const (
	// KindNone is a record that requests no change and is left untouched.
	KindNone Kind = iota
	KindNew
	KindUpdated
	KindDeleted
)

// Classify collapses the legacy flag scheme (optional id, is_new,
// markedForDeletion) into the closed edit union. A record created
// locally by the client has no identifier yet, so a missing id also
// counts as new. A deletion marker without an id cannot address a row
// and yields KindNone.
func Classify(id string, isNew, markedForDeletion bool) Kind {
	switch {
	case markedForDeletion && id != "":
		return KindDeleted
	case markedForDeletion:
		return KindNone
	case isNew || id == "":
		return KindNew
	default:
		return KindUpdated
	}
}

type Edit[T any] struct {
	Kind   Kind
	ID     string
	Fields T
}

// Store persists classified edits under one fixed parent. Update and
// Delete must silently no-op when the id does not resolve to a row of
// that parent.
type Store[T any] interface {
	Insert(ctx context.Context, fields T) error
	Update(ctx context.Context, id string, fields T) error
	Delete(ctx context.Context, id string) error
}

// Apply walks the edit list once, in the order given. The four checks
// per record run independently and in fixed order: insert, identifier
// validation, delete, update. Records the client did not touch pass
// through without a write beyond the idempotent update of their own
// field data.
func Apply[T any](ctx context.Context, edits []Edit[T], store Store[T]) error {
	for _, e := range edits {
		if e.Kind == KindNew {
			if err := store.Insert(ctx, e.Fields); err != nil {
				return err
			}
		}

		if e.ID != "" {
			if _, err := uuid.Parse(e.ID); err != nil {
				return fmt.Errorf("%w: %q", ErrInvalidID, e.ID)
			}
		}

		if e.Kind == KindDeleted {
			if err := store.Delete(ctx, e.ID); err != nil {
				return err
			}
		}

		if e.Kind == KindUpdated {
			if err := store.Update(ctx, e.ID, e.Fields); err != nil {
				return err
			}
		}
	}
	return nil
}
