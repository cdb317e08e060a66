package services

import (
	"errors"

	"github.com/ahmed7gendy/hr-edecs/internal/apperror"
	"github.com/ahmed7gendy/hr-edecs/internal/store"
	"github.com/ahmed7gendy/hr-edecs/internal/validation"
)

// lookupErr maps a point-lookup failure, turning a missing document into a
// not-found error naming entity and id.
func lookupErr(err error, entity, id, op string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperror.NotFound(entity, id)
	}
	return apperror.FromStore(err, op)
}

// invalid converts validator output into an error, or nil when errs is empty.
func invalid(errs validation.Errors) error {
	if errs.Valid() {
		return nil
	}
	return apperror.Validation(errs)
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

func conflict(message string) error {
	return apperror.Wrap(store.ErrDuplicate, apperror.KindDatabase, message)
}
