package services

import (
	"github.com/google/uuid"
	"github.com/rpupo63/inkwell/errs"
)

// Authorize compares the acting identity with the recorded owner of a resource.
// uuid.Nil as actor means nobody is signed in. Callers must check that the
// resource exists before calling, so a missing resource reports not found
// rather than no permission.
func Authorize(actor, owner uuid.UUID, entity string) error {
	if actor == uuid.Nil {
		return errs.NewNotAuthenticatedError("sign in first")
	}
	if actor != owner {
		return errs.NewNotOwnerError(entity)
	}
	return nil
}
