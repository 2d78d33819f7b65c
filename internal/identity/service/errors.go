package service

import (
	"context"
	"errors"

	dErrors "geoshell/pkg/domain-errors"
)

// fail passes coded precondition errors through and turns everything else
// into a logged internal failure.
func (s *Service) fail(ctx context.Context, op string, err error) error {
	var de *dErrors.Error
	if errors.As(err, &de) && de.Code != dErrors.CodeInternal {
		return de
	}
	s.logFailure(ctx, op, err)
	if de != nil {
		return de
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+op)
}
