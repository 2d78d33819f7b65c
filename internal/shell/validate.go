package shell

import (
	"fmt"

	dErrors "geoshell/pkg/domain-errors"
)

// Validators check arity and session state before a command reaches a
// service. tokens includes the command name.

func exactArgs(n int) error {
	return dErrors.New(dErrors.CodeInvalidArguments, fmt.Sprintf(dErrors.MsgExactArguments, n))
}

func noArgs() error {
	return dErrors.New(dErrors.CodeInvalidArguments, dErrors.MsgNoArguments)
}

func validateSignUp(session *Session, tokens []string) error {
	if len(tokens) != 4 {
		return exactArgs(3)
	}
	if session.Admin != nil {
		return dErrors.New(dErrors.CodeAlreadyAuthenticated, dErrors.MsgAlreadySignedIn)
	}
	return nil
}

func validateSignIn(session *Session, tokens []string) error {
	if len(tokens) != 3 {
		return exactArgs(2)
	}
	if session.Admin == nil {
		return nil
	}
	if session.Admin.ID == tokens[1] {
		return dErrors.New(dErrors.CodeAlreadyAuthenticated, dErrors.MsgAlreadySignedIn)
	}
	return dErrors.New(dErrors.CodeAlreadyAuthenticated, dErrors.MsgOtherSignedIn)
}

// validateSignOut lets a signed-in administrator through regardless of
// trailing arguments.
func validateSignOut(session *Session, tokens []string) error {
	switch {
	case session.Admin != nil:
		return nil
	case len(tokens) == 1:
		return dErrors.New(dErrors.CodeUnauthorized, "sign in required")
	default:
		return noArgs()
	}
}

func validateQuit(_ *Session, tokens []string) error {
	if len(tokens) != 1 {
		return noArgs()
	}
	return nil
}

func validateChangeLevel(_ *Session, tokens []string) error {
	if len(tokens) != 2 {
		return exactArgs(1)
	}
	return nil
}

// The optional country argument is counted in the advertised arity.
func validateGetStatistics(_ *Session, tokens []string) error {
	if len(tokens) != 2 && len(tokens) != 3 {
		return exactArgs(2)
	}
	return nil
}

func validateUpdateReligion(_ *Session, tokens []string) error {
	if len(tokens) != 5 {
		return exactArgs(4)
	}
	return nil
}

func validateTransferCity(_ *Session, tokens []string) error {
	if len(tokens) != 4 {
		return exactArgs(3)
	}
	return nil
}

func validateAdjustPopulation(_ *Session, tokens []string) error {
	if len(tokens) != 3 && len(tokens) != 4 {
		return exactArgs(3)
	}
	return nil
}

func validateNothing(*Session, []string) error { return nil }
