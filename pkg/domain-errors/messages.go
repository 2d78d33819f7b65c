package domainerrors

import "errors"

// Console texts are part of the shell's compatibility surface; keep them stable.
const (
	MsgExecutionFailed        = "Can not execute the given command."
	MsgExecutionSuccess       = "OK"
	MsgUndefinedCommand       = "Command is undefined. See available options with 'help'."
	MsgNoArguments            = "This command takes no arguments."
	MsgExactArguments         = "Provide exactly %d arguments for this command."
	MsgUsernameExists         = "Username exists."
	MsgNotAuthorized          = "You should sign in with an account to execute this command."
	MsgOtherSignedIn          = "You need to sign out to sign in with another account."
	MsgAlreadySignedIn        = "You are already signed in to the platform."
	MsgSignInFailed           = "Admin id or password is wrong."
	MsgAllSessionsUsed        = "Maximum concurrent sessions reached."
	MsgNoActiveAdmin          = "No admin is currently signed in."
	MsgDowngradeNotAllowed    = "Can only upgrade to higher capacity levels. To downgrade please contact our headquarters."
	MsgSameLevel              = "Can only upgrade to higher capacity levels."
	MsgAmbiguousCity          = "Multiple cities with given name exist - specify country."
	MsgNoEntityFound          = "No geographic entity named with given name found."
	MsgReligionNotFound       = "Given religion name not found in country."
	MsgInsufficientPercentage = "Given religion name has insufficient percentage."
	MsgInvalidPercentage      = "Percentage must be between 0-100."
	MsgSameCountry            = "City already belongs to the given country."
	MsgMissingOccupier        = "Occupying country with given name does not exist."
	MsgNegativePopulation     = "Population must be positive"
)

var userMessages = map[Code]string{
	CodeUnauthorized:           MsgNotAuthorized,
	CodeAlreadyAuthenticated:   MsgAlreadySignedIn,
	CodeSessionLimitReached:    MsgAllSessionsUsed,
	CodeDuplicateIdentity:      MsgUsernameExists,
	CodeInvalidCredentials:     MsgSignInFailed,
	CodeNoActiveAdmin:          MsgNoActiveAdmin,
	CodeLevelNotFound:          MsgExecutionFailed,
	CodeNotFound:               MsgNoEntityFound,
	CodeAmbiguousCity:          MsgAmbiguousCity,
	CodeSameCountry:            MsgSameCountry,
	CodeMissingOccupier:        MsgMissingOccupier,
	CodeReligionNotFound:       MsgReligionNotFound,
	CodeInsufficientPercentage: MsgInsufficientPercentage,
	CodeInvalidPercentage:      MsgInvalidPercentage,
	CodeNegativePopulation:     MsgNegativePopulation,
	CodeDowngradeNotAllowed:    MsgDowngradeNotAllowed,
	CodeSameLevel:              MsgSameLevel,
	CodeInternal:               MsgExecutionFailed,
}

// UserMessage maps an error to the fixed console text for its code.
// Argument errors raised by the shell carry their own text.
func UserMessage(err error) string {
	code := CodeOf(err)
	if code == CodeInvalidArguments || code == CodeAlreadyAuthenticated {
		var de *Error
		if errors.As(err, &de) && de.Message != "" {
			return de.Message
		}
	}
	if msg, ok := userMessages[code]; ok {
		return msg
	}
	return MsgExecutionFailed
}
