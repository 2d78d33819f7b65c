package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"

	idmodels "geoshell/internal/identity/models"
	dErrors "geoshell/pkg/domain-errors"
)

func TestValidators(t *testing.T) {
	guest := &Session{Guest: idmodels.NewGuestSession(10)}
	admin := &Session{Admin: &idmodels.Administrator{ID: "alice", LevelID: 1}}

	tests := []struct {
		name     string
		validate func(*Session, []string) error
		session  *Session
		tokens   []string
		want     string
	}{
		{"sign_up arity", validateSignUp, guest, []string{"sign_up", "bob"}, "Provide exactly 3 arguments for this command."},
		{"sign_up while signed in", validateSignUp, admin, []string{"sign_up", "bob", "pw", "1"}, dErrors.MsgAlreadySignedIn},
		{"sign_in arity", validateSignIn, guest, []string{"sign_in"}, "Provide exactly 2 arguments for this command."},
		{"sign_in same admin", validateSignIn, admin, []string{"sign_in", "alice", "pw"}, dErrors.MsgAlreadySignedIn},
		{"sign_in other admin", validateSignIn, admin, []string{"sign_in", "bob", "pw"}, dErrors.MsgOtherSignedIn},
		{"sign_out as guest", validateSignOut, guest, []string{"sign_out"}, dErrors.MsgNotAuthorized},
		{"sign_out as guest with args", validateSignOut, guest, []string{"sign_out", "now"}, dErrors.MsgNoArguments},
		{"quit with args", validateQuit, guest, []string{"quit", "now"}, dErrors.MsgNoArguments},
		{"change_level arity", validateChangeLevel, admin, []string{"change_level"}, "Provide exactly 1 arguments for this command."},
		{"get_statistics arity", validateGetStatistics, guest, []string{"get_statistics", "a", "b", "c"}, "Provide exactly 2 arguments for this command."},
		{"update_religion arity", validateUpdateReligion, admin, []string{"update_religion", "a", "b", "c"}, "Provide exactly 4 arguments for this command."},
		{"transfer_city arity", validateTransferCity, admin, []string{"transfer_city", "a", "b"}, "Provide exactly 3 arguments for this command."},
		{"adjust_population arity", validateAdjustPopulation, admin, []string{"adjust_population", "a"}, "Provide exactly 3 arguments for this command."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.validate(tt.session, tt.tokens)
			assert.Error(t, err)
			assert.Equal(t, tt.want, dErrors.UserMessage(err))
		})
	}
}

func TestValidatorsAccept(t *testing.T) {
	guest := &Session{Guest: idmodels.NewGuestSession(10)}
	admin := &Session{Admin: &idmodels.Administrator{ID: "alice", LevelID: 1}}

	assert.NoError(t, validateSignUp(guest, []string{"sign_up", "bob", "pw", "1"}))
	assert.NoError(t, validateSignIn(guest, []string{"sign_in", "bob", "pw"}))
	assert.NoError(t, validateSignOut(admin, []string{"sign_out", "ignored"}))
	assert.NoError(t, validateQuit(admin, []string{"quit"}))
	assert.NoError(t, validateGetStatistics(guest, []string{"get_statistics", "Paris"}))
	assert.NoError(t, validateGetStatistics(guest, []string{"get_statistics", "Paris", "France"}))
	assert.NoError(t, validateAdjustPopulation(admin, []string{"adjust_population", "Paris", "1"}))
	assert.NoError(t, validateAdjustPopulation(admin, []string{"adjust_population", "Paris", "France", "1"}))
}

func TestPrompt(t *testing.T) {
	s := &Session{Guest: idmodels.NewGuestSession(10)}
	assert.Equal(t, "GUEST > ", s.Prompt())
	s.signedIn(&idmodels.Administrator{ID: "alice"})
	assert.Equal(t, "alice > ", s.Prompt())
	assert.Nil(t, s.Guest)

	// Shell.Session hands out copies; they keep answering for the identity
	// they were taken from.
	copied := *s
	s.signedOut(idmodels.NewGuestSession(10))
	assert.Equal(t, "alice > ", copied.Prompt())
	assert.True(t, copied.active())
	assert.Equal(t, "GUEST > ", s.Prompt())
	assert.False(t, Session{}.active())
}
