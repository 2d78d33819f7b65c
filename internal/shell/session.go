package shell

import (
	idmodels "geoshell/internal/identity/models"
)

const guestPrompt = "GUEST"

// Session is the identity a shell currently acts as. Exactly one of Admin
// and Guest is set while the shell is running; both are nil once it has
// terminated.
type Session struct {
	Admin *idmodels.Administrator
	Guest *idmodels.GuestSession
}

// Prompt returns the text printed before each command.
func (s Session) Prompt() string {
	if s.Admin != nil {
		return s.Admin.ID + " > "
	}
	return guestPrompt + " > "
}

func (s *Session) signedIn(admin *idmodels.Administrator) {
	s.Admin = admin
	s.Guest = nil
}

func (s *Session) signedOut(guest *idmodels.GuestSession) {
	s.Admin = nil
	s.Guest = guest
}

func (s Session) active() bool {
	return s.Admin != nil || s.Guest != nil
}
