package shell

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	geomodels "geoshell/internal/geo/models"
	idmodels "geoshell/internal/identity/models"
	"geoshell/internal/platform/metrics"
	"geoshell/internal/reporting"
	dErrors "geoshell/pkg/domain-errors"
	"geoshell/pkg/requestcontext"
)

// Identity defines the identity operations the shell drives.
type Identity interface {
	OpenGuestSession(ctx context.Context) (*idmodels.GuestSession, error)
	Register(ctx context.Context, adminID, secret, levelID string) error
	Authenticate(ctx context.Context, guest *idmodels.GuestSession, adminID, secret string) (*idmodels.Administrator, error)
	EndSession(ctx context.Context, admin *idmodels.Administrator) (*idmodels.GuestSession, error)
	Terminate(ctx context.Context, admin *idmodels.Administrator, guest *idmodels.GuestSession) error
	ListLevels(ctx context.Context) ([]*idmodels.AccessLevel, error)
	LevelOf(ctx context.Context, admin *idmodels.Administrator) (*idmodels.AccessLevel, error)
	ChangeLevel(ctx context.Context, admin *idmodels.Administrator, newLevelID string) (*idmodels.Administrator, error)
}

// Geo defines the mutations available to administrators.
type Geo interface {
	RebalanceReligion(ctx context.Context, admin *idmodels.Administrator, countryName, fromName, toName, points string) (*geomodels.RebalanceResult, error)
	TransferCity(ctx context.Context, admin *idmodels.Administrator, cityName, fromCountry, toCountry string) (*geomodels.TransferResult, error)
	AdjustPopulation(ctx context.Context, admin *idmodels.Administrator, name, countryName, population string) (*geomodels.PopulationTarget, error)
}

// Reporting answers describe queries.
type Reporting interface {
	Describe(ctx context.Context, guest *idmodels.GuestSession, name, countryName string) (*reporting.Table, error)
}

type command struct {
	validate func(*Session, []string) error
	run      func(ctx context.Context, tokens []string) error
}

// Shell routes command lines to the services and prints their results. It
// is not safe for concurrent use; each shell owns one session.
type Shell struct {
	identity  Identity
	geo       Geo
	reporting Reporting
	out       io.Writer
	logger    *slog.Logger
	metrics   *metrics.Metrics
	session   Session
	commands  map[string]command
	done      bool
}

type Option func(*Shell)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Shell) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Shell) {
		s.metrics = m
	}
}

func New(identity Identity, geo Geo, reports Reporting, out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		identity:  identity,
		geo:       geo,
		reporting: reports,
		out:       out,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.commands = map[string]command{
		"help":              {validateNothing, s.help},
		"sign_up":           {validateSignUp, s.signUp},
		"sign_in":           {validateSignIn, s.signIn},
		"sign_out":          {validateSignOut, s.signOut},
		"quit":              {validateQuit, s.quit},
		"show_levels":       {validateNothing, s.showLevels},
		"show_my_level":     {validateNothing, s.showMyLevel},
		"change_level":      {validateChangeLevel, s.changeLevel},
		"get_statistics":    {validateGetStatistics, s.getStatistics},
		"update_religion":   {validateUpdateReligion, s.updateReligion},
		"transfer_city":     {validateTransferCity, s.transferCity},
		"adjust_population": {validateAdjustPopulation, s.adjustPopulation},
	}
	return s
}

// Session exposes the current identity.
func (s *Shell) Session() Session {
	return s.session
}

// Done reports whether quit has completed.
func (s *Shell) Done() bool {
	return s.done
}

// Start opens the guest session the shell begins with and prints the help.
func (s *Shell) Start(ctx context.Context) error {
	guest, err := s.identity.OpenGuestSession(ctx)
	if err != nil {
		return fmt.Errorf("open guest session: %w", err)
	}
	s.session.signedOut(guest)
	s.printHelp()
	return nil
}

// Close releases whatever the session still holds: the administrator's
// session slot or the guest row. It is a no-op after quit.
func (s *Shell) Close(ctx context.Context) error {
	if !s.session.active() {
		return nil
	}
	if err := s.identity.Terminate(ctx, s.session.Admin, s.session.Guest); err != nil {
		return fmt.Errorf("terminate session: %w", err)
	}
	s.session = Session{}
	return nil
}

// Execute runs one command line. Blank lines are ignored.
func (s *Shell) Execute(ctx context.Context, line string) {
	tokens := Tokenize(line)
	if len(tokens) == 0 {
		return
	}
	name := tokens[0]
	cmd, ok := s.commands[name]
	if !ok {
		s.printError(dErrors.New(dErrors.CodeInvalidArguments, dErrors.MsgUndefinedCommand))
		return
	}

	ctx = requestcontext.WithCommand(ctx, name, uuid.NewString())
	start := time.Now()
	outcome := "ok"
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "panic recovered",
				"command", name,
				"command_id", requestcontext.CommandID(ctx),
				"panic", r,
			)
			s.printError(dErrors.New(dErrors.CodeInternal, "panic"))
			outcome = string(dErrors.CodeInternal)
		}
		if s.metrics != nil {
			s.metrics.ObserveCommand(name, outcome, start)
		}
	}()

	err := cmd.validate(&s.session, tokens)
	if err == nil {
		err = cmd.run(ctx, tokens)
	}
	if err != nil {
		outcome = string(dErrors.CodeOf(err))
		s.logger.DebugContext(ctx, "command refused",
			"command", name,
			"command_id", requestcontext.CommandID(ctx),
			"code", outcome,
		)
		s.printError(err)
		return
	}
	if name != "help" && name != "quit" {
		s.println(dErrors.MsgExecutionSuccess)
	}
}
