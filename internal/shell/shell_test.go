package shell_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"geoshell/internal/app"
	"geoshell/internal/platform/config"
	"geoshell/internal/platform/logger"
	"geoshell/internal/platform/metrics"
	"geoshell/internal/shell"
	"geoshell/internal/storage"
	tu "geoshell/pkg/testutil"
)

type ShellSuite struct {
	suite.Suite
	app   *app.App
	out   *bytes.Buffer
	shell *shell.Shell
	ctx   context.Context
}

func TestShellSuite(t *testing.T) {
	suite.Run(t, new(ShellSuite))
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Database.Driver = "memory"
	cfg.Secrets.BcryptCost = bcrypt.MinCost
	return cfg
}

func (s *ShellSuite) SetupTest() {
	s.ctx = context.Background()
	s.app = app.NewMemory(testConfig(), tu.Mondial(), logger.Discard(), metrics.New())
	s.out = &bytes.Buffer{}
	s.shell = s.app.Shell(s.out)
	s.Require().NoError(s.shell.Start(s.ctx))
	s.out.Reset()
}

// run executes line and returns what it printed.
func (s *ShellSuite) run(line string) string {
	s.out.Reset()
	s.shell.Execute(s.ctx, line)
	return s.out.String()
}

func (s *ShellSuite) tables() storage.Tables {
	return s.app.Memory.Snapshot()
}

func (s *ShellSuite) signedIn(id string) {
	s.Require().Equal("OK\n", s.run("sign_up "+id+" secret 1"))
	s.Require().Equal("OK\n", s.run("sign_in "+id+" secret"))
}

// =============================================================================
// Routing
// =============================================================================

func (s *ShellSuite) TestStartOpensGuestAndPrintsHelp() {
	out := &bytes.Buffer{}
	sh := s.app.Shell(out)
	s.Require().NoError(sh.Start(s.ctx))

	s.Contains(out.String(), "*** Geographic Information System ***")
	s.Contains(out.String(), "> adjust_population <name> [<country_name>] <new_population>")
	s.Len(s.tables().Users, 2, "one guest per started shell")
	s.Equal("GUEST > ", sh.Session().Prompt())
}

func (s *ShellSuite) TestUnknownAndBlankLines() {
	s.Equal("ERROR: Command is undefined. See available options with 'help'.\n", s.run("teleport Paris"))
	s.Empty(s.run("   "))
}

func (s *ShellSuite) TestArgumentErrorsNeverReachServices() {
	s.Equal("ERROR: Provide exactly 3 arguments for this command.\n", s.run("sign_up alice"))
	s.Equal("ERROR: You should sign in with an account to execute this command.\n", s.run("sign_out"))
	s.Equal("ERROR: This command takes no arguments.\n", s.run("sign_out please"))
	s.Empty(s.tables().Administrators)
}

func (s *ShellSuite) TestMetricsCountOutcomes() {
	s.run("get_statistics Europe")
	s.run("transfer_city Paris France Monaco")

	m := s.app.Metrics
	s.Equal(1.0, testutil.ToFloat64(m.CommandsTotal.WithLabelValues("get_statistics", "ok")))
	s.Equal(1.0, testutil.ToFloat64(m.CommandsTotal.WithLabelValues("transfer_city", "unauthorized")))
}

// =============================================================================
// Identity commands
// =============================================================================

func (s *ShellSuite) TestSignInLifecycle() {
	s.signedIn("alice")
	s.Equal("alice > ", s.shell.Session().Prompt())
	s.Len(s.tables().Users, 0, "the guest row is gone once an admin signs in")

	s.Equal("ERROR: You are already signed in to the platform.\n", s.run("sign_in alice secret"))
	s.Equal("ERROR: You need to sign out to sign in with another account.\n", s.run("sign_in bob secret"))
	s.Equal("ERROR: You are already signed in to the platform.\n", s.run("sign_up bob secret 1"))

	s.Equal("ID|Level Name|Max Sessions\n1|Basic|2\nOK\n", s.run("show_my_level"))

	s.Equal("OK\n", s.run("sign_out"))
	s.Equal("GUEST > ", s.shell.Session().Prompt())
	s.Len(s.tables().Users, 1)
	s.Zero(s.tables().Administrators[0].SessionCount)
}

func (s *ShellSuite) TestSignInFailures() {
	s.Require().Equal("OK\n", s.run("sign_up alice secret 1"))
	s.Equal("ERROR: Username exists.\n", s.run("sign_up alice other 2"))
	s.Equal("ERROR: Admin id or password is wrong.\n", s.run("sign_in alice wrong"))
	s.Equal("ERROR: Admin id or password is wrong.\n", s.run("sign_in nobody secret"))
	s.Equal("ERROR: Can not execute the given command.\n", s.run("sign_up bob secret 9"))
	s.Equal("GUEST > ", s.shell.Session().Prompt())
}

func (s *ShellSuite) TestSessionCapAcrossShells() {
	s.Require().Equal("OK\n", s.run("sign_up alice secret 1"))

	var shells []*shell.Shell
	for range 2 {
		sh := s.app.Shell(&bytes.Buffer{})
		s.Require().NoError(sh.Start(s.ctx))
		shells = append(shells, sh)
	}
	out := &bytes.Buffer{}
	third := s.app.Shell(out)
	s.Require().NoError(third.Start(s.ctx))

	shells[0].Execute(s.ctx, "sign_in alice secret")
	shells[1].Execute(s.ctx, "sign_in alice secret")
	out.Reset()
	third.Execute(s.ctx, "sign_in alice secret")
	s.Equal("ERROR: Maximum concurrent sessions reached.\n", out.String())
	s.Equal("GUEST > ", third.Session().Prompt())

	s.Require().NoError(shells[0].Close(s.ctx))
	out.Reset()
	third.Execute(s.ctx, "sign_in alice secret")
	s.Equal("OK\n", out.String())
}

func (s *ShellSuite) TestShowLevelsAndChangeLevel() {
	s.Equal("ID|Level Name|Max Sessions\n1|Basic|2\n2|Advanced|5\n3|Premium|10\nOK\n", s.run("show_levels"))
	s.Equal("ERROR: You should sign in with an account to execute this command.\n", s.run("show_my_level"))
	s.Equal("ERROR: You should sign in with an account to execute this command.\n", s.run("change_level 2"))

	s.signedIn("alice")
	s.Equal("OK\n", s.run("change_level 3"))
	s.Equal("ERROR: Can only upgrade to higher capacity levels. To downgrade please contact our headquarters.\n", s.run("change_level 2"))
	s.Equal("ERROR: Can only upgrade to higher capacity levels.\n", s.run("change_level 3"))
	s.Equal("ID|Level Name|Max Sessions\n3|Premium|10\nOK\n", s.run("show_my_level"))
}

func (s *ShellSuite) TestQuitReleasesEverything() {
	s.signedIn("alice")
	s.Empty(s.run("quit"))
	s.True(s.shell.Done())
	s.Zero(s.tables().Administrators[0].SessionCount)
	s.NoError(s.shell.Close(s.ctx), "close after quit is a no-op")
}

// =============================================================================
// Queries
// =============================================================================

func (s *ShellSuite) TestGetStatistics() {
	s.Equal("TYPE|NAME|COUNTRIES\nContinent|Europe|3\nOK\n", s.run("get_statistics europe"))
	s.Equal("TYPE|NAME|POPULATION|GDP|TOP_LANGUAGE|TOP_RELIGION\nCountry|Andorra|77,000|$3327|Catalan (60%)|Catholic (60%)\nOK\n",
		s.run("get_statistics Andorra"))
	s.Equal("TYPE|NAME|COUNTRY|POPULATION|ELEVATION\nCity|Springfield|Canada|15,000|N/A\nOK\n",
		s.run("get_statistics Springfield Canada"))
	s.Equal("TYPE|NAME|POPULATION|ELEVATION\nCity|Andorra la Vella|22,000|1023m\nOK\n",
		s.run(`get_statistics "Andorra la Vella"`))
	s.Equal("ERROR: Multiple cities with given name exist - specify country.\n", s.run("get_statistics Springfield"))
	s.Equal("ERROR: No geographic entity named with given name found.\n", s.run("get_statistics Atlantis"))

	s.Equal(6, s.tables().Users[0].CurrentQueryCount, "misses are charged too")
}

func (s *ShellSuite) TestGuestQuotaExhausted() {
	s.Require().NoError(s.app.Memory.RunInTx(s.ctx, func(context.Context) error {
		s.app.Memory.Tables().Users[0].CurrentQueryCount = 10001
		return nil
	}))
	s.Equal("10000 query limit reached.\nERROR: Can not execute the given command.\n", s.run("get_statistics Europe"))
}

func (s *ShellSuite) TestAdministratorQueriesAreFree() {
	s.signedIn("alice")
	s.Contains(s.run("get_statistics Europe"), "Continent|Europe|3")
	s.Empty(s.tables().Users)
}

// =============================================================================
// Mutations
// =============================================================================

func (s *ShellSuite) TestMutationsRequireAdmin() {
	for _, line := range []string{
		"update_religion Andorra Catholic Protestant 10",
		"transfer_city Canillo Andorra France",
		"adjust_population Andorra 5",
	} {
		s.Equal("ERROR: You should sign in with an account to execute this command.\n", s.run(line), line)
	}
}

func (s *ShellSuite) TestUpdateReligion() {
	s.signedIn("alice")
	s.Equal("RELIGION|PERCENTAGE\nCatholic|70% (+10)\nProtestant|20% (-10)\nOK\n",
		s.run("update_religion Andorra Catholic Protestant 10"))
	s.Equal("RELIGION|PERCENTAGE\nCatholic|80% (+10)\nMuslim|0% (-10) [REMOVED]\nOK\n",
		s.run("update_religion Andorra Catholic Muslim 10"))
	s.Equal("ERROR: Given religion name not found in country.\n", s.run("update_religion Andorra Catholic Muslim 10"))
	s.Equal("ERROR: Given religion name has insufficient percentage.\n", s.run("update_religion Andorra Catholic Protestant 50"))
	s.Equal("ERROR: Percentage must be between 0-100.\n", s.run("update_religion Andorra Catholic Protestant 101"))
}

func (s *ShellSuite) TestTransferCity() {
	s.signedIn("alice")
	s.Equal("ERROR: City already belongs to the given country.\n", s.run("transfer_city Paris France france"))
	s.Equal("ERROR: Occupying country with given name does not exist.\n", s.run("transfer_city Paris France Atlantis"))
	s.Equal("Notice: Country named Monaco has been removed.\nOK\n", s.run("transfer_city Monaco Monaco France"))
	s.Equal("OK\n", s.run(`transfer_city "Andorra la Vella" Andorra France`))
	s.Equal("TYPE|NAME|POPULATION|GDP|TOP_LANGUAGE|TOP_RELIGION\nCountry|Andorra|77,000|$3327|Catalan (60%)|Catholic (60%)\nOK\n",
		s.run("get_statistics andorra"))
}

func (s *ShellSuite) TestAdjustPopulation() {
	s.signedIn("alice")
	s.Equal("ERROR: Multiple cities with given name exist - specify country.\n", s.run("adjust_population Springfield 5"))
	s.Equal("OK\n", s.run(`adjust_population Springfield "United States" 5`))
	s.Equal("ERROR: Population must be positive\n", s.run("adjust_population Andorra -1"))
	s.Equal("ERROR: Can not execute the given command.\n", s.run("adjust_population Andorra many"))
	s.Contains(s.run("get_statistics Springfield \"United States\""), "City|Springfield|United States|5|N/A")
}

func (s *ShellSuite) TestPrintedTablesArePipeDelimited() {
	for _, line := range strings.Split(strings.TrimSpace(s.run("show_levels")), "\n") {
		if line == "OK" {
			continue
		}
		s.Len(strings.Split(line, "|"), 3, line)
	}
}
