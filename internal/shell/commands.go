package shell

import (
	"context"
	"errors"
	"strconv"

	"geoshell/internal/reporting"
)

func (s *Shell) help(context.Context, []string) error {
	s.printHelp()
	return nil
}

func (s *Shell) signUp(ctx context.Context, tokens []string) error {
	return s.identity.Register(ctx, tokens[1], tokens[2], tokens[3])
}

func (s *Shell) signIn(ctx context.Context, tokens []string) error {
	admin, err := s.identity.Authenticate(ctx, s.session.Guest, tokens[1], tokens[2])
	if err != nil {
		return err
	}
	s.session.signedIn(admin)
	return nil
}

func (s *Shell) signOut(ctx context.Context, _ []string) error {
	guest, err := s.identity.EndSession(ctx, s.session.Admin)
	if err != nil {
		return err
	}
	s.session.signedOut(guest)
	return nil
}

func (s *Shell) quit(ctx context.Context, _ []string) error {
	if err := s.identity.Terminate(ctx, s.session.Admin, s.session.Guest); err != nil {
		return err
	}
	s.session = Session{}
	s.done = true
	return nil
}

func (s *Shell) showLevels(ctx context.Context, _ []string) error {
	levels, err := s.identity.ListLevels(ctx)
	if err != nil {
		return err
	}
	table := reporting.NewTable(levelHeader...)
	for _, l := range levels {
		table.Append(strconv.Itoa(l.ID), l.Name, strconv.Itoa(l.MaxParallelSessions))
	}
	s.println(table.String())
	return nil
}

func (s *Shell) showMyLevel(ctx context.Context, _ []string) error {
	level, err := s.identity.LevelOf(ctx, s.session.Admin)
	if err != nil {
		return err
	}
	s.println(reporting.NewTable(levelHeader...).
		Append(strconv.Itoa(level.ID), level.Name, strconv.Itoa(level.MaxParallelSessions)).
		String())
	return nil
}

func (s *Shell) changeLevel(ctx context.Context, tokens []string) error {
	admin, err := s.identity.ChangeLevel(ctx, s.session.Admin, tokens[1])
	if err != nil {
		return err
	}
	s.session.Admin = admin
	return nil
}

// getStatistics charges the guest, if any. Administrators query for free.
func (s *Shell) getStatistics(ctx context.Context, tokens []string) error {
	var countryName string
	if len(tokens) == 3 {
		countryName = tokens[2]
	}
	table, err := s.reporting.Describe(ctx, s.session.Guest, tokens[1], countryName)
	if err != nil {
		if errors.Is(err, reporting.ErrQuotaExhausted) {
			s.printf("%d query limit reached.\n", s.session.Guest.QueryLimit)
		}
		return err
	}
	s.println(table.String())
	return nil
}

func (s *Shell) updateReligion(ctx context.Context, tokens []string) error {
	result, err := s.geo.RebalanceReligion(ctx, s.session.Admin, tokens[1], tokens[2], tokens[3], tokens[4])
	if err != nil {
		return err
	}
	s.println(rebalanceTable(result).String())
	return nil
}

func (s *Shell) transferCity(ctx context.Context, tokens []string) error {
	result, err := s.geo.TransferCity(ctx, s.session.Admin, tokens[1], tokens[2], tokens[3])
	if err != nil {
		return err
	}
	if result.CountryRemoved {
		s.printf("Notice: Country named %s has been removed.\n", result.FromName)
	}
	return nil
}

func (s *Shell) adjustPopulation(ctx context.Context, tokens []string) error {
	name, countryName, population := tokens[1], "", tokens[2]
	if len(tokens) == 4 {
		countryName, population = tokens[2], tokens[3]
	}
	_, err := s.geo.AdjustPopulation(ctx, s.session.Admin, name, countryName, population)
	return err
}
