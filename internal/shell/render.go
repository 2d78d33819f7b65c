package shell

import (
	"fmt"
	"strconv"

	geomodels "geoshell/internal/geo/models"
	"geoshell/internal/reporting"
	dErrors "geoshell/pkg/domain-errors"
)

var levelHeader = []string{"ID", "Level Name", "Max Sessions"}

var helpLines = []string{
	"",
	"*** Geographic Information System ***",
	"> help",
	"> sign_up <admin_id> <password> <level_id>",
	"> sign_in <admin_id> <password>",
	"> sign_out",
	"> show_levels",
	"> show_my_level",
	"> change_level <new_level_id>",
	"> get_statistics <name> [<country_name>]",
	"> update_religion <country_name> <religion_name1> <religion_name2> <percentage>",
	"> transfer_city <city_name> <current_country> <new_country>",
	"> adjust_population <name> [<country_name>] <new_population>",
	"> quit",
}

func (s *Shell) printHelp() {
	for _, line := range helpLines {
		s.println(line)
	}
}

func (s *Shell) printError(err error) {
	s.println("ERROR: " + dErrors.UserMessage(err))
}

func (s *Shell) println(line string) {
	fmt.Fprintln(s.out, line)
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func rebalanceTable(r *geomodels.RebalanceResult) *reporting.Table {
	points := percent(r.Points)
	table := reporting.NewTable("RELIGION", "PERCENTAGE").
		Append(r.Gained.Name, percent(r.Gained.Percentage)+"% (+"+points+")")
	if r.Removed {
		return table.Append(r.Lost.Name, "0% (-"+points+") [REMOVED]")
	}
	return table.Append(r.Lost.Name, percent(r.Lost.Percentage)+"% (-"+points+")")
}

func percent(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
