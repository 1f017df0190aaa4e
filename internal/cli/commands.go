package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/medalcast/internal/domain/model"
)

func createCountryCmd(flags *Flags) *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "country NAME",
		Short: "Forecast medals for one country",
		Example: `  medalcast country France --year 2028
  medalcast country "Great Britain" --strategy es -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := serviceFrom(cmd).PredictCountry(cmd.Context(), strings.Join(args, " "), year, flags.Strategy)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), flags.Format, f, forecastTable([]model.Forecast{f}))
		},
	}
	cmd.Flags().IntVarP(&year, "year", "y", 0, "Target games year (default from configuration)")
	return cmd
}

func createTopCmd(flags *Flags) *cobra.Command {
	var n, year int
	cmd := &cobra.Command{
		Use:     "top",
		Short:   "Rank the countries with the highest forecast totals",
		Example: `  medalcast top -n 10 --year 2032`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := serviceFrom(cmd).PredictTopCountries(cmd.Context(), n, year, flags.Strategy)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), flags.Format, out, forecastTable(out))
		},
	}
	cmd.Flags().IntVarP(&n, "n", "n", 10, "Number of countries")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "Target games year (default from configuration)")
	return cmd
}

func createAthletesCmd(flags *Flags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "athletes",
		Short: "Score athletes by historical strength",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := serviceFrom(cmd).PredictAthletes(cmd.Context(), limit, flags.Strategy)
			if err != nil {
				return err
			}
			t := table{header: []string{"ATHLETE", "COUNTRY", "SPORT", "TOTAL", "SCORE", "PROJECTED", "SOURCE"}}
			for _, a := range out {
				t.rows = append(t.rows, []string{
					a.Athlete, a.Country, a.Sport,
					strconv.Itoa(a.HistoricalTotal),
					strconv.FormatFloat(a.Score, 'f', 2, 64),
					medalsCell(a.Projected),
					string(a.Source),
				})
			}
			return render(cmd.OutOrStdout(), flags.Format, out, t)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Number of athletes")
	return cmd
}

func createSportsCmd(flags *Flags) *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "sports",
		Short: "Forecast medals awarded per sport",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := serviceFrom(cmd).PredictSports(cmd.Context(), year, flags.Strategy)
			if err != nil {
				return err
			}
			t := table{header: []string{"SPORT", "YEAR", "GOLD", "SILVER", "BRONZE", "TOTAL", "SOURCE"}}
			for _, s := range out {
				t.rows = append(t.rows, []string{
					s.Sport, strconv.Itoa(s.Year),
					strconv.Itoa(s.Gold), strconv.Itoa(s.Silver), strconv.Itoa(s.Bronze),
					strconv.Itoa(s.Total), string(s.Source),
				})
			}
			return render(cmd.OutOrStdout(), flags.Format, out, t)
		},
	}
	cmd.Flags().IntVarP(&year, "year", "y", 0, "Target games year (default from configuration)")
	return cmd
}

func createHistoryCmd(flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "history NAME",
		Short: "Show the medal history of one country",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := serviceFrom(cmd).CountryHistory(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			t := table{header: []string{"YEAR", "GOLD", "SILVER", "BRONZE", "TOTAL"}}
			for _, p := range cs.Series {
				t.rows = append(t.rows, []string{
					strconv.Itoa(p.Year),
					strconv.Itoa(p.Gold), strconv.Itoa(p.Silver), strconv.Itoa(p.Bronze),
					strconv.Itoa(p.Total()),
				})
			}
			return render(cmd.OutOrStdout(), flags.Format, cs, t)
		},
	}
}

func createCountriesCmd(flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "countries",
		Short: "List every country in the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := serviceFrom(cmd).Countries(cmd.Context())
			if err != nil {
				return err
			}
			t := table{header: []string{"COUNTRY"}}
			for _, c := range out {
				t.rows = append(t.rows, []string{c})
			}
			return render(cmd.OutOrStdout(), flags.Format, out, t)
		},
	}
}

func createModelsCmd(flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "Report which model artifacts are available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := serviceFrom(cmd).ModelsStatus(cmd.Context())
			t := table{header: []string{"NAME", "AVAILABLE", "TYPE", "VERSION", "FEATURES", "ERROR"}}
			for _, m := range out {
				t.rows = append(t.rows, []string{
					m.Name, strconv.FormatBool(m.Available), m.ModelType, m.Version,
					strconv.Itoa(len(m.Features)), m.Error,
				})
			}
			return render(cmd.OutOrStdout(), flags.Format, out, t)
		},
	}
}

func forecastTable(fs []model.Forecast) table {
	t := table{header: []string{"COUNTRY", "YEAR", "GOLD", "SILVER", "BRONZE", "TOTAL", "SOURCE"}}
	for _, f := range fs {
		src := string(f.Source)
		if f.Strategy != "" {
			src = fmt.Sprintf("%s/%s", src, f.Strategy)
		}
		t.rows = append(t.rows, []string{
			f.Country, strconv.Itoa(f.Year),
			strconv.Itoa(f.Gold), strconv.Itoa(f.Silver), strconv.Itoa(f.Bronze),
			strconv.Itoa(f.Total), src,
		})
	}
	return t
}

func medalsCell(m model.Medals) string {
	return fmt.Sprintf("%d/%d/%d", m.Gold, m.Silver, m.Bronze)
}
