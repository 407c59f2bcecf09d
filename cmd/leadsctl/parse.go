package main

import (
	"fmt"

	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/dates"
	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/money"
	"github.com/PavaniTiago/leads-intelligence-api/internal/utils"
	"github.com/spf13/cobra"
)

func parseDateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse-date <value>",
		Short: "Show how a raw date string is interpreted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := utils.GetBrasilLocation()
			now, err := referenceClock(cmd, loc)
			if err != nil {
				return err
			}

			res, err := dates.NewInterpreter(loc, now).Interpret(args[0])
			if err != nil {
				return fmt.Errorf("%q: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "date:     %s\n", res.Time.Format("2006-01-02"))
			fmt.Fprintf(out, "short:    %s\n", dates.FormatShort(res.Time))
			fmt.Fprintf(out, "strategy: %s\n", res.Strategy)
			if res.Layout != "" {
				fmt.Fprintf(out, "layout:   %s\n", res.Layout)
			}
			if clock, _ := cmd.Flags().GetString("time"); clock != "" {
				fmt.Fprintf(out, "hour:     %d\n", dates.ExtractHour(clock))
			}
			return nil
		},
	}
	cmd.Flags().String("reference-date", "", "reference day for year inference (YYYY-MM-DD, default today)")
	cmd.Flags().String("time", "", "raw time column value, e.g. 14h30")
	return cmd
}

func parseAmountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse-amount <value>",
		Short: "Show how a raw monetary string is normalized",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			strict, _ := cmd.Flags().GetBool("strict")
			if strict {
				v, err := money.ParseStrict(args[0])
				if err != nil {
					return fmt.Errorf("%q: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%.2f\n", v)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.2f\n", money.Parse(args[0]))
			return nil
		},
	}
	cmd.Flags().Bool("strict", false, "fail instead of returning 0 for unparseable values")
	return cmd
}
