package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"budgetcoach/internal/core"
	"budgetcoach/internal/insight"
)

func (a *App) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary [YYYY-MM]",
		Short: "Totals per category with advice",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(s *Session) error {
				summary, err := s.Reports.MonthSummary(cmd.Context(), a.monthArg(args))
				if err != nil {
					return err
				}
				if a.flagJSON {
					return a.printJSON(cmd.OutOrStdout(), summary)
				}
				a.renderSummary(cmd.OutOrStdout(), summary)
				return nil
			})
		},
	}
}

func (a *App) budgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "budget [YYYY-MM]",
		Short: "Adaptive budget from the trailing months",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(s *Session) error {
				budget, err := s.Reports.AdaptiveBudget(cmd.Context(), a.monthArg(args))
				if err != nil {
					return err
				}
				if a.flagJSON {
					return a.printJSON(cmd.OutOrStdout(), budget)
				}
				a.renderBudget(cmd.OutOrStdout(), a.monthArg(args), budget)
				return nil
			})
		},
	}
}

func (a *App) pacingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pacing",
		Short: "Spending pace for the current month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd, func(s *Session) error {
				pacing, err := s.Reports.RealtimePacing(cmd.Context())
				if err != nil {
					return err
				}
				if a.flagJSON {
					return a.printJSON(cmd.OutOrStdout(), pacing)
				}
				a.renderPacing(cmd.OutOrStdout(), pacing)
				return nil
			})
		},
	}
}

func (a *App) projectionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "projection [YYYY-MM]",
		Short: "Projected month-end spend",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(s *Session) error {
				p, err := s.Reports.Projection(cmd.Context(), a.monthArg(args))
				if err != nil {
					return err
				}
				if a.flagJSON {
					return a.printJSON(cmd.OutOrStdout(), p)
				}
				a.renderProjection(cmd.OutOrStdout(), p)
				return nil
			})
		},
	}
}

func (a *App) compareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare YYYY-MM [YYYY-MM]",
		Short: "Compare a month with another, by default the month before",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			month1 := strings.TrimSpace(args[0])
			var month2 string
			if len(args) == 2 {
				month2 = strings.TrimSpace(args[1])
			} else {
				m1, err := core.ParseMonthKey(month1)
				if err != nil {
					return err
				}
				month2 = m1.Prev().String()
			}
			return a.withSession(cmd, func(s *Session) error {
				cmp, err := s.Reports.Compare(cmd.Context(), month1, month2)
				if err != nil {
					return err
				}
				if a.flagJSON {
					return a.printJSON(cmd.OutOrStdout(), cmp)
				}
				a.renderComparison(cmd.OutOrStdout(), cmp)
				return nil
			})
		},
	}
}

func (a *App) trendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trends [YYYY-MM]",
		Short: "Category trends against the previous month",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(s *Session) error {
				trends, err := s.Reports.Trends(cmd.Context(), a.monthArg(args))
				if err != nil {
					return err
				}
				if a.flagJSON {
					return a.printJSON(cmd.OutOrStdout(), trends)
				}
				w := cmd.OutOrStdout()
				fmt.Fprintln(w, a.colors.title(fmt.Sprintf("Trends %s vs %s", trends.Month, trends.Previous)))
				for _, line := range trends.Suggestions {
					fmt.Fprintf(w, "  %s\n", a.adviceLine(line, strings.HasPrefix(line, "Your spending on")))
				}
				return nil
			})
		},
	}
}

func (a *App) addCmd() *cobra.Command {
	var amount, category, description, date string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if date == "" {
				date = a.now().Format("2006-01-02")
			}
			e, err := core.ParseExpense(amount, category, description, date)
			if err != nil {
				return err
			}
			return a.withSession(cmd, func(s *Session) error {
				created, err := s.Expenses.CreateExpense(cmd.Context(), e)
				if err != nil {
					return err
				}
				if a.flagJSON {
					return a.printJSON(cmd.OutOrStdout(), created)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s %s %s\n",
					created.ID, created.Date, created.Category, created.Amount)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "Amount, e.g. 12.50")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category name")
	cmd.Flags().StringVarP(&description, "description", "m", "", "Free-form note")
	cmd.Flags().StringVarP(&date, "date", "d", "", "Date as YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func (a *App) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(s *Session) error {
				deleted, err := s.Expenses.DeleteExpense(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if a.flagJSON {
					return a.printJSON(cmd.OutOrStdout(), deleted)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s: %s %s %s\n",
					deleted.ID, deleted.Date, deleted.Category, deleted.Amount)
				return nil
			})
		},
	}
}

func (a *App) adviceLine(s string, warning bool) string {
	if warning {
		return a.colors.warn("! " + s)
	}
	return a.colors.good(s)
}

func (a *App) renderSummary(w io.Writer, s insight.MonthSummary) {
	fmt.Fprintln(w, a.colors.title("Summary "+s.Month.String()))
	fmt.Fprintf(w, "Total spent: %s\n", s.TotalSpent)
	if len(s.Categories) > 0 {
		fmt.Fprintln(w)
		for _, c := range s.Categories {
			fmt.Fprintf(w, "  %-18s %12s\n", c.Name, c.Amount)
		}
	}

	warnings := make(map[string]bool, len(s.Warnings))
	for _, line := range s.Warnings {
		warnings[line] = true
	}
	fmt.Fprintln(w)
	for _, line := range s.Advice {
		fmt.Fprintf(w, "  %s\n", a.adviceLine(line, warnings[line]))
	}

	if s.Pacing != nil {
		fmt.Fprintln(w)
		a.renderPacing(w, *s.Pacing)
	}
}

func (a *App) renderBudget(w io.Writer, month string, b insight.AdaptiveBudget) {
	fmt.Fprintln(w, a.colors.title("Adaptive budget "+month))
	fmt.Fprintf(w, "Recommended: %s\n", b.Recommendation)
	fmt.Fprintf(w, "Average spend: %s\n", b.AverageSpend)
	if len(b.MonthsConsidered) > 0 {
		months := make([]string, len(b.MonthsConsidered))
		for i, m := range b.MonthsConsidered {
			months[i] = m.String()
		}
		fmt.Fprintf(w, "Months considered: %s\n", strings.Join(months, ", "))
	}
	if b.Reason != "" {
		fmt.Fprintln(w, a.colors.dim(b.Reason))
	}
}

func (a *App) renderPacing(w io.Writer, p insight.Pacing) {
	fmt.Fprintln(w, a.colors.title(fmt.Sprintf("Pacing %s (day %d of %d)", p.Date, p.DayOfMonth, p.DaysInMonth)))
	fmt.Fprintf(w, "Spent: %s  Expected by now: %s  Budget: %s\n", p.TotalSpent, p.ExpectedByNow, p.Budget)
	fmt.Fprintf(w, "  %s\n", a.adviceLine(p.Warning, !p.OnTrack))
}

func (a *App) renderProjection(w io.Writer, p insight.Projection) {
	fmt.Fprintln(w, a.colors.title(fmt.Sprintf("Projection %s (day %d of %d)", p.Month, p.CurrentDay, p.DaysInMonth)))
	fmt.Fprintf(w, "Spent so far: %s\n", p.CurrentSpent)
	fmt.Fprintf(w, "Projected month end: %s\n", p.ProjectedMonthEnd)
	fmt.Fprintf(w, "Budget: %s\n", p.Budget)
	if p.Warning != "" {
		fmt.Fprintf(w, "  %s\n", a.adviceLine(p.Warning, true))
	}
}

func (a *App) renderComparison(w io.Writer, c insight.Comparison) {
	fmt.Fprintln(w, a.colors.title(fmt.Sprintf("%s vs %s", c.Month1, c.Month2)))
	fmt.Fprintf(w, "Totals: %s vs %s\n", c.Total1, c.Total2)
	fmt.Fprintln(w, c.ChangeFromLastMonth)

	names := make([]core.Category, 0, len(c.Categories))
	for name := range c.Categories {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	for _, name := range names {
		change := c.Categories[name]
		line := fmt.Sprintf("  %-18s %12s", name, change.Change)
		if change.Delta.Cents > 0 {
			line = a.colors.warn(line)
		}
		fmt.Fprintln(w, line)
	}
}
