// Package cmd - catalog and pricing commands
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"quote-engine/core/output"
	"quote-engine/core/pricing"
	"quote-engine/core/ui"
	"quote-engine/internal/config"
	"quote-engine/internal/errors"
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List the service plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := formatter(plansFormat)
		if err != nil {
			return err
		}
		calc := config.Get().NewCalculator()
		return f.RenderPlans(cmd.OutOrStdout(), calc.Engine().Catalog().Plans())
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare billing cycles for a base price",
	Long: `Compare what a base price costs under each billing cycle.

Cycles are listed cheapest first by monthly cost; savings are measured
against paying the base price every month for a year.

Examples:
  quote compare --base 150000
  quote compare --base 644719 --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if compareBase < 0 || compareBase > pricing.MaxAmount {
			return errors.Newf(errors.TypeInput, "--base must be between 0 and %d", pricing.MaxAmount)
		}
		f, err := formatter(compareFormat)
		if err != nil {
			return err
		}
		comps := pricing.CompareBillingCycles(compareBase)
		return f.RenderComparison(cmd.OutOrStdout(), compareBase, comps)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check whether a plan covers a project value",
	RunE:  runValidate,
}

var (
	plansFormat   string
	compareBase   int64
	compareFormat string
	validatePlan  string
	validateValue int64
)

func init() {
	rootCmd.AddCommand(plansCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(validateCmd)

	plansCmd.Flags().StringVarP(&plansFormat, "format", "f", "", "output format (cli, json, markdown)")

	compareCmd.Flags().Int64Var(&compareBase, "base", 0, "base price in CLP [REQUIRED]")
	compareCmd.Flags().StringVarP(&compareFormat, "format", "f", "", "output format (cli, json, markdown)")
	compareCmd.MarkFlagRequired("base")

	validateCmd.Flags().StringVarP(&validatePlan, "plan", "p", "", "plan ID [REQUIRED]")
	validateCmd.Flags().Int64Var(&validateValue, "value", 0, "project value in CLP [REQUIRED]")
	validateCmd.MarkFlagRequired("plan")
	validateCmd.MarkFlagRequired("value")
}

func runValidate(cmd *cobra.Command, args []string) error {
	engine := config.Get().NewCalculator().Engine()
	plan, ok := engine.FindPricingPlan(validatePlan)
	if !ok {
		return errors.NotFound("plan", validatePlan)
	}

	out := ui.NewWriter(cmd.OutOrStdout(), noColor || !config.Get().Output.Color)
	v := engine.ValidatePlanForProject(plan, validateValue)
	if v.IsValid {
		out.Success("%s cubre un proyecto de %s", plan.Name, pricing.FormatCLP(validateValue))
		return nil
	}

	out.Warning("%s", output.ValidationMessage(v))
	recommended := engine.FindPlanByProjectValue(validateValue)
	out.Info("Plan recomendado: %s (%s)", recommended.Name, recommended.ID)
	return fmt.Errorf("plan %s does not cover %s", plan.ID, pricing.FormatCLP(validateValue))
}
