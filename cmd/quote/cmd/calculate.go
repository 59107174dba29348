// Package cmd - calculate command
package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"quote-engine/adapters/contact"
	"quote-engine/adapters/projectfile"
	"quote-engine/adapters/storage"
	"quote-engine/core/output"
	"quote-engine/core/quote"
	"quote-engine/internal/config"
	"quote-engine/internal/errors"
	"quote-engine/internal/logging"
)

var (
	calcPlan       string
	calcValue      int64
	calcBilling    string
	calcComplexity string
	calcMaterial   string
	calcBrand      string
	calcUrgency    string
	calcFile       string
	calcProject    string
	calcFormat     string
	calcSave       bool
	calcClient     string
	calcRUT        string
	calcCompare    bool
	calcContact    bool
)

// calculateCmd prices one project
var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Price a project",
	Long: `Price a project from flags or from a project file.

Without --plan the plan follows the project value. Passing --plan pins
the plan even when the value falls outside its range; the output then
carries a validation warning.

Examples:
  quote calculate --value 4500000
  quote calculate --value 9000000 --complexity large --material premium --billing annual
  quote calculate --plan basico --value 9000000
  quote calculate --file project.hcl --project bodega --format markdown
  quote calculate --value 1000000 --save --client "Constructora Andes" --rut 76.123.456-7`,
	Args: cobra.NoArgs,
	RunE: runCalculate,
}

func init() {
	rootCmd.AddCommand(calculateCmd)

	f := calculateCmd.Flags()
	f.StringVarP(&calcPlan, "plan", "p", "", "pin a plan ID instead of following the project value")
	f.Int64Var(&calcValue, "value", 0, "project value in CLP")
	f.StringVarP(&calcBilling, "billing", "b", "", "billing cycle (monthly, quarterly, semestral, annual)")
	f.StringVar(&calcComplexity, "complexity", "", "complexity (small, medium, large, industrial)")
	f.StringVar(&calcMaterial, "material", "", "material quality (standard, premium, luxury)")
	f.StringVar(&calcBrand, "brand", "", "brand preference (economic, standard, premium)")
	f.StringVar(&calcUrgency, "urgency", "", "urgency (normal, priority, urgent)")
	f.StringVar(&calcFile, "file", "", "HCL project file")
	f.StringVar(&calcProject, "project", "", "project block to price from --file")
	f.StringVarP(&calcFormat, "format", "f", "", "output format (cli, json, markdown)")
	f.BoolVar(&calcSave, "save", false, "save the quote to the configured store")
	f.StringVar(&calcClient, "client", "", "client name for --save")
	f.StringVar(&calcRUT, "rut", "", "client RUT for --save")
	f.BoolVar(&calcCompare, "compare", true, "include the billing cycle comparison")
	f.BoolVar(&calcContact, "contact", false, "include WhatsApp and email links")

	calculateCmd.MarkFlagsMutuallyExclusive("file", "plan")
	calculateCmd.MarkFlagsMutuallyExclusive("file", "value")
}

func runCalculate(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	calc := cfg.NewCalculator()

	req, client, rut, err := calculateRequest()
	if err != nil {
		return err
	}
	sel, err := calc.NewSelection(req)
	if err != nil {
		return err
	}
	q, err := calc.Calculate(sel)
	if err != nil {
		return err
	}

	result := &output.QuoteResult{Quote: q, ShowComparison: cfg.Output.ShowComparison}
	if cmd.Flags().Changed("compare") {
		result.ShowComparison = calcCompare
	}

	if calcContact {
		links, err := contact.NewBuilder(cfg.Contact, calc.Engine().Factors()).Links(q)
		if err != nil {
			return err
		}
		result.WhatsAppURL = links.WhatsAppURL
		result.MailtoURL = links.MailtoURL
	}

	if calcSave {
		id, err := saveQuote(cmd.Context(), q, client, rut)
		if err != nil {
			return err
		}
		result.SavedID = id
	}

	f, err := formatter(calcFormat)
	if err != nil {
		return err
	}
	return f.RenderQuote(cmd.OutOrStdout(), result)
}

// calculateRequest builds the request from --file or from the flags
func calculateRequest() (quote.Request, string, string, error) {
	if calcFile == "" {
		return quote.Request{
			Plan:           calcPlan,
			Value:          calcValue,
			Billing:        calcBilling,
			Complexity:     calcComplexity,
			Material:       calcMaterial,
			Brand:          calcBrand,
			Urgency:        calcUrgency,
			ManualOverride: calcPlan != "",
		}, calcClient, calcRUT, nil
	}

	file, err := projectfile.Load(calcFile)
	if err != nil {
		return quote.Request{}, "", "", err
	}
	project, err := pickProject(file)
	if err != nil {
		return quote.Request{}, "", "", err
	}

	req := project.Request()
	// flags override the file
	for _, o := range []struct {
		flag string
		dst  *string
	}{
		{calcBilling, &req.Billing},
		{calcComplexity, &req.Complexity},
		{calcMaterial, &req.Material},
		{calcBrand, &req.Brand},
		{calcUrgency, &req.Urgency},
	} {
		if o.flag != "" {
			*o.dst = o.flag
		}
	}

	client, rut := project.Client, project.RUT
	if calcClient != "" {
		client = calcClient
	}
	if calcRUT != "" {
		rut = calcRUT
	}
	return req, client, rut, nil
}

func pickProject(file *projectfile.File) (projectfile.Project, error) {
	if calcProject != "" {
		p, ok := file.Find(calcProject)
		if !ok {
			return projectfile.Project{}, errors.NotFound("project", calcProject)
		}
		return p, nil
	}
	if len(file.Projects) == 1 {
		return file.Projects[0], nil
	}

	names := make([]string, len(file.Projects))
	for i, p := range file.Projects {
		names[i] = p.Name
	}
	return projectfile.Project{}, errors.Newf(errors.TypeInput,
		"%s has %d projects, choose one with --project: %s", calcFile, len(names), strings.Join(names, ", "))
}

func saveQuote(ctx context.Context, q *quote.Quote, client, rut string) (string, error) {
	if client == "" {
		return "", errors.Input("--client is required with --save")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := openStore()
	if err != nil {
		return "", err
	}
	defer store.Close()

	stored := storage.FromCalculation(q, client, rut)
	if err := store.CreateQuote(ctx, stored); err != nil {
		return "", err
	}
	logging.Info("quote saved", zap.String("id", stored.ID), zap.String("client", client))
	return stored.ID, nil
}
