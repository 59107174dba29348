// Package cmd - saved quote commands
package cmd

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"quote-engine/adapters/storage"
	"quote-engine/core/pricing"
	"quote-engine/core/ui"
	"quote-engine/internal/config"
)

var quotesCmd = &cobra.Command{
	Use:   "quotes",
	Short: "Manage saved quotes",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var quotesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved quotes, newest first",
	Args:  cobra.NoArgs,
	RunE:  runQuotesList,
}

var quotesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved quote with its line items",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuotesShow,
}

var quotesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved quote and its line items",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuotesDelete,
}

var (
	quotesLimit  int
	quotesOffset int
	quotesJSON   bool
)

func init() {
	rootCmd.AddCommand(quotesCmd)
	quotesCmd.AddCommand(quotesListCmd)
	quotesCmd.AddCommand(quotesShowCmd)
	quotesCmd.AddCommand(quotesDeleteCmd)

	quotesCmd.PersistentFlags().BoolVar(&quotesJSON, "json", false, "print JSON")
	quotesListCmd.Flags().IntVar(&quotesLimit, "limit", 20, "maximum quotes to list (0 for all)")
	quotesListCmd.Flags().IntVar(&quotesOffset, "offset", 0, "quotes to skip")
}

func runQuotesList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	quotes, err := store.ListQuotes(cmd.Context(), &storage.ListFilter{Limit: quotesLimit, Offset: quotesOffset})
	if err != nil {
		return err
	}
	if quotesJSON {
		return writeJSON(cmd.OutOrStdout(), quotes)
	}

	out := quotesWriter(cmd)
	if len(quotes) == 0 {
		out.Info("No saved quotes")
		return nil
	}
	t := out.NewTable("ID", "Cliente", "Proyecto", "Total", "Creada").AlignRight(3)
	for _, q := range quotes {
		t.AddRow(q.ID, q.ClientName, q.ProjectTitle, total(q), q.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	t.Render()
	return nil
}

func runQuotesShow(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	q, err := store.GetQuote(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if quotesJSON {
		return writeJSON(cmd.OutOrStdout(), q)
	}

	out := quotesWriter(cmd)
	out.Header(q.ProjectTitle)
	out.Println("  Cliente:     %s %s", q.ClientName, q.ClientRUT)
	out.Println("  Descripción: %s", q.ProjectDescription)
	out.Println("  Alcance:     %s", q.Scope)
	if q.Recommendation != "" {
		out.Info("Recomendación: %s", q.Recommendation)
	}
	if q.Notes != "" {
		out.Println("  Notas:       %s", q.Notes)
	}
	out.Println("")

	t := out.NewTable("#", "Concepto", "Detalle", "Valor").AlignRight(0, 3)
	for _, item := range q.LineItems {
		title := item.Title
		if item.Conditional {
			title += " *"
		}
		t.AddRow(strconv.Itoa(item.Order), title, item.Description, item.Value)
	}
	t.Render()
	out.Println("")
	out.Success("Total: %s", total(q))
	return nil
}

func runQuotesDelete(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteQuote(cmd.Context(), args[0]); err != nil {
		return err
	}
	quotesWriter(cmd).Success("Cotización eliminada: %s", args[0])
	return nil
}

func quotesWriter(cmd *cobra.Command) *ui.Writer {
	return ui.NewWriter(cmd.OutOrStdout(), noColor || !config.Get().Output.Color)
}

func total(q *storage.Quote) string {
	if q.TotalValue == nil {
		return "-"
	}
	return pricing.FormatCLP(*q.TotalValue)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
