package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/orderlens/internal/classify"
)

// ClassifyOptions holds flags for the classify command.
type ClassifyOptions struct {
	*RootOptions
	ProductType  string
	VariantTitle string
	RulesFile    string
}

// ClassifyResult is the classify command payload.
type ClassifyResult struct {
	Title        string `json:"title"`
	ProductType  string `json:"product_type,omitempty"`
	VariantTitle string `json:"variant_title,omitempty"`
	classify.Result
}

// NewClassifyCommand creates the classify command.
func NewClassifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClassifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "classify <title>",
		Short: "Show the category assigned to a product",
		Long: `Classify one product title the way analyze classifies line items.

Example:
  orderlens classify "Whey Protein Gold 2lb"
  orderlens classify "Combo Serious Mass" --variant "Chocolate" --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ProductType, "type", "", "product type")
	cmd.Flags().StringVar(&opts.VariantTitle, "variant", "", "variant title")
	cmd.Flags().StringVar(&opts.RulesFile, "rules", "", "YAML rule file replacing the built-in table")

	return cmd
}

func runClassify(opts *ClassifyOptions, title string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	classifier, err := loadClassifier(opts.RulesFile)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeRules, "failed to load rules", err)
	}

	result := ClassifyResult{
		Title:        title,
		ProductType:  opts.ProductType,
		VariantTitle: opts.VariantTitle,
		Result:       classifier.Classify(title, opts.ProductType, opts.VariantTitle),
	}
	formatter.VerboseLog("Search string: %q", classify.SearchString(title, opts.ProductType, opts.VariantTitle))

	return formatter.Render(result, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s / %s\n", result.Category, result.Subcategory)
		return err
	})
}

// loadClassifier returns the built-in classifier, or one over the rule
// file at path.
func loadClassifier(path string) (*classify.Classifier, error) {
	if path == "" {
		return classify.New(nil), nil
	}
	rules, err := classify.LoadRules(path)
	if err != nil {
		return nil, err
	}
	return classify.New(rules), nil
}

// RulesOptions holds flags for the rules command.
type RulesOptions struct {
	*RootOptions
	RulesFile string
}

// NewRulesCommand creates the rules command.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RulesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the classification rules in evaluation order",
		Long: `List the ordered classification rule table. The first matching rule
wins; bundle keywords (combo, pack, kit) are checked before the table.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.RulesFile, "rules", "", "YAML rule file replacing the built-in table")

	return cmd
}

func runRules(opts *RulesOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	classifier, err := loadClassifier(opts.RulesFile)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeRules, "failed to load rules", err)
	}
	rules := classifier.Rules()

	return formatter.Render(rules, func(w io.Writer) error {
		for i, r := range rules {
			fmt.Fprintf(w, "%2d. %s / %s: %s\n", i+1, r.Category, r.Subcategory, strings.Join(r.Keywords, ", "))
		}
		return nil
	})
}
