package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/slotcraft/pkg/core/catalog"
	"github.com/matzehuels/slotcraft/pkg/core/template"
	"github.com/matzehuels/slotcraft/pkg/errors"
	pkgio "github.com/matzehuels/slotcraft/pkg/io"
)

// validationReport is the --json output of validate.
type validationReport struct {
	TemplateID string              `json:"templateId"`
	Validation template.Validation `json:"validation"`
}

// validateCommand creates the template validation command.
func (c *CLI) validateCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate [catalog.toml]",
		Short: "Check templates for structural problems",
		Long: `Check templates for duplicate slot ids, out-of-bounds geometry, empty
accepted types and out-of-range opacity.

Without an argument, every template in the catalog (built-in plus --catalog
files) is checked. With a file, only the templates in that file are checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ts []template.Template
			if len(args) == 1 {
				var err error
				if ts, err = catalog.LoadFile(args[0], false); err != nil {
					return err
				}
			} else {
				cat, err := c.loadCatalog()
				if err != nil {
					return err
				}
				ts = cat.All()
			}

			reports := make([]validationReport, len(ts))
			invalid := 0
			for i, t := range ts {
				reports[i] = validationReport{TemplateID: t.ID, Validation: template.Validate(t)}
				if !reports[i].Validation.Valid {
					invalid++
				}
			}

			if asJSON {
				if err := pkgio.WriteJSON(cmd.OutOrStdout(), reports); err != nil {
					return err
				}
			} else {
				for _, r := range reports {
					if r.Validation.Valid {
						printSuccess("%s", r.TemplateID)
						continue
					}
					printError("%s", r.TemplateID)
					for _, e := range r.Validation.Errors {
						printDetail("%s: %s", e.Code, e.Message)
					}
				}
			}

			if invalid > 0 {
				return errors.New(errors.ErrCodeInvalidTemplate, "%d of %d templates invalid", invalid, len(ts))
			}
			c.Logger.Debug("validated templates", "count", len(ts))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print validation results as JSON")

	return cmd
}
