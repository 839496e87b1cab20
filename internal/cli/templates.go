package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/slotcraft/pkg/core/catalog"
	"github.com/matzehuels/slotcraft/pkg/core/media"
	"github.com/matzehuels/slotcraft/pkg/core/template"
	pkgio "github.com/matzehuels/slotcraft/pkg/io"
)

// queryFlags holds the template filter flags shared by list, pick and suggest.
type queryFlags struct {
	canvas   string
	category string
	premium  string
	search   string
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.canvas, "canvas", "", "only templates targeting this canvas type (e.g. instagram-post)")
	cmd.Flags().StringVar(&f.category, "category", "", "only templates in this category")
	cmd.Flags().StringVar(&f.premium, "premium", "", "premium filter: any, free or premium")
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "search name, description and tags")
}

func (f *queryFlags) query() (catalog.Query, error) {
	var q catalog.Query
	var err error
	if f.canvas != "" {
		if q.CanvasType, err = template.ParseCanvasType(f.canvas); err != nil {
			return q, err
		}
	}
	if f.category != "" {
		if q.Category, err = template.ParseCategory(f.category); err != nil {
			return q, err
		}
	}
	if q.Premium, err = catalog.ParsePremiumMode(f.premium); err != nil {
		return q, err
	}
	q.Text = f.search
	return q, nil
}

// templatesCommand creates the template browsing command.
func (c *CLI) templatesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"tmpl"},
		Short:   "Browse the template catalog",
	}

	cmd.AddCommand(c.templatesListCommand())
	cmd.AddCommand(c.templatesShowCommand())
	cmd.AddCommand(c.templatesPickCommand())

	return cmd
}

func (c *CLI) templatesListCommand() *cobra.Command {
	var (
		qf     queryFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List templates matching the filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := qf.query()
			if err != nil {
				return err
			}
			cat, err := c.loadCatalog()
			if err != nil {
				return err
			}
			ts := cat.Query(q)
			if asJSON {
				return pkgio.WriteJSON(cmd.OutOrStdout(), ts)
			}
			renderTemplateTable(cmd.OutOrStdout(), ts)
			printDetail("%d of %d templates", len(ts), cat.Len())
			return nil
		},
	}

	qf.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print templates as JSON")

	return cmd
}

func (c *CLI) templatesShowCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <template-id>",
		Short: "Show a template and its slots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.loadCatalog()
			if err != nil {
				return err
			}
			t, err := cat.Get(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return pkgio.WriteJSON(cmd.OutOrStdout(), t)
			}
			renderTemplate(cmd.OutOrStdout(), t)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the template as JSON")

	return cmd
}

func (c *CLI) templatesPickCommand() *cobra.Command {
	var qf queryFlags

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick a template interactively and print its id",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := qf.query()
			if err != nil {
				return err
			}
			cat, err := c.loadCatalog()
			if err != nil {
				return err
			}
			ts := cat.Query(q)
			if len(ts) == 0 {
				printWarning("No templates match")
				return nil
			}

			final, err := tea.NewProgram(NewTemplateListModel(ts), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return fmt.Errorf("template picker: %w", err)
			}
			m, ok := final.(TemplateListModel)
			if !ok || m.Selected == nil {
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), m.Selected.ID)
			printNextStep("Arrange assets", fmt.Sprintf("%s assign %s --assets assets.json", appName, m.Selected.ID))
			return nil
		},
	}

	qf.register(cmd)

	return cmd
}

// =============================================================================
// Rendering
// =============================================================================

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

func renderTemplateTable(w io.Writer, ts []template.Template) {
	rows := make([][]string, len(ts))
	for i, t := range ts {
		premium := ""
		if t.IsPremium {
			premium = "★"
		}
		rows[i] = []string{t.ID, t.Name, string(t.Category), joinCanvases(t.TargetCanvas), strconv.Itoa(len(t.Slots)), premium}
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Category", "Canvas", "Slots", "Premium").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			if col == 0 {
				return StyleHighlight
			}
			return lipgloss.NewStyle()
		})

	fmt.Fprintln(w, tbl.Render())
}

func renderTemplate(w io.Writer, t template.Template) {
	fmt.Fprintln(w, StyleTitle.Render(t.Name)+" "+StyleDim.Render(t.ID))
	if t.Description != "" {
		fmt.Fprintln(w, t.Description)
	}
	fmt.Fprintf(w, "%s %s  %s %s  %s %s\n",
		StyleDim.Render("category"), t.Category,
		StyleDim.Render("scheme"), t.ColorScheme,
		StyleDim.Render("canvas"), joinCanvases(t.TargetCanvas))
	if len(t.Tags) > 0 {
		fmt.Fprintln(w, StyleDim.Render("tags")+" "+strings.Join(t.Tags, ", "))
	}

	rows := make([][]string, len(t.Slots))
	for i, s := range t.Slots {
		req := ""
		if s.Required {
			req = "yes"
		}
		rows[i] = []string{
			s.ID, joinTypes(s.AcceptedTypes), req,
			fmt.Sprintf("%g,%g", s.Position.X, s.Position.Y),
			fmt.Sprintf("%g×%g", s.Size.Width, s.Size.Height),
			strconv.Itoa(s.ZIndex), string(s.AutoFit),
		}
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Slot", "Accepts", "Required", "Center %", "Size %", "Z", "Fit").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			if col == 2 && row >= 0 && row < len(t.Slots) && t.Slots[row].Required {
				return StyleSuccess
			}
			return lipgloss.NewStyle()
		})

	fmt.Fprintln(w, tbl.Render())
}

func joinCanvases(cs []template.CanvasType) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

func joinTypes(ts []media.AssetType) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}
