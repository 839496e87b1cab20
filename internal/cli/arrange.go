package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/slotcraft/pkg/core/engine"
	"github.com/matzehuels/slotcraft/pkg/core/template"
	pkgio "github.com/matzehuels/slotcraft/pkg/io"
	"github.com/matzehuels/slotcraft/pkg/pipeline"
)

// canvasFlags selects a pixel canvas by type or explicit size.
type canvasFlags struct {
	canvas        string
	width, height float64
}

func (f *canvasFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.canvas, "canvas", "", "canvas type whose default size to use (e.g. facebook-post)")
	cmd.Flags().Float64Var(&f.width, "width", 0, "canvas width in pixels")
	cmd.Flags().Float64Var(&f.height, "height", 0, "canvas height in pixels")
}

// size resolves the flags to pixels. ok is false when nothing was given.
func (f *canvasFlags) size() (w, h float64, ok bool, err error) {
	if f.width > 0 || f.height > 0 {
		if f.width <= 0 || f.height <= 0 {
			return 0, 0, false, fmt.Errorf("--width and --height must be set together")
		}
		return f.width, f.height, true, nil
	}
	if f.canvas == "" {
		return 0, 0, false, nil
	}
	ct, err := template.ParseCanvasType(f.canvas)
	if err != nil {
		return 0, 0, false, err
	}
	w, h = ct.Dimensions()
	return w, h, true, nil
}

// assignCommand creates the assign command, which arranges assets into a
// template through the cached pipeline.
func (c *CLI) assignCommand() *cobra.Command {
	var (
		assetsPath     string
		assignmentPath string
		output         string
		cf             canvasFlags
		elements       bool
		noCache        bool
		refresh        bool
	)

	cmd := &cobra.Command{
		Use:   "assign <template-id>",
		Short: "Arrange assets into a template",
		Long: `Arrange assets into a template and print the resulting placements as JSON.

Assets are read from a JSON file (an array or {"assets": [...]}); "-" reads
stdin. Without --assignment, slots are filled automatically: required slots
first, then larger slots before smaller ones.`,
		Example: `  slotcraft assign product-spotlight --assets assets.json
  slotcraft assign story-hero --assets - --elements --canvas instagram-story -o story.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := pipeline.Request{TemplateID: args[0], Elements: elements, Refresh: refresh}

			var err error
			if req.Assets, err = pkgio.ImportAssets(assetsPath); err != nil {
				return err
			}
			if assignmentPath != "" {
				if req.Assignment, err = pkgio.ImportAssignment(assignmentPath); err != nil {
					return err
				}
			}
			if cf.width > 0 || cf.height > 0 {
				req.CanvasWidth, req.CanvasHeight = cf.width, cf.height
			}
			if cf.canvas != "" {
				if req.CanvasType, err = template.ParseCanvasType(cf.canvas); err != nil {
					return err
				}
			}

			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(c.Logger)
			res, hit, err := runner.Arrange(cmd.Context(), req)
			if err != nil {
				return err
			}
			prog.done("Arranged " + res.TemplateID)

			for _, w := range res.Warnings {
				printWarning("%s: %s", w.Code, w.Message)
			}
			printStats(res.Status.FilledCount, len(res.Applied.Template.Slots), res.Status.IsComplete, hit)
			if len(res.Status.UnfilledRequiredSlotIDs) > 0 {
				printDetail("Unfilled required: %s", strings.Join(res.Status.UnfilledRequiredSlotIDs, ", "))
			}

			if err := pkgio.ExportJSON(cmd.OutOrStdout(), output, res); err != nil {
				return err
			}
			if output != "" && output != "-" {
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&assetsPath, "assets", "a", "-", "assets JSON file (\"-\" for stdin)")
	cmd.Flags().StringVar(&assignmentPath, "assignment", "", "explicit slot→asset assignment JSON file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&elements, "elements", false, "include pixel-space canvas elements")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when a cached result exists")
	cf.register(cmd)

	return cmd
}

// statusCommand creates the status command. It applies an assignment
// without caching and reports completeness.
func (c *CLI) statusCommand() *cobra.Command {
	var (
		assetsPath     string
		assignmentPath string
		asJSON         bool
	)

	cmd := &cobra.Command{
		Use:   "status <template-id>",
		Short: "Report which required slots an assignment leaves empty",
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
			assets, err := pkgio.ImportAssets(assetsPath)
			if err != nil {
				return err
			}

			var a engine.SlotAssignment
			if assignmentPath != "" {
				slots, err := pkgio.ImportAssignment(assignmentPath)
				if err != nil {
					return err
				}
				a = engine.NewAssignment(t, slots, assets)
			} else {
				a = engine.AutoAssign(t, assets)
			}
			st := engine.Status(engine.Apply(t, a, assets))

			if asJSON {
				return pkgio.WriteJSON(cmd.OutOrStdout(), st)
			}
			if st.IsComplete {
				printSuccess("%s is complete", t.ID)
			} else {
				printWarning("%s is missing %d of %d required slots", t.ID, len(st.UnfilledRequiredSlotIDs), st.TotalRequired)
				for _, id := range st.UnfilledRequiredSlotIDs {
					printDetail("%s", id)
				}
			}
			printKeyValue("Filled", fmt.Sprintf("%d/%d", st.FilledCount, len(t.Slots)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&assetsPath, "assets", "a", "-", "assets JSON file (\"-\" for stdin)")
	cmd.Flags().StringVar(&assignmentPath, "assignment", "", "slot→asset assignment JSON file (default: automatic)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the status as JSON")

	return cmd
}

// suggestCommand creates the suggest command, which ranks templates for an
// asset pool.
func (c *CLI) suggestCommand() *cobra.Command {
	var (
		assetsPath string
		qf         queryFlags
		limit      int
		asJSON     bool
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Rank templates by how well an asset pool fills them",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := qf.query()
			if err != nil {
				return err
			}
			assets, err := pkgio.ImportAssets(assetsPath)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			out, _, err := runner.Suggest(cmd.Context(), assets, pipeline.SuggestOptions{Query: q, Limit: limit})
			if err != nil {
				return err
			}
			if asJSON {
				return pkgio.WriteJSON(cmd.OutOrStdout(), out)
			}
			renderSuggestions(cmd, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&assetsPath, "assets", "a", "-", "assets JSON file (\"-\" for stdin)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "maximum number of suggestions (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print suggestions as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	qf.register(cmd)

	return cmd
}

func renderSuggestions(cmd *cobra.Command, ss []pipeline.Suggestion) {
	rows := make([][]string, len(ss))
	for i, s := range ss {
		state := "partial"
		if s.Status.IsComplete {
			state = "complete"
		}
		rows[i] = []string{
			fmt.Sprint(i + 1), s.TemplateID, string(s.Category), state,
			fmt.Sprintf("%d/%d", s.RequiredFilled, s.Status.TotalRequired),
			fmt.Sprintf("%d/%d", s.Status.FilledCount, s.TotalSlots),
		}
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Template", "Category", "Status", "Required", "Slots").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			if col == 3 && row >= 0 && row < len(ss) && ss[row].Status.IsComplete {
				return StyleSuccess
			}
			return lipgloss.NewStyle()
		})

	fmt.Fprintln(cmd.OutOrStdout(), tbl.Render())
}
