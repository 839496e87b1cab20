package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/slotcraft/pkg/core/element"
	"github.com/matzehuels/slotcraft/pkg/errors"
	pkgio "github.com/matzehuels/slotcraft/pkg/io"
)

// elementsCommand creates the placements → elements conversion command.
func (c *CLI) elementsCommand() *cobra.Command {
	var (
		placementsPath string
		output         string
		cf             canvasFlags
	)

	cmd := &cobra.Command{
		Use:   "elements",
		Short: "Convert percent placements to pixel canvas elements",
		Example: `  slotcraft elements --placements placements.json --canvas instagram-post
  slotcraft elements --placements - --width 1200 --height 630 -o elements.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, h, ok, err := cf.size()
			if err != nil {
				return err
			}
			if !ok {
				return errors.New(errors.ErrCodeInvalidInput, "a canvas is required: pass --canvas or --width and --height")
			}
			ps, err := pkgio.ImportPlacements(placementsPath)
			if err != nil {
				return err
			}

			els := element.FromPlacements(ps, w, h)
			c.Logger.Debug("converted placements", "count", len(els), "width", w, "height", h)
			return pkgio.ExportJSON(cmd.OutOrStdout(), output, els)
		},
	}

	cmd.Flags().StringVarP(&placementsPath, "placements", "p", "-", "placements JSON file (\"-\" for stdin)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cf.register(cmd)

	return cmd
}

// placementsCommand creates the elements → placements conversion command.
func (c *CLI) placementsCommand() *cobra.Command {
	var (
		elementsPath string
		assetsPath   string
		output       string
		cf           canvasFlags
	)

	cmd := &cobra.Command{
		Use:   "placements",
		Short: "Convert canvas elements back to placements",
		Long: `Convert canvas elements back to placements. Elements whose asset is not in
the asset list are dropped.

With a canvas (--canvas or --width/--height), pixel geometry is converted
back to percent exactly. Without one, geometry is copied as-is.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, h, onCanvas, err := cf.size()
			if err != nil {
				return err
			}
			els, err := pkgio.ImportElements(elementsPath)
			if err != nil {
				return err
			}
			assets, err := pkgio.ImportAssets(assetsPath)
			if err != nil {
				return err
			}

			ps := element.ToPlacements(els, assets)
			if onCanvas {
				ps = element.ToPlacementsOnCanvas(els, assets, w, h)
			}
			if dropped := len(els) - len(ps); dropped > 0 {
				printWarning("Dropped %d elements without a matching asset", dropped)
			}
			return pkgio.ExportJSON(cmd.OutOrStdout(), output, ps)
		},
	}

	cmd.Flags().StringVarP(&elementsPath, "elements", "e", "-", "elements JSON file (\"-\" for stdin)")
	cmd.Flags().StringVarP(&assetsPath, "assets", "a", "", "assets JSON file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cf.register(cmd)
	_ = cmd.MarkFlagRequired("assets")

	return cmd
}
