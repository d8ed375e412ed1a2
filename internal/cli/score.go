package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/glowmatch/backend/internal/domain"
	"github.com/glowmatch/backend/internal/infrastructure/catalog"
	"github.com/glowmatch/backend/internal/infrastructure/catalogfile"
	"github.com/glowmatch/backend/internal/usecase"
	"github.com/spf13/cobra"
)

type scoreOptions struct {
	catalogFile string
	skinType    string
	sensitivity string
	goals       []string
	top         int
	minScore    int
	json        bool
}

func newScoreCommand(global *globalOptions) *cobra.Command {
	opts := &scoreOptions{}

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Rank a catalog export (CSV, XLSX, XLS) for a skin profile",
		Example: `  glowmatch score --catalog products.xlsx --skin-type oily --sensitivity medium --goals brightening,anti-acne
  glowmatch score --catalog export.csv --skin-type berminyak --sensitivity sedang --top 5 --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := global.commandLogger()

			profile, err := opts.profile()
			if err != nil {
				return err
			}

			f, err := os.Open(opts.catalogFile)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer f.Close()

			products, err := catalogfile.ReadProducts(f, opts.catalogFile)
			if err != nil {
				return fmt.Errorf("read catalog %s: %w", opts.catalogFile, err)
			}
			log.Debug().Int("products", len(products)).Str("file", opts.catalogFile).Msg("catalog loaded")

			ranking := usecase.NewRankingService(usecase.RankingConfig{MinScore: opts.minScore})
			result := domain.RankedCatalog{
				Items:           ranking.Rank(products, profile),
				ProfileComplete: profile != nil,
			}
			if opts.top > 0 && len(result.Items) > opts.top {
				result.Items = result.Items[:opts.top]
			}

			if opts.json {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			return writeTable(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&opts.catalogFile, "catalog", "c", "", "catalog export to rank (.csv, .xlsx or .xls)")
	cmd.Flags().StringVar(&opts.skinType, "skin-type", "", "shopper skin type (dry, normal, combination, oily)")
	cmd.Flags().StringVar(&opts.sensitivity, "sensitivity", "", "shopper sensitivity (low, medium, high)")
	cmd.Flags().StringSliceVar(&opts.goals, "goals", nil, "comma-separated skincare goals")
	cmd.Flags().IntVarP(&opts.top, "top", "n", 0, "show only the N best matches")
	cmd.Flags().IntVar(&opts.minScore, "min-score", 0, "drop matches scoring below this value")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print results as JSON")
	_ = cmd.MarkFlagRequired("catalog")

	return cmd
}

// profile builds the shopper profile from flags. No skin type and no
// sensitivity means an unscored listing.
func (o *scoreOptions) profile() (*domain.ShopperProfile, error) {
	if o.skinType == "" && o.sensitivity == "" {
		return nil, nil
	}

	profile, err := catalog.MapProfile(catalog.ProfilePayload{
		SkinType:    o.skinType,
		Sensitivity: o.sensitivity,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: skin type %q, sensitivity %q", err, o.skinType, o.sensitivity)
	}
	profile.Goals = catalog.ParseGoals(strings.Join(o.goals, ","))
	return profile, nil
}

func writeTable(w io.Writer, result domain.RankedCatalog) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tID\tNAME\tBRAND\tCATEGORY\tTAGS")
	for _, item := range result.Items {
		score := "-"
		if item.Score != nil {
			score = fmt.Sprintf("%d", *item.Score)
		}
		p := item.Product
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", score, p.ID, p.Name, p.Brand, p.Category, strings.Join(p.Tags, ", "))
	}
	return tw.Flush()
}
