package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/freight-kpi/internal/project"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the region and project catalog",
}

var catalogCheckCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Validate a catalog file (default: configured or built-in catalog)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.Catalog.Path
		if len(args) == 1 {
			path = args[0]
		}

		c, err := project.LoadCatalog(path)
		if err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return eris.Wrap(err, "catalog check")
		}

		out := cmd.OutOrStdout()
		projects := 0
		for _, r := range c.Regions {
			projects += len(r.Projects)
		}
		_, _ = fmt.Fprintf(out, "catalog %s: %d regions, %d projects, %d rules, %d excluded\n",
			c.Version, len(c.Regions), projects, len(c.Rules), len(c.Excluded))

		unplaced := c.Unplaced()
		for _, p := range unplaced {
			_, _ = fmt.Fprintf(out, "warning: split result %q is not listed in any region\n", p)
		}
		strict, _ := cmd.Flags().GetBool("strict")
		if strict && len(unplaced) > 0 {
			return eris.Errorf("catalog check: %d unplaced split results", len(unplaced))
		}
		return nil
	},
}

func init() {
	catalogCheckCmd.Flags().Bool("strict", false, "fail when split results are missing from every region")
	catalogCmd.AddCommand(catalogCheckCmd)
	rootCmd.AddCommand(catalogCmd)
}
