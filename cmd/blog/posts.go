package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mariddleh/blog"
	"github.com/mariddleh/blog/catalog"
)

var (
	postsSearch   string
	postsTag      string
	postsCategory string
	postsTags     bool
)

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "List the catalog's posts, newest first",
	Long: `Lists the posts the home page would show for the given filters.
With --tags, lists the tag cloud instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := blog.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		c, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if postsTags {
			for _, t := range catalog.AllTags(c) {
				fmt.Fprintln(out, t)
			}
			return nil
		}

		posts := catalog.VisiblePosts(c, catalog.NewFilterState(postsSearch, postsTag, postsCategory))
		if len(posts) == 0 {
			fmt.Fprintln(out, dimStyle.Render("no matching posts"))
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tID\tCATEGORY\tTAGS\tTITLE")
		for _, p := range posts {
			category := p.Category
			if category == "" {
				category = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.Date, p.ID, category, strings.Join(p.Tags, ","), p.Title)
		}
		return w.Flush()
	},
}

func init() {
	postsCmd.Flags().StringVarP(&postsSearch, "search", "s", "", "case-insensitive title/excerpt search")
	postsCmd.Flags().StringVarP(&postsTag, "tag", "t", "", "only posts with this tag")
	postsCmd.Flags().StringVarP(&postsCategory, "category", "c", "", "only posts in this category")
	postsCmd.Flags().BoolVar(&postsTags, "tags", false, "list tags instead of posts")
	rootCmd.AddCommand(postsCmd)
}
