package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mariddleh/blog"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Fetch and convert every post's content",
	Long: `Fetches the content of every post in the catalog through the configured
source, converts it, and reports the posts that would show the load failure
page. Front matter that disagrees with the catalog title, date or tags is
reported as a warning.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := blog.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		app, err := blog.New(cfg, blog.WithLogger(blog.NewLogger(os.Stderr, log.WarnLevel)))
		if err != nil {
			return err
		}

		failed := make(map[string]error)
		for _, err := range app.CheckContent(cmd.Context()) {
			var le *blog.LoadError
			if errors.As(err, &le) {
				failed[le.PostID] = le.Err
			}
		}

		out := cmd.OutOrStdout()
		for _, p := range app.Catalog.Posts() {
			if err, ok := failed[p.ID]; ok {
				fmt.Fprintf(out, "%s %s %s\n", failStyle.Render("FAIL"), p.ID, dimStyle.Render(err.Error()))
				continue
			}
			fmt.Fprintf(out, "%s %s\n", okStyle.Render("ok  "), p.ID)
		}
		for _, m := range app.CheckFrontMatter(cmd.Context()) {
			fmt.Fprintf(out, "%s %s %s\n", warnStyle.Render("WARN"), m.PostID,
				dimStyle.Render(fmt.Sprintf("front matter %s %q, catalog %q", m.Field, m.FrontMatter, m.Catalog)))
		}
		if len(failed) > 0 {
			return fmt.Errorf("%d of %d posts failed to load", len(failed), app.Catalog.Len())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
