package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mariddleh/blog/catalog"
	"github.com/mariddleh/blog/scaffold"
)

var (
	initTitle    string
	initSubtitle string
	initURL      string
)

var initCmd = &cobra.Command{
	Use:   "init <dir>",
	Short: "Create a new blog directory with a config, catalog and first post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Creating new blog: %s\n\n", dir)

		data := scaffold.Data{
			Title:    initTitle,
			Subtitle: initSubtitle,
			URL:      initURL,
			Date:     time.Now().Format(catalog.DateLayout),
		}
		if err := scaffold.Render(dir, data, out); err != nil {
			return err
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, "Done! Next steps:")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  cd %s\n", dir)
		fmt.Fprintln(out, "  blog check")
		fmt.Fprintln(out, "  blog serve")
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initTitle, "title", "个人博客", "site title")
	initCmd.Flags().StringVar(&initSubtitle, "subtitle", "", "site subtitle")
	initCmd.Flags().StringVar(&initURL, "url", "http://localhost:3000", "canonical site URL")
	rootCmd.AddCommand(initCmd)
}
