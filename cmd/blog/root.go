package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "blog",
	Short: "A personal blog server",
	Long: `blog serves a personal blog: a catalog of posts with search, tag and
category filtering, single posts rendered from markdown, an about page,
an RSS feed and a sitemap.

Configuration is read from a YAML file and BLOG_* environment variables.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "blog.yaml", "config file path")
}

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A9DC76"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD866"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6188"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#727072"))
)
