package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"marquee/internal/config"
	"marquee/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show service and environment status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			for _, line := range renderSectionHeader("Environment", colorize) {
				fmt.Fprintln(stdout, line)
			}
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				kind := statusWarn
				if result.Passed {
					kind = statusOK
				}
				fmt.Fprintln(stdout, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Configuration", colorize) {
				fmt.Fprintln(stdout, line)
			}
			language := cfg.TMDB.Language
			if language == "" {
				language = "(provider default)"
			}
			fmt.Fprintln(stdout, renderStatusLine("Bind address", statusInfo, cfg.Server.Bind, colorize))
			fmt.Fprintln(stdout, renderStatusLine("Provider URL", statusInfo, cfg.TMDB.BaseURL, colorize))
			fmt.Fprintln(stdout, renderStatusLine("Language", statusInfo, language, colorize))
			fmt.Fprintln(stdout, renderStatusLine("CORS", statusInfo, corsSummary(cfg), colorize))
			fmt.Fprintln(stdout, renderStatusLine("Log directory", statusInfo, cfg.Paths.LogDir, colorize))
			return nil
		},
	}
}

func corsSummary(cfg *config.Config) string {
	if !cfg.CORS.Enabled {
		return "disabled"
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		return "enabled"
	}
	return "enabled (" + strings.Join(cfg.CORS.AllowedOrigins, ", ") + ")"
}
