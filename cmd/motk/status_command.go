package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"motk/internal/config"
	"motk/internal/entity"
	"motk/internal/preflight"
	"motk/internal/sheet"
)

type statusReport struct {
	ConfigPath   string                 `json:"config_path"`
	ConfigExists bool                   `json:"config_exists"`
	Backend      string                 `json:"backend"`
	Provider     string                 `json:"storage_provider"`
	Workbook     *sheet.SpreadsheetInfo `json:"workbook,omitempty"`
	EntityCounts []entityCount          `json:"entity_counts"`
	Checks       []preflight.Result     `json:"checks"`
}

type entityCount struct {
	Type  string `json:"type"`
	Sheet string `json:"sheet"`
	Rows  int    `json:"rows"`
	Error string `json:"error,omitempty"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration, backing store, and environment status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var path string
			if ctx.configFlag != nil {
				path = strings.TrimSpace(*ctx.configFlag)
			}
			_, resolvedPath, exists, err := resolveConfigForStatus(path)
			if err != nil {
				return err
			}

			report := statusReport{
				ConfigPath:   resolvedPath,
				ConfigExists: exists,
				Backend:      cfg.Sheets.Backend,
				Provider:     cfg.Storage.Provider,
			}

			err = ctx.withClient(func(client sheet.Client) error {
				if info, infoErr := client.GetSpreadsheetInfo(cmd.Context()); infoErr == nil {
					report.Workbook = info
				}
				for _, schema := range entity.Schemas() {
					count := entityCount{Type: string(schema.Type), Sheet: schema.Sheet}
					rows, countErr := client.GetRowCount(cmd.Context(), schema.Sheet)
					if countErr != nil {
						count.Error = countErr.Error()
					} else if rows > 0 {
						// Header row does not count as an entity.
						count.Rows = rows - 1
					}
					report.EntityCounts = append(report.EntityCounts, count)
				}
				report.Checks = preflight.RunAll(cmd.Context(), cfg, client)
				return nil
			})
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, report)
			}
			renderStatusReport(cmd, report)
			return nil
		},
	}
}

// resolveConfigForStatus reloads the config to recover the resolved path and
// whether the file exists, which Load reports but ensureConfig drops.
func resolveConfigForStatus(path string) (*config.Config, string, bool, error) {
	return config.Load(path)
}

func renderStatusReport(cmd *cobra.Command, report statusReport) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	for _, line := range renderSectionHeader("Configuration", colorize) {
		fmt.Fprintln(out, line)
	}
	pathDetail := report.ConfigPath
	pathKind := statusOK
	if !report.ConfigExists {
		pathDetail += " (not found, defaults in use)"
		pathKind = statusWarn
	}
	fmt.Fprintln(out, renderStatusLine("Config file", pathKind, pathDetail, colorize))
	fmt.Fprintln(out, renderStatusLine("Sheets backend", statusInfo, report.Backend, colorize))
	fmt.Fprintln(out, renderStatusLine("Storage provider", statusInfo, report.Provider, colorize))
	fmt.Fprintln(out)

	for _, line := range renderSectionHeader("Backing Store", colorize) {
		fmt.Fprintln(out, line)
	}
	if report.Workbook != nil {
		detail := fmt.Sprintf("%s (%d sheets)", report.Workbook.Title, report.Workbook.SheetCount)
		fmt.Fprintln(out, renderStatusLine("Workbook", statusOK, detail, colorize))
	} else {
		fmt.Fprintln(out, renderStatusLine("Workbook", statusError, "unreachable", colorize))
	}
	for _, count := range report.EntityCounts {
		if count.Error != "" {
			fmt.Fprintln(out, renderStatusLine(count.Sheet, statusWarn, count.Error, colorize))
			continue
		}
		fmt.Fprintln(out, renderStatusLine(count.Sheet, statusOK, fmt.Sprintf("%d %s(s)", count.Rows, count.Type), colorize))
	}
	fmt.Fprintln(out)

	for _, line := range renderSectionHeader("Environment Checks", colorize) {
		fmt.Fprintln(out, line)
	}
	for _, check := range report.Checks {
		kind := statusError
		if check.Passed {
			kind = statusOK
		}
		fmt.Fprintln(out, renderStatusLine(check.Name, kind, check.Detail, colorize))
	}
}
