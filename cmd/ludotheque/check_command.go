package main

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"ludotheque/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check directories, credentials and remote services",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			var remote preflight.Authenticator
			if client, err := ctx.remote(); err == nil {
				remote = client
			}
			results := preflight.RunAll(cmd.Context(), cfg, remote)

			out := cmd.OutOrStdout()
			color := colorEnabled(out)
			rows := make([][]string, 0, len(results))
			for _, result := range results {
				rows = append(rows, []string{result.Name, checkStatus(result, color), result.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows, nil))
			if preflight.Failed(results) {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}
}

func checkStatus(result preflight.Result, color bool) string {
	label := "ok"
	colors := text.Colors{text.FgGreen}
	switch {
	case result.Passed:
	case result.Optional:
		label = "missing"
		colors = text.Colors{text.FgYellow}
	default:
		label = "failed"
		colors = text.Colors{text.FgRed}
	}
	if !color {
		return label
	}
	return colors.Sprint(label)
}
