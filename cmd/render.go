package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/exchange-logger/internal/app"
	"github.com/oshokin/exchange-logger/internal/logger"
)

//nolint:gochecknoglobals // Cobra command requires a global definition for proper command-line parsing and execution.
var renderCmd = &cobra.Command{
	Use:   "render [flags] {fixtures}",
	Short: "Print exchanges recorded in YAML fixtures.",
	Long: `Render prints the request, response and error recorded in each YAML fixture.

A fixture holds up to three documents under the keys "request", "response" and "error".
Header groups ("common", "get", "post", ...) are merged like an HTTP client does,
and mapping order is kept for headers, query parameters and bodies.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, fixtures []string) {
		requestError, _ := cmd.Flags().GetBool("request-error")

		err := app.ExecuteRenderCommand(cmd.Context(), appConfig, cmd.OutOrStdout(), fixtures, app.RenderOptions{
			RequestError: requestError,
		})
		if err != nil {
			logger.Fatalf(cmd.Context(), "Failed to render: %v", err)
		}
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	renderCmd.Flags().Bool(
		"request-error",
		false,
		"print fixture errors as request errors instead of response errors.")

	rootCmd.AddCommand(renderCmd)
}
