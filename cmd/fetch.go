package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/exchange-logger/internal/app"
	"github.com/oshokin/exchange-logger/internal/logger"
)

//nolint:gochecknoglobals // Cobra command requires a global definition for proper command-line parsing and execution.
var fetchCmd = &cobra.Command{
	Use:   "fetch [flags] {url}",
	Short: "Send a request and print the exchange.",
	Long: `Fetch sends one HTTP request and prints the request, the response
or the failure as it happens. The response body can be saved to a file.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()

		opts := app.FetchOptions{URL: args[0]}
		opts.Method, _ = flags.GetString("method")
		opts.Headers, _ = flags.GetStringArray("header")
		opts.Data, _ = flags.GetString("data")
		opts.Output, _ = flags.GetString("output")

		if _, err := app.ExecuteFetchCommand(cmd.Context(), appConfig, opts); err != nil {
			logger.Fatalf(cmd.Context(), "Failed to fetch: %v", err)
		}
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	fetchCmdFlags := fetchCmd.Flags()

	fetchCmdFlags.StringP(
		"method",
		"X",
		"GET",
		"HTTP method to use.")

	fetchCmdFlags.StringArrayP(
		"header",
		"H",
		nil,
		"request header in 'Name: value' form, may be repeated.")

	fetchCmdFlags.StringP(
		"data",
		"d",
		"",
		"request body.")

	fetchCmdFlags.StringP(
		"output",
		"o",
		"",
		"file or directory to save the response body to.")

	fetchCmdFlags.String(
		"timeout",
		"",
		"request timeout, for example: 30s, 2m.")

	fetchCmdFlags.StringP(
		"user-agent",
		"A",
		"",
		"User-Agent header sent when the request has none.")

	rootCmd.AddCommand(fetchCmd)
}
