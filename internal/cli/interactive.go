package cli

import (
	"interviewprep/internal/errors"
	"interviewprep/internal/tui"
	"interviewprep/internal/types"

	"github.com/spf13/cobra"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"tui"},
	Short:   "Fill in the question form in the terminal",
	Long: `Open the question form in the terminal. Move between fields with tab,
change the round, experience and answer selectors with the arrow keys, and
press ctrl+s to generate. Each submission makes exactly one AI request.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// The form owns the terminal while it runs
		logger := errors.Discard()

		service := newService(cfg, logger)
		defer closeService(service, logger)

		return tui.Run(cmd.Context(), service, types.DefaultGenerationRequest())
	},
}
