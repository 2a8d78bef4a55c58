package cli

import (
	"fmt"

	"interviewprep/internal/common"
	"interviewprep/internal/errors"
	"interviewprep/internal/types"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate interview questions for a role",
	Long: `Generate five interview questions for a job role, tailored to the interview
round, your experience level and your background. Model answers are
included unless --answers=false is given.

The round accepts the full label ("Technical Round") or its first word
("technical"); the experience level works the same way ("Mid Level (3-5 years)"
or "mid").`,
	Example: `  interviewprep generate --job-title "Data Engineer" --round technical --experience mid \
    --background-file background.txt
  interviewprep generate --answers=false --format json -o questions.json
  interviewprep generate --dry-run`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if generateConfig.OutputFormat == "" {
			generateConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(generateConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runGenerate,
}

var (
	generateConfig common.CommandConfig
	generateFlags  struct {
		jobTitle       string
		round          string
		experience     string
		includeAnswers bool
		background     string
		backgroundFile string
		dryRun         bool
	}
)

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&generateFlags.jobTitle, "job-title", "j", types.DefaultJobTitle, "Job role to prepare for")
	f.StringVarP(&generateFlags.round, "round", "r", string(types.DefaultRoundType), "Interview round")
	f.StringVarP(&generateFlags.experience, "experience", "e", string(types.DefaultExperienceBracket), "Experience level")
	f.BoolVar(&generateFlags.includeAnswers, "answers", true, "Include model answers")
	f.StringVarP(&generateFlags.background, "background", "b", types.DefaultBackground, "Your background as text")
	f.StringVar(&generateFlags.backgroundFile, "background-file", "", "Read your background from a text file")
	f.BoolVar(&generateFlags.dryRun, "dry-run", false, "Print the prompt instead of calling the AI provider")
	f.StringVarP(&generateConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	f.StringVar(&generateConfig.OutputFormat, "format", "", "Output format: json, yaml, text, or markdown")

	generateCmd.MarkFlagsMutuallyExclusive("background", "background-file")

	// Add completion for enum flags
	_ = generateCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return common.NewOutputHandler(nil).GetSupportedFormats(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = generateCmd.RegisterFlagCompletionFunc("round", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return labels(types.RoundTypes), cobra.ShellCompDirectiveNoFileComp
	})
	_ = generateCmd.RegisterFlagCompletionFunc("experience", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return labels(types.ExperienceBrackets), cobra.ShellCompDirectiveNoFileComp
	})
}

func labels[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// buildRequest turns the flags into a generation request. Validation of the
// free-text fields is left to the caller.
func buildRequest(logger *errors.Logger) (types.GenerationRequest, error) {
	round, err := types.ParseRoundType(generateFlags.round)
	if err != nil {
		return types.GenerationRequest{}, errors.NewValidationError(errors.ErrCodeInputValidation,
			fmt.Sprintf("Unknown interview round %q", generateFlags.round), err).
			WithContext("field", "roundType")
	}
	experience, err := types.ParseExperienceBracket(generateFlags.experience)
	if err != nil {
		return types.GenerationRequest{}, errors.NewValidationError(errors.ErrCodeInputValidation,
			fmt.Sprintf("Unknown experience level %q", generateFlags.experience), err).
			WithContext("field", "experienceBracket")
	}

	background := generateFlags.background
	if generateFlags.backgroundFile != "" {
		background, err = common.NewFileProcessor(logger).ReadBackground(generateFlags.backgroundFile)
		if err != nil {
			return types.GenerationRequest{}, err
		}
	}

	return types.GenerationRequest{
		JobTitle:            generateFlags.jobTitle,
		RoundType:           round,
		ExperienceBracket:   experience,
		IncludeAnswers:      generateFlags.includeAnswers,
		CandidateBackground: background,
	}, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	req, err := buildRequest(logger)
	if err != nil {
		return reportError(cmd, err)
	}

	service := newService(cfg, logger)
	defer closeService(service, logger)

	out := common.NewOutputHandlerWithWriter(logger, cmd.OutOrStdout())

	if generateFlags.dryRun {
		prompt, err := service.BuildPrompt(req)
		if err != nil {
			return reportError(cmd, err)
		}
		return out.Write(prompt+"\n", generateConfig.OutputFile)
	}

	if err := common.RunGenerateCommand(cmd.Context(), logger, out, generateConfig, req, service.Generate); err != nil {
		return reportError(cmd, err)
	}
	logger.Info("Question generation completed successfully")
	return nil
}

// reportError prints the remediation for err and returns it unchanged
func reportError(cmd *cobra.Command, err error) error {
	g := errors.GuidanceForError(err)
	cmd.PrintErrln(g.Title + ": " + g.Summary)
	for i, step := range g.Steps {
		cmd.PrintErrf("  %d. %s\n", i+1, step)
	}
	return err
}
