package cli

import (
	"interviewprep/internal/ai"
	"interviewprep/internal/config"
	"interviewprep/internal/credentials"
	"interviewprep/internal/errors"
)

// newService wires the credential resolver, the lazily initialized client
// handle and the prompt builder. No credential is read here; the first
// generation does that.
func newService(cfg *config.Config, logger *errors.Logger) *ai.Service {
	resolver := credentials.NewResolverFromConfig(cfg, logger)
	handle := ai.InitClient(cfg.AI, resolver, logger)
	return ai.NewService(handle, ai.NewPromptBuilderFromConfig(cfg.AI.Prompt), logger)
}

// closeService releases the completion client, if one was created
func closeService(service *ai.Service, logger *errors.Logger) {
	if err := service.Handle().Close(); err != nil {
		logger.LogError(err, "Failed to close AI client")
	}
}
