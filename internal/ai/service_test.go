package ai

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"interviewprep/internal/config"
	"interviewprep/internal/credentials"
	"interviewprep/internal/errors"
	"interviewprep/internal/types"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingProvider records every prompt it is asked to complete
type countingProvider struct {
	mu      sync.Mutex
	prompts []string
	text    string
	err     error
	closed  bool
}

func (p *countingProvider) Complete(_ context.Context, prompt string) (*Completion, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts = append(p.prompts, prompt)
	if p.err != nil {
		return nil, p.err
	}
	return &Completion{
		Text:  p.text,
		Usage: &types.TokenUsage{InputTokens: 10, OutputTokens: 20, TotalTokens: 30},
	}, nil
}

func (p *countingProvider) GetModelInfo(context.Context) *ModelInfo {
	return &ModelInfo{Provider: "fake", Name: "fake-model", Available: true}
}

func (p *countingProvider) Close() error {
	p.closed = true
	return nil
}

func (p *countingProvider) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.prompts)
}

type serviceFixture struct {
	service   *Service
	provider  *countingProvider
	factories int
	apiKeys   []string
	env       map[string]string
}

func newServiceFixture(t *testing.T, env map[string]string) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		provider: &countingProvider{text: "**Question 1:** Tell me about yourself."},
		env:      env,
	}

	cfg := config.AIConfig{
		Provider:       config.ProviderMistral,
		Model:          "mistral-small-latest",
		Temperature:    0.7,
		CredentialName: "MISTRALAI_API_KEY",
	}
	resolver := credentials.NewResolver(cfg.CredentialName, errors.Discard(),
		credentials.WithLookupEnv(func(key string) (string, bool) {
			v, ok := f.env[key]
			return v, ok
		}))
	factory := func(_ context.Context, _ config.AIConfig, apiKey string, _ *CompletionBreaker, _ *errors.Logger) (CompletionProvider, error) {
		f.factories++
		f.apiKeys = append(f.apiKeys, apiKey)
		return f.provider, nil
	}

	handle := InitClient(cfg, resolver, errors.Discard(), WithProviderFactory(factory))
	f.service = NewService(handle, NewPromptBuilder("", ""), errors.Discard())
	f.service.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	return f
}

func TestGenerateSuccess(t *testing.T) {
	f := newServiceFixture(t, map[string]string{"MISTRALAI_API_KEY": "  key-1 "})

	req := types.DefaultGenerationRequest()
	req.RoundType = types.RoundManager
	req.ExperienceBracket = types.ExperienceMid

	result, err := f.service.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "**Question 1:** Tell me about yourself.", result.Questions)
	assert.Equal(t, req, result.Request)
	assert.Equal(t, config.ProviderMistral, result.Provider)
	assert.Equal(t, "mistral-small-latest", result.Model)
	assert.Equal(t, int64(30), result.TokenUsage.TotalTokens)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), result.GeneratedAt)

	require.Equal(t, 1, f.provider.calls())
	prompt := f.provider.prompts[0]
	assert.Contains(t, prompt, "Machine Learning Engineer")
	assert.Contains(t, prompt, "Manager Round")
	assert.Contains(t, prompt, "3-5 years")
	assert.Equal(t, []string{"key-1"}, f.apiKeys)
}

func TestGenerateReusesClient(t *testing.T) {
	f := newServiceFixture(t, map[string]string{"MISTRALAI_API_KEY": "key-1"})

	for i := 0; i < 3; i++ {
		_, err := f.service.Generate(context.Background(), types.DefaultGenerationRequest())
		require.NoError(t, err)
	}
	assert.Equal(t, 1, f.factories)
	assert.Equal(t, 3, f.provider.calls())
	assert.Equal(t, credentials.SourceEnvironment, f.service.Handle().CredentialSource())
}

func TestGenerateRejectsInputBeforeAnyCall(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.GenerationRequest)
		msg    string
	}{
		{"empty job title", func(r *types.GenerationRequest) { r.JobTitle = "" }, types.MsgJobTitleRequired},
		{"whitespace job title", func(r *types.GenerationRequest) { r.JobTitle = "   " }, types.MsgJobTitleRequired},
		{"empty background", func(r *types.GenerationRequest) { r.CandidateBackground = "\n\t" }, types.MsgBackgroundRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture(t, map[string]string{"MISTRALAI_API_KEY": "key-1"})
			req := types.DefaultGenerationRequest()
			tt.mutate(&req)

			_, err := f.service.Generate(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, errors.KindInputValidation, errors.KindOf(err))
			assert.Equal(t, tt.msg, errors.MessageOf(err))
			assert.Zero(t, f.provider.calls())
			assert.Zero(t, f.factories, "the client is not even initialized")
		})
	}
}

func TestGenerateMissingCredential(t *testing.T) {
	for name, env := range map[string]map[string]string{
		"unset":      {},
		"empty":      {"MISTRALAI_API_KEY": ""},
		"whitespace": {"MISTRALAI_API_KEY": "   "},
	} {
		t.Run(name, func(t *testing.T) {
			f := newServiceFixture(t, env)

			_, err := f.service.Generate(context.Background(), types.DefaultGenerationRequest())
			require.Error(t, err)
			assert.Equal(t, errors.KindMissingCredential, errors.KindOf(err))
			assert.Zero(t, f.provider.calls())
			assert.Zero(t, f.factories)
			assert.False(t, f.service.Handle().Initialized())
		})
	}
}

func TestGenerateRetriesInitializationAfterMissingCredential(t *testing.T) {
	f := newServiceFixture(t, map[string]string{})

	_, err := f.service.Generate(context.Background(), types.DefaultGenerationRequest())
	assert.Equal(t, errors.KindMissingCredential, errors.KindOf(err))

	f.env["MISTRALAI_API_KEY"] = "late-key"
	_, err = f.service.Generate(context.Background(), types.DefaultGenerationRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"late-key"}, f.apiKeys)
}

func TestGenerateClassifiesProviderErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errors.Kind
	}{
		{"unauthorized", &openai.RequestError{HTTPStatusCode: 401, Body: []byte(`{"message":"Unauthorized"}`)}, errors.KindAuthenticationFailure},
		{"rate limited", &openai.APIError{HTTPStatusCode: 429, Message: "Requests rate limit exceeded"}, errors.KindRateLimited},
		{"other", fmt.Errorf("dial tcp: connection refused"), errors.KindGenericFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture(t, map[string]string{"MISTRALAI_API_KEY": "key-1"})
			f.provider.err = tt.err

			_, err := f.service.Generate(context.Background(), types.DefaultGenerationRequest())
			require.Error(t, err)
			assert.Equal(t, tt.want, errors.KindOf(err))
			assert.Equal(t, 1, f.provider.calls(), "exactly one attempt")

			appErr, ok := errors.As(err)
			require.True(t, ok)
			assert.Equal(t, config.ProviderMistral, appErr.Context["provider"])
		})
	}
}

func TestGenerateResetsClientAfterAuthFailure(t *testing.T) {
	f := newServiceFixture(t, map[string]string{"MISTRALAI_API_KEY": "revoked"})
	f.provider.err = &openai.APIError{HTTPStatusCode: 401}

	_, err := f.service.Generate(context.Background(), types.DefaultGenerationRequest())
	assert.Equal(t, errors.KindAuthenticationFailure, errors.KindOf(err))
	assert.True(t, f.provider.closed)
	assert.False(t, f.service.Handle().Initialized())

	f.env["MISTRALAI_API_KEY"] = "rotated"
	f.provider.err = nil
	_, err = f.service.Generate(context.Background(), types.DefaultGenerationRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"revoked", "rotated"}, f.apiKeys)
}

func TestBuildPrompt(t *testing.T) {
	f := newServiceFixture(t, nil)

	prompt, err := f.service.BuildPrompt(types.DefaultGenerationRequest())
	require.NoError(t, err)
	assert.Contains(t, prompt, "0 years of experience")

	_, err = f.service.BuildPrompt(types.GenerationRequest{})
	assert.Equal(t, errors.KindInputValidation, errors.KindOf(err))
	assert.Zero(t, f.factories)
}

func TestConcurrentGenerateInitializesOnce(t *testing.T) {
	f := newServiceFixture(t, map[string]string{"MISTRALAI_API_KEY": "key-1"})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.service.Generate(context.Background(), types.DefaultGenerationRequest())
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, f.factories)
	assert.Equal(t, 10, f.provider.calls())
}

func TestModelInfoBeforeInitialization(t *testing.T) {
	f := newServiceFixture(t, map[string]string{"MISTRALAI_API_KEY": "key-1"})

	info := f.service.ModelInfo(context.Background())
	assert.False(t, info.Available)
	assert.Equal(t, "mistral-small-latest", info.Name)
	assert.Zero(t, f.factories)

	assert.True(t, f.service.Handle().CredentialPresent(context.Background()))
	_, err := f.service.Generate(context.Background(), types.DefaultGenerationRequest())
	require.NoError(t, err)
	assert.True(t, f.service.ModelInfo(context.Background()).Available)
}
