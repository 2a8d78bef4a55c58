package errors

// Guidance is the operator-facing explanation of a failed generation.
type Guidance struct {
	Kind    Kind     `json:"kind"`
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Steps   []string `json:"steps,omitempty"`
}

var guidanceByKind = map[Kind]Guidance{
	KindMissingCredential: {
		Title:   "API key not found",
		Summary: "No API key is configured for the completion service.",
		Steps: []string{
			"Create a .env file in the working directory containing MISTRALAI_API_KEY=your_key_here",
			"Or add the key to the secrets file (secrets.file) or the Vault path (vault.secrets.credential)",
			"Get your API key from the Mistral AI Console: https://console.mistral.ai/",
		},
	},
	KindAuthenticationFailure: {
		Title:   "Authentication failed",
		Summary: "The completion service rejected the configured API key.",
		Steps: []string{
			"Verify your API key is correct and has not expired",
			"Check that your account has billing set up",
			"Generate a new API key from the provider console",
			"Update the key in your .env file or secret store",
			"Restart the application",
		},
	},
	KindRateLimited: {
		Title:   "Rate limit exceeded",
		Summary: "The completion service is throttling requests.",
		Steps: []string{
			"Wait a moment and try again",
			"Check your API usage limits in the provider console",
		},
	},
	KindInputValidation: {
		Title:   "Missing information",
		Summary: "Some required fields are empty or invalid.",
		Steps: []string{
			"Fill in the job role and your background, then submit again",
		},
	},
	KindGenericFailure: {
		Title:   "Something went wrong",
		Summary: "The request to the completion service failed.",
		Steps: []string{
			"Please try again",
			"If the problem persists, check the server logs for details",
		},
	},
}

// GuidanceFor returns the title, summary and remediation steps for kind.
// Unknown kinds get the generic guidance.
func GuidanceFor(kind Kind) Guidance {
	g, ok := guidanceByKind[kind]
	if !ok {
		kind = KindGenericFailure
		g = guidanceByKind[KindGenericFailure]
	}
	g.Kind = kind
	g.Steps = append([]string(nil), g.Steps...)
	return g
}

// GuidanceForError classifies err and returns its guidance. Validation
// failures carry their own message as the summary.
func GuidanceForError(err error) Guidance {
	kind := KindOf(err)
	g := GuidanceFor(kind)
	if kind == KindInputValidation {
		if msg := MessageOf(err); msg != "" {
			g.Summary = msg
		}
	}
	return g
}

// MessageOf returns the user-facing message of an AppError, or the plain
// error text for anything else.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	if appErr, ok := As(err); ok {
		return appErr.Message
	}
	return err.Error()
}
