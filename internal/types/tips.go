package types

// SuccessBanner is shown above a freshly generated question set
const SuccessBanner = "Great! Your personalized interview questions are ready. Take your time to review and practice!"

// TipSection is a titled list of preparation tips
type TipSection struct {
	Title string   `json:"title"`
	Tips  []string `json:"tips"`
}

// Motivation is one card of the closing encouragement block
type Motivation struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

var PrepTips = []TipSection{
	{
		Title: "Before the Interview",
		Tips: []string{
			"Practice your answers out loud",
			"Research the company thoroughly",
			"Prepare 2-3 questions to ask them",
		},
	},
	{
		Title: "During the Interview",
		Tips: []string{
			"Take a moment to think before answering",
			"Use the STAR method for behavioral questions",
			"Show enthusiasm and ask clarifying questions",
		},
	},
}

var Motivations = []Motivation{
	{Title: "Confidence", Text: "Remember, you're qualified for this role. Trust your preparation and experience."},
	{Title: "Communication", Text: "Practice makes perfect. The more you rehearse, the more natural you'll sound."},
	{Title: "Success", Text: "Every interview is a learning opportunity. You're already on the path to success!"},
}

// ResultHeader renders "**Role:** X | **Round:** Y | **Experience:** Z"
func ResultHeader(req GenerationRequest) string {
	return "**Role:** " + req.JobTitle +
		" | **Round:** " + string(req.RoundType) +
		" | **Experience:** " + string(req.ExperienceBracket)
}
