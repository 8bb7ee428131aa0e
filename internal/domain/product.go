package domain

// Product strings shown by every surface.
const (
	ProductName = "LexBrief AI"
	Tagline     = "Court Judgement Summarization & Precedent Finder"
	Disclaimer  = "This system provides AI-generated summaries for research purposes only and does not constitute legal advice."
)
