package llm

// Model tiers selected by the intelligence-level selector.
const (
	ModelHigh   = "gpt-5-mini"
	ModelMedium = "gpt-5-nano"
	ModelLow    = "gpt-4o-mini"
)

// Verbosity values per model family. gpt-5 models accept "low";
// gpt-4o-mini does not, so it runs at "medium".
const (
	verbosityLow    = "low"
	verbosityMedium = "medium"
)

// ModelForLevel maps an intelligence-level selector state to a model.
// Unknown or empty levels select the low tier.
func ModelForLevel(level string) string {
	switch level {
	case "High":
		return ModelHigh
	case "Medium":
		return ModelMedium
	default:
		return ModelLow
	}
}

// verbosityFor returns the verbosity a model family supports.
func verbosityFor(model string) string {
	switch model {
	case ModelHigh, ModelMedium:
		return verbosityLow
	default:
		return verbosityMedium
	}
}
