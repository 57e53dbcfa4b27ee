package entities

// SuggestionType identifies which source produced a suggestion.
type SuggestionType string

const (
	// SuggestionAutocomplete comes from catalog product names.
	SuggestionAutocomplete SuggestionType = "autocomplete"

	// SuggestionCategory comes from the configured category vocabulary.
	SuggestionCategory SuggestionType = "category"

	// SuggestionPopular comes from previously tracked search queries.
	SuggestionPopular SuggestionType = "popular"
)

// Suggestion is a single completion offered for a partial query.
type Suggestion struct {
	Text string         `json:"text"`
	Type SuggestionType `json:"type"`
}
