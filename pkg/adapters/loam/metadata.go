package loam

// ItemMetadata is the frontmatter (or JSON body) of a deck document.
type ItemMetadata struct {
	// Key overrides the document id. Extensions are stripped either way.
	Key   string `json:"key" mapstructure:"key"`
	Label string `json:"label" mapstructure:"label"`
	// Order sorts the deck; documents without one follow, by key.
	Order any `json:"order" mapstructure:"order"`
	// Hidden documents are skipped.
	Hidden  bool           `json:"hidden" mapstructure:"hidden"`
	Payload map[string]any `json:"payload" mapstructure:"payload"`
}
