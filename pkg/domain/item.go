package domain

// Item is a single entry of a carousel.
// Key must be stable across reloads; Payload is opaque to the controller.
type Item struct {
	Key     string `json:"key" yaml:"key" mapstructure:"key"`
	Label   string `json:"label,omitempty" yaml:"label,omitempty" mapstructure:"label"`
	Payload any    `json:"payload,omitempty" yaml:"payload,omitempty" mapstructure:"payload"`
}

// Keys returns the keys of items in order.
func Keys(items []Item) []string {
	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = it.Key
	}
	return keys
}
