package model

// Label is the display descriptor for a label id.
// Color is a "#RRGGBB" hex string.
type Label struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Color       string `json:"color" yaml:"color"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// DisplayName returns Name, or ID when no name was configured
func (l Label) DisplayName() string {
	if l.Name != "" {
		return l.Name
	}
	return l.ID
}
