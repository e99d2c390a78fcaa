package mode

// Mode is the search strategy chosen for one submission.
type Mode string

// Search mode constants.
const (
	// Basic looks a watch up by reference code only.
	Basic Mode = "basic"
	// Advanced runs a multi-field filtered lookup.
	Advanced Mode = "advanced"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Basic || m == Advanced
}
