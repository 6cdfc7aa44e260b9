package entity

// NetworkEntry holds the configuration for a single network as read from the config file.
// Accounts are secret keys; they must never be logged or printed unmasked.
type NetworkEntry struct {
	Name     string   `json:"name" yaml:"name"`
	URL      string   `json:"url" yaml:"url"`
	Accounts []string `json:"-" yaml:"accounts"`
}

// HasEndpoint reports whether the entry can be queried at all.
func (n NetworkEntry) HasEndpoint() bool {
	return n.URL != ""
}
