package shared

// Share describes one registry entry at the moment ListShares was called.
type Share struct {
	Tag       string     `json:"tag"`
	Creator   Identity   `json:"creator"`
	Consumers []Identity `json:"consumers"`
	Type      string     `json:"type"`
}
