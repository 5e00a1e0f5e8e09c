package core

// SnapshotConfig controls recording or replaying the feed fetch. Replay runs
// never touch the network, which makes filter rules and notification layouts
// reproducible while debugging.
type SnapshotConfig struct {
	Record bool   `yaml:"record,omitempty" json:"record,omitempty"`
	Replay bool   `yaml:"replay,omitempty" json:"replay,omitempty"`
	Path   string `yaml:"path,omitempty" json:"path,omitempty"`
}
