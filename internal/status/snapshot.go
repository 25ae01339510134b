// internal/status/snapshot.go
package status

// Snapshot is a read-only view of the engine for rendering.
type Snapshot struct {
	Mode      string // "RTU", "TCP" or empty when disconnected
	Endpoint  string
	Connected bool
	Health    uint16
	Packets   uint64
	Errors    uint64
	LastError string
}
