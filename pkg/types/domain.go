package types

// InstalledModel describes a model present in the inference backend.
type InstalledModel struct {
	// Model tag as known by the backend.
	// example: llama3:8b
	Name string `json:"name" example:"llama3:8b"`
	// Size on disk in bytes.
	// example: 4661224676
	Size int64 `json:"size" example:"4661224676"`
	// Last modification time as reported by the backend.
	// example: 2025-05-01T10:00:00Z
	ModifiedAt string `json:"modified_at,omitempty" example:"2025-05-01T10:00:00Z"`
	// Content digest.
	Digest string `json:"digest,omitempty"`
}
