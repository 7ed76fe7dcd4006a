package model

import "time"

// EntityType is the fixed vocabulary of entity categories produced by the
// indexing pipeline. Anything else maps to EntityDefault.
type EntityType string

const (
	EntityPerson       EntityType = "person"
	EntityOrganization EntityType = "organization"
	EntityLocation     EntityType = "location"
	EntityConcept      EntityType = "concept"
	EntityEvent        EntityType = "event"
	EntityTechnology   EntityType = "technology"
	EntityDefault      EntityType = "default"
)

// NormalizeEntityType maps an arbitrary type tag onto the known vocabulary.
func NormalizeEntityType(s string) EntityType {
	switch EntityType(s) {
	case EntityPerson, EntityOrganization, EntityLocation,
		EntityConcept, EntityEvent, EntityTechnology:
		return EntityType(s)
	default:
		return EntityDefault
	}
}

// Entity is a node in the knowledge graph. Entities are created by the
// external indexer and are immutable within one load cycle.
type Entity struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Description string     `json:"description,omitempty"`
	Degree      int        `json:"degree"`
	CommunityID string     `json:"community_id,omitempty"`
	X           *float64   `json:"x,omitempty"`
	Y           *float64   `json:"y,omitempty"`
}

// Relationship is a directed, typed, weighted edge between two entities.
type Relationship struct {
	ID       string  `json:"id"`
	SourceID string  `json:"source_id"`
	TargetID string  `json:"target_id"`
	Type     string  `json:"relationship_type"`
	Weight   float64 `json:"weight"`
}

// Community is a detected cluster of densely-interconnected entities.
// Read-only aggregate; never mutated client-side.
type Community struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Size        int      `json:"size"`
	EntityIDs   []string `json:"entities"`
}

// GraphPayload is the raw graph data returned by the indexing service for a
// set of documents.
type GraphPayload struct {
	Entities      []Entity       `json:"entities"`
	Relationships []Relationship `json:"relationships"`
	Communities   []Community    `json:"communities"`
	GeneratedAt   time.Time      `json:"generated_at"`
}

// Empty reports whether the payload holds no entities.
func (p *GraphPayload) Empty() bool {
	return p == nil || len(p.Entities) == 0
}

// IndexingState is the lifecycle state of one indexing target.
type IndexingState string

const (
	StateQueued    IndexingState = "queued"
	StateIndexing  IndexingState = "indexing"
	StateCompleted IndexingState = "completed"
	StateErrored   IndexingState = "error"
	StateCancelled IndexingState = "cancelled"
)

// Terminal reports whether no further progress is expected for this run.
func (s IndexingState) Terminal() bool {
	return s == StateCompleted || s == StateCancelled
}

// IndexingProgress is the polled status of one document's indexing run.
type IndexingProgress struct {
	FileID       string        `json:"file_id"`
	State        IndexingState `json:"status"`
	CurrentStep  string        `json:"current_step"`
	Percent      float64       `json:"progress_percentage"`
	ErrorMessage string        `json:"error_message,omitempty"`
	StartedAt    *time.Time    `json:"started_at,omitempty"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty"`
}

// FileInfo describes an uploaded document as known to the service.
type FileInfo struct {
	ID         string        `json:"id"`
	Filename   string        `json:"filename"`
	Size       int64         `json:"size"`
	UploadedAt time.Time     `json:"upload_date"`
	State      IndexingState `json:"status"`
	Entities   int           `json:"entities_count,omitempty"`
	Relations  int           `json:"relationships_count,omitempty"`
}

// ChatSource is a citation attached to the final chunk of a streamed answer.
type ChatSource struct {
	FileID    string   `json:"file_id"`
	Filename  string   `json:"filename"`
	ChunkID   string   `json:"chunk_id,omitempty"`
	Relevance *float64 `json:"relevance_score,omitempty"`
}

// StreamChunk is one element of the chat stream. The sequence is finite and
// in-order, terminated by exactly one chunk with IsFinal set (or by a chunk
// carrying Error, which ends the stream early).
type StreamChunk struct {
	ChunkID string       `json:"chunk_id"`
	Content string       `json:"content"`
	IsFinal bool         `json:"is_final"`
	Sources []ChatSource `json:"sources,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// ChatMode selects between document-scoped and corpus-wide answering.
type ChatMode string

const (
	ChatLocal  ChatMode = "local"
	ChatGlobal ChatMode = "global"
)
