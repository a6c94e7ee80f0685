package domain

import "time"

// Course is a Google Classroom course the user belongs to.
type Course struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Section string `json:"section,omitempty"`
	State   string `json:"state"`
	Link    string `json:"link,omitempty"`
}

// MaterialKind identifies what a course material points at.
type MaterialKind string

// Material kinds.
const (
	MaterialDriveFile MaterialKind = "drive_file"
	MaterialLink      MaterialKind = "link"
	MaterialVideo     MaterialKind = "youtube"
	MaterialForm      MaterialKind = "form"
)

// Material is an attachment on coursework, a course material post or an announcement.
type Material struct {
	Kind  MaterialKind `json:"kind"`
	Title string       `json:"title"`
	// FileID is set for Drive files.
	FileID string `json:"file_id,omitempty"`
	URL    string `json:"url,omitempty"`
}

// CourseItem is a coursework entry, course material post or announcement.
type CourseItem struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Materials   []Material `json:"materials,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Link        string     `json:"link,omitempty"`
}

// FetchedMaterial is a downloaded PDF ready to be uploaded.
type FetchedMaterial struct {
	Filename string
	Data     []byte
	Source   string
}
