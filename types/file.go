package types

import "time"

// File describes an entry in the simulated file listing. No file
// content exists anywhere; these records are fabricated on demand.
type File struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	MimeType   string    `json:"mimeType"`
	UploadedAt time.Time `json:"uploadedAt"`
}
