package model

import "time"

// CloudItem is a read-only projection of a drive item returned by the storage
// provider. It is never written back; the provider owns these records.
type CloudItem struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	IsFolder     bool      `json:"isFolder"`
	ChildCount   int       `json:"childCount,omitempty"`
	MimeType     string    `json:"mimeType,omitempty"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModifiedDateTime"`
	DownloadURL  string    `json:"downloadUrl,omitempty"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	WebURL       string    `json:"webUrl,omitempty"`
}
