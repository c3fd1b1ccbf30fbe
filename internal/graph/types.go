package graph

import (
	"time"

	"unitdrive/internal/model"
)

// driveItem mirrors the provider's drive item JSON. Only the fields the
// application reads are declared; callers never see this shape — items are
// projected onto model.CloudItem.
type driveItem struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	ETag                 string    `json:"eTag"`
	Size                 int64     `json:"size"`
	WebURL               string    `json:"webUrl"`
	LastModifiedDateTime time.Time `json:"lastModifiedDateTime"`
	DownloadURL          string    `json:"@microsoft.graph.downloadUrl"`

	Folder *struct {
		ChildCount int `json:"childCount"`
	} `json:"folder,omitempty"`

	File *struct {
		MimeType string `json:"mimeType"`
	} `json:"file,omitempty"`

	Thumbnails []struct {
		Medium struct {
			URL string `json:"url"`
		} `json:"medium"`
	} `json:"thumbnails,omitempty"`
}

// driveItemList is the collection envelope for children listings. NextLink is
// set when the listing continues on another page.
type driveItemList struct {
	Value    []driveItem `json:"value"`
	NextLink string      `json:"@odata.nextLink"`
}

// shareLinkResponse is the provider's answer to a createLink request.
type shareLinkResponse struct {
	Link struct {
		WebURL string `json:"webUrl"`
	} `json:"link"`
}

func (d driveItem) toCloudItem() model.CloudItem {
	item := model.CloudItem{
		ID:           d.ID,
		Name:         d.Name,
		IsFolder:     d.Folder != nil,
		Size:         d.Size,
		LastModified: d.LastModifiedDateTime,
		DownloadURL:  d.DownloadURL,
		WebURL:       d.WebURL,
	}
	if d.Folder != nil {
		item.ChildCount = d.Folder.ChildCount
	}
	if d.File != nil {
		item.MimeType = d.File.MimeType
	}
	if len(d.Thumbnails) > 0 {
		item.ThumbnailURL = d.Thumbnails[0].Medium.URL
	}
	return item
}
