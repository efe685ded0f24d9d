package model

import "time"

// Document is the metadata of an uploaded file. The payload itself lives in
// the upload directory under Filename.
type Document struct {
	ID           int64     `json:"-" db:"id"`
	Filename     string    `json:"filename" db:"filename"`
	OriginalName string    `json:"originalname" db:"originalname"`
	Observation  *string   `json:"observation" db:"observation"`
	ContentType  string    `json:"content_type" db:"content_type"`
	Size         int64     `json:"size" db:"size"`
	UploadedAt   time.Time `json:"uploaded_at" db:"uploaded_at"`
}
