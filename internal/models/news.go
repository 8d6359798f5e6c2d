package models

import "time"

// News is a published announcement, optionally carrying one uploaded attachment.
type News struct {
	ID                 string    `db:"id" json:"id"`
	Title              string    `db:"title" json:"title"`
	Content            string    `db:"content" json:"content"`
	Attachment         *string   `db:"attachment" json:"attachment,omitempty"`
	AttachmentOriginal *string   `db:"attachment_original" json:"attachment_original,omitempty"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// HasAttachment reports whether a stored file belongs to this entry.
func (n News) HasAttachment() bool {
	return n.Attachment != nil && *n.Attachment != ""
}

// AttachmentIsImage reports whether the attachment can be shown inline.
func (n News) AttachmentIsImage() bool {
	if !n.HasAttachment() {
		return false
	}
	name := *n.Attachment
	for _, ext := range []string{".jpg", ".png"} {
		if len(name) > len(ext) && name[len(name)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// StoredFile describes an accepted upload.
type StoredFile struct {
	Name         string
	OriginalName string
	Size         int64
}
