package domain

import "time"

// File is the metadata record for a stored artifact. StorageName is the
// opaque on-storage key (never derived from user input) and DownloadToken is
// the stable opaque token download links resolve through. Both are excluded
// from JSON so listings can never leak them.
type File struct {
	FileID        string    `json:"id" dynamodbav:"file_id"`
	StorageName   string    `json:"-" dynamodbav:"storage_name"`
	OriginalName  string    `json:"filename" dynamodbav:"original_name"`
	FileType      string    `json:"file_type" dynamodbav:"file_type"`
	OwnerID       string    `json:"-" dynamodbav:"owner_id"`
	OwnerEmail    string    `json:"uploaded_by" dynamodbav:"owner_email"`
	DownloadToken string    `json:"-" dynamodbav:"download_token"`
	CreatedAt     time.Time `json:"created_at" dynamodbav:"created_at"`
}

// FileSummary is the listing view: original display name, type, creation
// time and uploader, nothing internal.
type FileSummary struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	FileType   string    `json:"file_type"`
	CreatedAt  time.Time `json:"created_at"`
	UploadedBy string    `json:"uploaded_by"`
}

// Summary derives the listing view for a file.
func (f *File) Summary() FileSummary {
	return FileSummary{
		ID:         f.FileID,
		Filename:   f.OriginalName,
		FileType:   f.FileType,
		CreatedAt:  f.CreatedAt,
		UploadedBy: f.OwnerEmail,
	}
}
