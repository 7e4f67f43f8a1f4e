package interfaces

import "context"

//go:generate mockgen -source=file_store_interface.go -destination=mocks/mock_file_store_interface.go -package=mock_interfaces

// UploadResult is what the object store hands back for a stored file.
type UploadResult struct {
	URL        string
	ProviderID string
}

// IFileStore abstracts the object store holding quote documents (e.g. S3).
type IFileStore interface {
	Upload(ctx context.Context, content []byte, filename, mimeType string) (UploadResult, error)
	Delete(ctx context.Context, providerID string) error
}
