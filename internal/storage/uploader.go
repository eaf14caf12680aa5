package storage

import (
	"context"
	"errors"
)

// Uploader define la interfaz del gateway de subida de documentos:
// recibe un archivo local y devuelve una URL estable.
type Uploader interface {
	Upload(ctx context.Context, localPath, originalName string) (string, error)
}

type disabledUploader struct {
	reason string
}

func NewDisabledUploader(reason string) Uploader {
	return &disabledUploader{reason: reason}
}

func (u *disabledUploader) Upload(_ context.Context, _ string, _ string) (string, error) {
	if u.reason == "" {
		return "", errors.New("document uploader disabled")
	}
	return "", errors.New(u.reason)
}
