package storage

import "io"

// IService holds uploaded media for the lifetime of one request.
type IService interface {
	StoreFile(fileName string, r io.Reader) (string, error)
	RemoveFile(path string) error
}
