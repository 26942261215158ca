package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/khaledhikmat/vs-analyzer/service/config"
	"golang.org/x/xerrors"
)

type localService struct {
	CfgSvc config.IService
}

// NewLocal stores uploads under the configured upload folder. Every stored file
// gets a unique name so concurrent requests never share a path.
func NewLocal(cfgsvc config.IService) IService {
	return &localService{
		CfgSvc: cfgsvc,
	}
}

func (svc *localService) StoreFile(fileName string, r io.Reader) (string, error) {
	folder := svc.CfgSvc.GetUploadFolder()
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", xerrors.Errorf("creating upload folder %s: %w", folder, err)
	}

	path := filepath.Join(folder, uuid.NewString()+"_"+safeName(fileName))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", xerrors.Errorf("creating upload file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", xerrors.Errorf("writing upload file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", xerrors.Errorf("closing upload file: %w", err)
	}

	return path, nil
}

func (svc *localService) RemoveFile(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// safeName drops any directory part and characters that are awkward on disk,
// keeping the extension that drives media dispatch.
func safeName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		return "upload"
	}

	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
}
