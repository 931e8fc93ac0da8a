// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package encrypt password-protects generated reports. PDFs are re-written
// with AES-256 encryption; docx files are wrapped in an ECMA-376 agile
// encryption container. Both write an encrypt_-prefixed sibling and leave
// the source untouched.
package encrypt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/protocol-reports/pkg/types"
)

const (
	// Prefix is prepended to the report name of every encrypted file.
	Prefix = "encrypt_"

	pdfKeyLength = 256
)

var (
	// ErrSourceMissing is returned when the file to encrypt does not exist.
	ErrSourceMissing = errors.New("encryption source missing")

	// ErrBackend is returned when the encryption library rejects the input.
	ErrBackend = errors.New("encryption failed")
)

// Encrypter protects one file with a password.
type Encrypter interface {
	// Encrypt writes encrypt_<name><ext of path> next to path and returns
	// the new path.
	Encrypt(path, name, password string) (string, error)
}

// OutputPath returns where the encrypted copy of path is written.
func OutputPath(path, name string) string {
	return filepath.Join(filepath.Dir(path), Prefix+name+filepath.Ext(path))
}

// For returns the encrypter for a document type.
func For(docType types.DocumentType, cfg types.EncryptionConfig) (Encrypter, error) {
	switch docType {
	case types.DocumentPDF:
		return &PDF{OwnerPassword: cfg.PDFOwnerPassword}, nil
	case types.DocumentDocx:
		return &Docx{}, nil
	default:
		return nil, fmt.Errorf("no encrypter for document type %q", docType)
	}
}

// PDF encrypts PDF files. The password becomes the user password needed to
// open the file.
type PDF struct {
	// OwnerPassword grants full permissions. Empty means use the user
	// password.
	OwnerPassword string
}

func (p *PDF) Encrypt(path, name, password string) (string, error) {
	if err := checkSource(path); err != nil {
		return "", err
	}

	owner := p.OwnerPassword
	if owner == "" {
		owner = password
	}
	out := OutputPath(path, name)
	conf := model.NewAESConfiguration(password, owner, pdfKeyLength)
	if err := api.EncryptFile(path, out, conf); err != nil {
		os.Remove(out)
		return "", fmt.Errorf("%w: %s: %w", ErrBackend, filepath.Base(path), err)
	}
	return out, nil
}

// Docx encrypts Office Open XML files.
type Docx struct{}

func (d *Docx) Encrypt(path, name, password string) (string, error) {
	if err := checkSource(path); err != nil {
		return "", err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	sealed, err := excelize.Encrypt(raw, &excelize.Options{Password: password})
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrBackend, filepath.Base(path), err)
	}

	out := OutputPath(path, name)
	if err := os.WriteFile(out, sealed, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", out, err)
	}
	return out, nil
}

func checkSource(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSourceMissing, path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrSourceMissing, path)
	}
	return nil
}
