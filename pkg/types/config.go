package types

import "time"

// ConversionBackend identifies the external docx-to-pdf converter.
type ConversionBackend string

const (
	BackendAbiword     ConversionBackend = "abiword"
	BackendLibreOffice ConversionBackend = "libreoffice"
)

// ConversionConfig holds settings for the docx-to-pdf conversion stage.
type ConversionConfig struct {
	// Backend selects the converter. Empty means detect from PATH.
	Backend ConversionBackend `json:"backend" yaml:"backend"`

	// Binary overrides the converter executable (e.g. "/usr/bin/abiword").
	Binary string `json:"binary,omitempty" yaml:"binary,omitempty"`

	// Timeout bounds a single converter run (default 2m).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Strict makes a failed conversion fail the request. When false the
	// editable file is returned instead and the failure is only logged.
	Strict bool `json:"strict" yaml:"strict"`
}

// EncryptionConfig holds settings for password protection.
type EncryptionConfig struct {
	// PDFOwnerPassword is the owner password for encrypted PDFs. Empty means
	// reuse the user password.
	PDFOwnerPassword string `json:"pdf_owner_password,omitempty" yaml:"pdf_owner_password,omitempty"`
}

// LedgerConfig holds settings for the generated-artifact ledger.
type LedgerConfig struct {
	// Path is the SQLite database file. Empty disables the ledger.
	Path string `json:"path" yaml:"path"`
}

// ServeConfig holds settings for the HTTP surface.
type ServeConfig struct {
	// Addr is the listen address (default ":8000").
	Addr string `json:"addr" yaml:"addr"`
}

// ReportsConfig groups all stage configurations for the pipeline.
type ReportsConfig struct {
	// OutputDir is the directory every generated file is written to
	// (default "reports").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	Conversion ConversionConfig `json:"conversion" yaml:"conversion"`
	Encryption EncryptionConfig `json:"encryption" yaml:"encryption"`
	Ledger     LedgerConfig     `json:"ledger" yaml:"ledger"`
	Serve      ServeConfig      `json:"serve" yaml:"serve"`
}
