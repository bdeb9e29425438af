package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fekuna/omnipos-register/internal/apperror"
	"github.com/fekuna/omnipos-register/internal/model"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml"; empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", apperror.Invalid("export", "format", fmt.Sprintf("unsupported %q", s))
	}
}

// Document is an import payload. Absent sections are nil and leave the
// matching part of the snapshot alone.
type Document struct {
	Settings  *model.Settings   `json:"settings,omitempty" yaml:"settings,omitempty"`
	Products  *[]model.Product  `json:"products,omitempty" yaml:"products,omitempty"`
	Customers *[]model.Customer `json:"customers,omitempty" yaml:"customers,omitempty"`
	Sales     *[]model.Sale     `json:"sales,omitempty" yaml:"sales,omitempty"`
}

// ApplyTo replaces the present sections of snap.
func (d *Document) ApplyTo(snap *model.Snapshot) {
	if d.Settings != nil {
		snap.Settings = *d.Settings
	}
	if d.Products != nil {
		snap.Products = *d.Products
	}
	if d.Customers != nil {
		snap.Customers = *d.Customers
	}
	if d.Sales != nil {
		snap.Sales = *d.Sales
	}
	normalize(snap)
}

func Export(w io.Writer, snap *model.Snapshot, format Format) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return err
		}
		return enc.Close()
	default:
		return apperror.Invalid("export", "format", fmt.Sprintf("unsupported %q", format))
	}
}

// Import decodes a document without touching any state. Malformed input
// is a *apperror.ParseError.
func Import(r io.Reader, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatJSON, "":
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, &apperror.ParseError{Format: string(FormatJSON), Err: err}
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, &apperror.ParseError{Format: string(FormatYAML), Err: err}
		}
	default:
		return nil, apperror.Invalid("import", "format", fmt.Sprintf("unsupported %q", format))
	}
	return &doc, nil
}
