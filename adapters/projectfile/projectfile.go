// Package projectfile reads project descriptions written in HCL.
//
//	project "local-comercial" {
//	  client      = "Constructora Andes"
//	  rut         = "76.123.456-7"
//	  value       = 4500000
//	  complexity  = "large"
//	  billing     = "annual"
//	}
//
// Every attribute except value is optional; missing levels take the
// calculator defaults. Setting plan pins that plan (manual override).
package projectfile

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"quote-engine/core/quote"
	"quote-engine/internal/errors"
)

// File is a decoded project file
type File struct {
	Projects []Project `hcl:"project,block"`
}

// Project is one project block
type Project struct {
	Name        string  `hcl:"name,label"`
	Client      string  `hcl:"client,optional"`
	RUT         string  `hcl:"rut,optional"`
	Description string  `hcl:"description,optional"`
	Value       int64   `hcl:"value"`
	Plan        *string `hcl:"plan,optional"`
	Billing     string  `hcl:"billing,optional"`
	Complexity  string  `hcl:"complexity,optional"`
	Material    string  `hcl:"material,optional"`
	Brand       string  `hcl:"brand,optional"`
	Urgency     string  `hcl:"urgency,optional"`
}

// Request converts the block into a calculator request
func (p Project) Request() quote.Request {
	req := quote.Request{
		Value:      p.Value,
		Billing:    p.Billing,
		Complexity: p.Complexity,
		Material:   p.Material,
		Brand:      p.Brand,
		Urgency:    p.Urgency,
	}
	if p.Plan != nil && *p.Plan != "" {
		req.Plan = *p.Plan
		req.ManualOverride = true
	}
	return req
}

// Load reads and decodes the project file at path
func Load(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeInput, err, "failed to read project file %s", path)
	}
	return Parse(src, path)
}

// Parse decodes project file source; filename is used in diagnostics
func Parse(src []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diagError(diags)
	}

	var out File
	if diags := gohcl.DecodeBody(f.Body, nil, &out); diags.HasErrors() {
		return nil, diagError(diags)
	}
	if len(out.Projects) == 0 {
		return nil, errors.Parsing(fmt.Sprintf("%s: no project blocks", filename), nil)
	}

	seen := make(map[string]bool, len(out.Projects))
	for _, p := range out.Projects {
		if seen[p.Name] {
			return nil, errors.Parsing(fmt.Sprintf("%s: duplicate project %q", filename, p.Name), nil)
		}
		seen[p.Name] = true
	}
	return &out, nil
}

// Find returns the named project
func (f *File) Find(name string) (Project, bool) {
	for _, p := range f.Projects {
		if p.Name == name {
			return p, true
		}
	}
	return Project{}, false
}

func diagError(diags hcl.Diagnostics) error {
	var msgs []string
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		msg := diag.Summary
		if diag.Detail != "" {
			msg += ": " + diag.Detail
		}
		if diag.Subject != nil {
			msg = fmt.Sprintf("%s:%d: %s", diag.Subject.Filename, diag.Subject.Start.Line, msg)
		}
		msgs = append(msgs, msg)
	}
	return errors.Parsing(strings.Join(msgs, "; "), diags)
}
