// Package form validates multipart uploads against a declared schema.
package form

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxMemory is how much of a multipart body is held in memory
// before spilling file parts to disk.
const DefaultMaxMemory = 8 << 20

// Kind says whether a schema field carries text or a file.
type Kind int

const (
	KindText Kind = iota
	KindFile
)

func (k Kind) String() string {
	if k == KindFile {
		return "file"
	}
	return "text"
}

// Rule declares one expected field.
type Rule struct {
	Kind     Kind
	Required bool

	// File only.
	MaxSize      int64                     // bytes, 0 means unlimited
	AllowedTypes []string                  // sniffed MIME types, empty allows any
	Check        func(io.ReadSeeker) error // content check run after sniffing
}

// Schema is the set of fields a form may carry. Fields not in the schema
// are rejected.
type Schema struct {
	Fields    map[string]Rule
	MaxMemory int64
}

// Field is a parsed value, either TextField or FileField.
type Field interface {
	Kind() Kind
	field()
}

// TextField is a plain form value.
type TextField struct {
	Value string
}

// FileField is an uploaded file that passed its rule.
type FileField struct {
	Filename    string // as sent by the client
	ContentType string // sniffed, without parameters
	Ext         string // extension for ContentType, with leading dot
	Size        int64

	header *multipart.FileHeader
}

func (TextField) Kind() Kind { return KindText }
func (FileField) Kind() Kind { return KindFile }
func (TextField) field()     {}
func (FileField) field()     {}

// Open returns the file content. The caller must close it.
func (f FileField) Open() (multipart.File, error) {
	if f.header == nil {
		return nil, errors.New("form: file has no content")
	}
	return f.header.Open()
}

// Form is a validated submission.
type Form struct {
	Fields map[string]Field
}

// Text returns the trimmed text value of name, or "".
func (f *Form) Text(name string) string {
	if t, ok := f.Fields[name].(TextField); ok {
		return strings.TrimSpace(t.Value)
	}
	return ""
}

// File returns the uploaded file for name.
func (f *Form) File(name string) (FileField, bool) {
	file, ok := f.Fields[name].(FileField)
	return file, ok
}

// ValidationError lists every field that failed, keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "form: invalid fields: " + strings.Join(parts, "; ")
}

// Parse reads the multipart body of r and validates it.
func (s Schema) Parse(r *http.Request) (*Form, error) {
	maxMemory := s.MaxMemory
	if maxMemory <= 0 {
		maxMemory = DefaultMaxMemory
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return nil, &ValidationError{Fields: map[string]string{
			"body": "expected multipart/form-data: " + err.Error(),
		}}
	}
	return s.Validate(r.MultipartForm)
}

// Validate checks mf against the schema.
func (s Schema) Validate(mf *multipart.Form) (*Form, error) {
	if mf == nil {
		mf = &multipart.Form{}
	}

	errs := make(map[string]string)
	out := &Form{Fields: make(map[string]Field)}

	for name, values := range mf.Value {
		rule, ok := s.Fields[name]
		switch {
		case !ok:
			errs[name] = "unknown field"
		case rule.Kind != KindText:
			errs[name] = "expected a file, got text"
		case len(values) != 1:
			errs[name] = "expected a single value"
		case strings.TrimSpace(values[0]) == "" && rule.Required:
			errs[name] = "required"
		default:
			out.Fields[name] = TextField{Value: values[0]}
		}
	}

	for name, headers := range mf.File {
		rule, ok := s.Fields[name]
		switch {
		case !ok:
			errs[name] = "unknown field"
		case rule.Kind != KindFile:
			errs[name] = "expected text, got a file"
		case len(headers) != 1:
			errs[name] = "expected a single file"
		default:
			file, err := checkFile(headers[0], rule)
			if err != nil {
				errs[name] = err.Error()
				continue
			}
			out.Fields[name] = file
		}
	}

	for name, rule := range s.Fields {
		if _, present := out.Fields[name]; present || !rule.Required {
			continue
		}
		if _, failed := errs[name]; !failed {
			errs[name] = "required"
		}
	}

	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	return out, nil
}

func checkFile(h *multipart.FileHeader, rule Rule) (FileField, error) {
	if h.Size == 0 {
		return FileField{}, errors.New("file is empty")
	}
	if rule.MaxSize > 0 && h.Size > rule.MaxSize {
		return FileField{}, fmt.Errorf("file exceeds %d bytes", rule.MaxSize)
	}

	f, err := h.Open()
	if err != nil {
		return FileField{}, fmt.Errorf("unreadable file: %w", err)
	}
	defer f.Close()

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return FileField{}, fmt.Errorf("unreadable file: %w", err)
	}
	if len(rule.AllowedTypes) > 0 && !allowed(mt, rule.AllowedTypes) {
		return FileField{}, fmt.Errorf("file type %s not allowed", baseType(mt.String()))
	}

	if rule.Check != nil {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return FileField{}, fmt.Errorf("unreadable file: %w", err)
		}
		if err := rule.Check(f); err != nil {
			return FileField{}, err
		}
	}

	ext := mt.Extension()
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(h.Filename))
	}

	return FileField{
		Filename:    h.Filename,
		ContentType: baseType(mt.String()),
		Ext:         ext,
		Size:        h.Size,
		header:      h,
	}, nil
}

// allowed accepts mt if it or any of its parents matches one of types.
func allowed(mt *mimetype.MIME, types []string) bool {
	for m := mt; m != nil; m = m.Parent() {
		for _, t := range types {
			if m.Is(t) {
				return true
			}
		}
	}
	return false
}

func baseType(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
