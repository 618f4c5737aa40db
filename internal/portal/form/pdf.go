package form

import (
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// Keep pdfcpu from creating a config directory under $HOME.
	model.ConfigPath = "disable"
}

// ValidPDF is a Rule.Check that rejects files pdfcpu cannot parse.
func ValidPDF(rs io.ReadSeeker) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.Validate(rs, conf); err != nil {
		return fmt.Errorf("not a valid PDF: %w", err)
	}
	return nil
}
