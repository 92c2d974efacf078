package export

import "fmt"

// PDFGenerator produces a PDF descriptor from text or data.
// This is a stub; real PDF rendering is still pending upstream.
type PDFGenerator struct{}

func NewPDFGenerator() *PDFGenerator {
	return &PDFGenerator{}
}

func (g *PDFGenerator) Generate(content string) map[string]interface{} {
	preview := content
	if len(preview) > 30 {
		preview = preview[:30]
	}
	return map[string]interface{}{
		"pdf_file": fmt.Sprintf("PDF generated with content: %s...", preview),
	}
}
