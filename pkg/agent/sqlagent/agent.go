package sqlagent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"ai-bizquery-be/internal/constant"
	"ai-bizquery-be/pkg/export"
	"ai-bizquery-be/pkg/llm"
	"ai-bizquery-be/pkg/store"
)

// Agent generates one SQL statement from a question plus schema context,
// executes it safely, and shapes the rows into the requested output
// format.
type Agent struct {
	llm         llm.LLMProvider
	executor    *Executor
	excelTool   *export.ExcelExporter
	pdfTool     *export.PDFGenerator
	exportStore *store.ExportStore
	logger      *log.Logger
}

func NewAgent(
	provider llm.LLMProvider,
	executor *Executor,
	exportStore *store.ExportStore,
	logger *log.Logger,
) *Agent {
	return &Agent{
		llm:         provider,
		executor:    executor,
		excelTool:   export.NewExcelExporter(),
		pdfTool:     export.NewPDFGenerator(),
		exportStore: exportStore,
		logger:      logger,
	}
}

// Generate asks the model for a single SELECT/WITH statement bound to
// the authoritative schema section of the context. A failed model call
// returns a sentinel comment instead of an error: the sanitizer rejects
// it downstream and the pipeline keeps flowing.
func (a *Agent) Generate(ctx context.Context, question, schemaContext string) string {
	prompt := fmt.Sprintf(constant.SQLGeneratorPrompt, schemaContext, question)

	sqlText, err := a.llm.Generate(ctx, prompt, llm.WithTemperature(0))
	if err != nil {
		return fmt.Sprintf("-- Error generating SQL: %v", err)
	}
	return strings.TrimSpace(sqlText)
}

// Run executes the generate -> sanitize -> execute sequence and shapes
// the result for the requested output format.
func (a *Agent) Run(ctx context.Context, question, schemaContext, outputFormat string) map[string]interface{} {
	sqlText := a.Generate(ctx, question, schemaContext)
	rows := a.executor.Execute(ctx, sqlText)

	switch outputFormat {
	case "pdf":
		pdf := a.pdfTool.Generate(fmt.Sprintf("%v", rows))
		return map[string]interface{}{
			"format": "pdf",
			"pdf":    pdf,
			"sql":    sqlText,
		}

	case "excel":
		artifact, err := a.excelTool.Export(rows, "Sheet1")
		if err != nil {
			a.logger.Printf("[SQL] Excel export failed: %v", err)
			return map[string]interface{}{
				"format": "excel",
				"error":  err.Error(),
				"sql":    sqlText,
			}
		}
		exportId := a.exportStore.Put(artifact)
		return map[string]interface{}{
			"format": "excel",
			"excel": map[string]interface{}{
				"filename":       artifact.Filename,
				"content_base64": artifact.ContentBase64,
				"size":           artifact.Size,
				"export_id":      exportId,
			},
			"sql": sqlText,
		}

	case "text":
		return map[string]interface{}{
			"format": "text",
			"text":   fmt.Sprintf("%v", rows),
			"sql":    sqlText,
		}

	default:
		return map[string]interface{}{
			"format": "json",
			"result": rows,
			"sql":    sqlText,
		}
	}
}
