package retriever

import (
	"fmt"
	"strings"
)

const sampleQueryMaxChars = 500

// BuildPromptContext greedily concatenates per-document blocks until the
// character budget is exhausted, truncating the final block to fit. The
// result depends only on the input documents; repeated calls with the
// same ranking produce the same context.
func BuildPromptContext(docs []Document, maxChars int) string {
	var chunks []string
	size := 0

	for _, d := range docs {
		block := renderBlock(d)
		if block == "" {
			continue
		}

		remaining := maxChars - size
		if len(block) > remaining {
			block = block[:remaining]
		}
		chunks = append(chunks, block)
		size += len(block)
		if size >= maxChars {
			break
		}
	}

	return strings.Join(chunks, "\n\n")
}

func renderBlock(d Document) string {
	switch d.Metadata.ChunkType {
	case "table_overview":
		overview := strings.TrimSpace(d.Metadata.Overview)
		notes := strings.TrimSpace(d.Metadata.BusinessNotes)
		return strings.TrimSpace(fmt.Sprintf("Table: %s\nOverview: %s\nNotes: %s", d.Table, overview, notes))
	case "sample_query":
		name := d.Metadata.Name
		if name == "" {
			name = "Sample"
		}
		sql := strings.TrimSpace(d.Metadata.SQL)
		if len(sql) > sampleQueryMaxChars {
			sql = sql[:sampleQueryMaxChars] // truncate to save tokens
		}
		return fmt.Sprintf("Sample Query: %s\nSQL: %s", name, sql)
	default:
		if d.Text != "" {
			return d.Text
		}
		return d.Table
	}
}
