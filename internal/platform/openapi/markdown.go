package openapi

import (
	"fmt"
	"strings"
)

// Markdown renders a human-readable reference of the document: one section
// per tag with a table of its operations.
func (g *Generator) Markdown() string {
	doc := g.GenerateSpec()

	byTag := make(map[string][]OperationRef)
	summaries := make(map[string]string)
	public := make(map[string]bool)
	doc.EachOperation(func(ref OperationRef, op *Operation) {
		byTag[ref.Tag] = append(byTag[ref.Tag], ref)
		summaries[ref.Key()] = op.Summary
		public[ref.Key()] = op.Security != nil && len(*op.Security) == 0
	})

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", doc.Info.Title)
	fmt.Fprintf(&b, "Version `%s`. %d operations in %d groups.\n\n", doc.Info.Version, doc.OperationCount(), len(doc.Tags))
	if doc.Info.Description != "" {
		b.WriteString(doc.Info.Description + "\n\n")
	}
	if len(doc.Servers) > 0 {
		fmt.Fprintf(&b, "Server: `%s`\n\n", doc.Servers[0].URL)
	}

	b.WriteString("## Contents\n\n")
	for _, t := range doc.Tags {
		fmt.Fprintf(&b, "- [%s](#%s) (%d)\n", t.Name, anchor(t.Name), t.EndpointCount)
	}
	b.WriteString("\n")

	for _, t := range doc.Tags {
		fmt.Fprintf(&b, "## %s\n\n", t.Name)
		if t.Description != "" {
			b.WriteString(t.Description + "\n\n")
		}
		b.WriteString("| Method | Path | Operation | Summary | Auth |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, ref := range byTag[t.Name] {
			auth := "bearer"
			if public[ref.Key()] {
				auth = "public"
			}
			fmt.Fprintf(&b, "| `%s` | `%s` | `%s` | %s | %s |\n",
				ref.Method, ref.Path, ref.OperationID, escapeCell(summaries[ref.Key()]), auth)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func anchor(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, " ", "-"))
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
