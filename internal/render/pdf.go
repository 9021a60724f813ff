package render

import (
	"strings"
	"time"
)

// PDFDocument wraps rendered template content into a complete printable
// HTML document with the given title. The client prints it to PDF; the
// backend never rasterizes anything itself.
func PDFDocument(content, title string) string {
	return PDFDocumentAt(content, title, time.Now())
}

// PDFDocumentAt is PDFDocument with an explicit generation time for the footer.
func PDFDocumentAt(content, title string, now time.Time) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>`)
	b.WriteString(escapeHTML(title))
	b.WriteString(`</title>
  <style>
    @page { size: A4; margin: 20mm; }
    body {
      font-family: "Helvetica Neue", Arial, "Hiragino Kaku Gothic ProN", "Yu Gothic", sans-serif;
      font-size: 12pt;
      line-height: 1.8;
      color: #333;
      max-width: 800px;
      margin: 0 auto;
      padding: 20px;
    }
    h1 { font-size: 24pt; color: #1a1a2e; border-bottom: 3px solid #6366f1; padding-bottom: 10px; margin-bottom: 30px; }
    h2 { font-size: 16pt; color: #1a1a2e; border-left: 4px solid #6366f1; padding-left: 12px; margin-top: 30px; margin-bottom: 15px; }
    h3 { font-size: 14pt; color: #374151; margin-top: 20px; margin-bottom: 10px; }
    p { margin: 10px 0; }
    strong { color: #1a1a2e; }
    hr { border: none; border-top: 1px solid #e5e7eb; margin: 30px 0; }
    .footer {
      margin-top: 50px;
      padding-top: 20px;
      border-top: 1px solid #e5e7eb;
      font-size: 10pt;
      color: #6b7280;
      text-align: center;
    }
  </style>
</head>
<body>
  `)
	b.WriteString(MarkdownToHTML(content))
	b.WriteString(`
  <div class="footer">Generated: `)
	b.WriteString(now.Format("January 2, 2006 15:04:05"))
	b.WriteString(`</div>
</body>
</html>`)
	return b.String()
}
