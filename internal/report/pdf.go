package report

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

var mdLinkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`) // [text](url)

// WritePDF renders the Markdown form of the report to a minimal PDF,
// turning Markdown links into clickable PDF links. This is intentionally
// simple and does not perform full Markdown layout.
func WritePDF(r Report, outPath string) error {
	markdown := Markdown(r)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	scanner := bufio.NewScanner(strings.NewReader(markdown))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		s := strings.TrimSpace(scanner.Text())
		if s == "" {
			pdf.Ln(5)
			continue
		}
		if strings.HasPrefix(s, "#") {
			writeHeading(pdf, s)
			continue
		}
		writeLine(pdf, s)
	}

	return pdf.OutputFileAndClose(outPath)
}

func writeHeading(pdf *gofpdf.Fpdf, s string) {
	level := 0
	for level < len(s) && s[level] == '#' {
		level++
	}
	text := strings.TrimSpace(s[level:])
	if text == "" {
		return
	}
	size := 14.0
	if level >= 2 {
		size = 12.0
	}
	pdf.SetFont("Helvetica", "B", size)
	pdf.CellFormat(0, 8, text, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
}

// writeLine writes a body line, replacing Markdown links inline with
// clickable segments.
func writeLine(pdf *gofpdf.Fpdf, s string) {
	parts := mdLinkPattern.FindAllStringSubmatchIndex(s, -1)
	if len(parts) == 0 {
		pdf.MultiCell(0, 5, s, "", "L", false)
		return
	}
	pos := 0
	for _, m := range parts {
		// m: [fullStart, fullEnd, textStart, textEnd, urlStart, urlEnd]
		if m[0] > pos {
			pdf.Write(5, s[pos:m[0]])
		}
		text := s[m[2]:m[3]]
		target := s[m[4]:m[5]]
		pdf.WriteLinkString(5, text, target)
		pos = m[1]
	}
	if pos < len(s) {
		pdf.Write(5, s[pos:])
	}
	pdf.Ln(6)
}
