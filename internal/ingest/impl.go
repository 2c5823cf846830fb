package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/akolanti/docchat/internal/domain/docModel"
)

func getDocType(docPath string) docModel.DocType {
	ext := strings.ToLower(filepath.Ext(docPath))
	switch ext {
	case ".pdf":
		return docModel.PDF
	case ".docx", ".odt", ".rtf":
		return docModel.DOCX
	case ".txt", ".md":
		return docModel.TXT
	case ".html", ".htm":
		return docModel.HTML
	default:
		return docModel.ERR
	}
}

func extractText(path string, contentType docModel.DocType) (string, error) {
	switch contentType {
	case docModel.PDF:
		return extractPDF(path)
	case docModel.DOCX, docModel.TXT:
		return extractWithCat(path)
	case docModel.HTML:
		return extractHTMLFile(path)
	default:
		return "", fmt.Errorf("%w: content type %s", ErrUnsupportedInput, contentType)
	}
}
