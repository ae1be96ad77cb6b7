package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/deeppurple/deeppurple/internal/domain"
	"github.com/ledongthuc/pdf"
)

// TypeFromFilename maps a filename extension to a supported file type
func TypeFromFilename(name string) (domain.FileType, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		return domain.FileTypeTXT, nil
	case ".csv":
		return domain.FileTypeCSV, nil
	case ".pdf":
		return domain.FileTypePDF, nil
	default:
		return "", fmt.Errorf("unsupported file type %q", filepath.Ext(name))
	}
}

// Text extracts plain text from raw document bytes according to file type
func Text(fileType domain.FileType, data []byte) (string, error) {
	switch fileType {
	case domain.FileTypeTXT:
		return string(data), nil
	case domain.FileTypeCSV:
		return csvText(data)
	case domain.FileTypePDF:
		return pdfText(data)
	default:
		return "", fmt.Errorf("unsupported file type %q", fileType)
	}
}

// csvText flattens a CSV document into one line of text per record so the
// analysis prompt sees cell values in reading order.
func csvText(data []byte) (string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	var b strings.Builder
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse csv: %w", err)
		}
		b.WriteString(strings.Join(record, " "))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// pdfText extracts plain text from a PDF. Returns an empty string when the
// document has no extractable text layer.
func pdfText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	plainReader, err := pdfReader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}
	out, err := io.ReadAll(plainReader)
	if err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	return string(out), nil
}
