package extract_test

import (
	"testing"

	"github.com/deeppurple/deeppurple/internal/domain"
	"github.com/deeppurple/deeppurple/internal/extract"
	"github.com/stretchr/testify/assert"
)

func TestTypeFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     domain.FileType
		wantErr  bool
	}{
		{"txt", "notes.txt", domain.FileTypeTXT, false},
		{"csv", "reviews.csv", domain.FileTypeCSV, false},
		{"pdf", "report.pdf", domain.FileTypePDF, false},
		{"uppercase extension", "REPORT.PDF", domain.FileTypePDF, false},
		{"unsupported", "image.png", "", true},
		{"no extension", "README", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extract.TypeFromFilename(tt.filename)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestText_TXT(t *testing.T) {
	got, err := extract.Text(domain.FileTypeTXT, []byte("I loved the product.\nShipping was slow."))
	assert.NoError(t, err)
	assert.Equal(t, "I loved the product.\nShipping was slow.", got)
}

func TestText_CSV(t *testing.T) {
	data := []byte("rating,comment\n5,great service\n1,never again")

	got, err := extract.Text(domain.FileTypeCSV, data)
	assert.NoError(t, err)
	assert.Equal(t, "rating comment\n5 great service\n1 never again", got)
}

func TestText_CSV_RaggedRows(t *testing.T) {
	data := []byte("a,b,c\nonly,two")

	got, err := extract.Text(domain.FileTypeCSV, data)
	assert.NoError(t, err)
	assert.Equal(t, "a b c\nonly two", got)
}

func TestText_CSV_Empty(t *testing.T) {
	got, err := extract.Text(domain.FileTypeCSV, nil)
	assert.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestText_UnsupportedType(t *testing.T) {
	_, err := extract.Text(domain.FileType("docx"), []byte("x"))
	assert.Error(t, err)
}
