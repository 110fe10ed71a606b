package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	ds := Dataset{Title: "Timetable", Headers: []string{"Date", "Start", "End"}}
	ds.AddRow("2026-10-20", "15:00", "16:00")
	ds.AddRow("2026-10-27", "15:00")
	return ds
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "Date,Start,End\n2026-10-20,15:00,16:00\n2026-10-27,15:00,\n", string(out))
}

func TestCSVExporterRejectsRaggedRows(t *testing.T) {
	ds := Dataset{Headers: []string{"A", "B"}, Rows: [][]string{{"only"}}}
	_, err := NewCSVExporter().Render(ds)
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	renderer, err := NewRenderer(FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", renderer.ContentType())

	out, err := renderer.Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRendererRequiresHeaders(t *testing.T) {
	_, err := NewPDFExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}
