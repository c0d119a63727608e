package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	data := Dataset{
		Headers: []string{"Reference ID", "Category", "Status"},
		Rows: [][]string{
			{"GRV000002", "Fee/Financial Issues", "Submitted"},
			{"GRV000001", "Other, misc"},
		},
	}

	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)
	assert.Equal(t, "Reference ID,Category,Status\nGRV000002,Fee/Financial Issues,Submitted\nGRV000001,\"Other, misc\",\n", string(out))
}

func TestCSVExporterRejectsBadInput(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)

	_, err = NewCSVExporter().Render(Dataset{Headers: []string{"a"}, Rows: [][]string{{"1", "2"}}})
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	rows := make([][]string, 0, 60)
	for i := 0; i < 60; i++ {
		rows = append(rows, []string{"GRV000001", "Academic Issues", "In Progress"})
	}
	out, err := NewPDFExporter().Render(Dataset{Headers: []string{"Reference ID", "Category", "Status"}, Rows: rows}, "Grievances Test University")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = NewPDFExporter().Render(Dataset{}, "")
	require.Error(t, err)
}
