package leadbook_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/leadbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	t.Run("writes header and quoted rows", func(t *testing.T) {
		t.Parallel()

		businesses := []*leadbook.Business{
			{
				ID:       "b1",
				Name:     `Ann "AJ" Lee`,
				Phone:    "555-0100",
				Websites: leadbook.URLList{"https://a.example", "https://b.example"},
				Demos:    leadbook.URLList{"https://demo.example"},
				Address:  "1 Main St, Springfield",
				Email:    "ann@example.com",
			},
			{ID: "b2", Name: "Plain"},
		}
		tracking := leadbook.TrackingTable{
			"b1": {
				BusinessID: "b1",
				Status:     leadbook.StatusCreatingSite,
				Notes:      "call back",
				UpdatedAt:  time.Date(2025, 3, 4, 15, 6, 7, 0, time.UTC),
			},
		}

		var buf bytes.Buffer
		require.NoError(t, leadbook.WriteCSV(&buf, businesses, tracking, time.UTC))

		lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "Name,Status,Phone,Websites,Demos,Address,Email,Notes,Status Updated", lines[0])
		assert.Equal(t,
			`"Ann ""AJ"" Lee","Creating Site","555-0100","https://a.example; https://b.example","https://demo.example","1 Main St, Springfield","ann@example.com","call back","3/4/2025, 3:06:07 PM"`,
			lines[1])
		assert.Equal(t, `"Plain","None","","","","","","",""`, lines[2])
	})

	t.Run("renders timestamps in the given location", func(t *testing.T) {
		t.Parallel()

		loc := time.FixedZone("EST", -5*60*60)
		businesses := []*leadbook.Business{{ID: "b1", Name: "A"}}
		tracking := leadbook.TrackingTable{
			"b1": {BusinessID: "b1", UpdatedAt: time.Date(2025, 1, 1, 3, 0, 0, 0, time.UTC)},
		}

		var buf bytes.Buffer
		require.NoError(t, leadbook.WriteCSV(&buf, businesses, tracking, loc))

		assert.Contains(t, buf.String(), `"12/31/2024, 10:00:00 PM"`)
	})

	t.Run("writes only the header for no businesses", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, leadbook.WriteCSV(&buf, nil, nil, nil))

		assert.Equal(t, "Name,Status,Phone,Websites,Demos,Address,Email,Notes,Status Updated\n", buf.String())
	})
}

func TestQuoteCSV(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `"Ann ""AJ"" Lee"`, leadbook.QuoteCSV(`Ann "AJ" Lee`))
	assert.Equal(t, `""`, leadbook.QuoteCSV(""))
}

func TestExportFilename(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "businesses_2025-06-01.csv", leadbook.ExportFilename(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)))
}
