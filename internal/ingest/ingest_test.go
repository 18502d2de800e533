package ingest

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const exportHeader = "Deal - Title,Deal - Deal value,Deal - Pipeline,Deal - Status,Deal - Owner,Person - Phone,Deal - Deal created on,Person - Timezone"

func TestLoadCSV_MapsExportColumns(t *testing.T) {
	csvData := exportHeader + ",Extra Column\n" +
		"Acme - SC1,\"$1,500\",Sales,won,Edgar Smith,+14165550123,2024-03-15 10:30:00,America/Toronto,ignored\n" +
		"Beta,,Sales,open,Jane Doe,+447911123456,,,\n"

	records, info, err := LoadCSV(strings.NewReader(csvData), 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, 2, info.Rows)
	require.False(t, info.Truncated)
	require.Equal(t, []string{"title", "deal_value", "pipeline", "status", "owner", "phone", "created_date", "timezone"}, info.Mapped)
	require.Equal(t, []string{"Extra Column"}, info.Unmapped)

	r := records[0]
	require.Equal(t, "Acme - SC1", r.Title)
	require.Equal(t, 1500.0, r.Value)
	require.Equal(t, "Sales", r.Pipeline)
	require.Equal(t, "won", r.Status)
	require.Equal(t, "Edgar Smith", r.Owner)
	require.Equal(t, "+14165550123", r.Phone)
	require.NotNil(t, r.CreatedAt)
	require.Equal(t, time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), *r.CreatedAt)
	require.Equal(t, "America/Toronto", r.Timezone)

	require.Zero(t, records[1].Value)
	require.Nil(t, records[1].CreatedAt)
}

func TestLoadCSV_CanonicalHeadersAccepted(t *testing.T) {
	csvData := "title,deal_value,status\nAcme,250,lost\n"
	records, info, err := LoadCSV(strings.NewReader(csvData), 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, []string{"title", "deal_value", "status"}, info.Mapped)
	require.Equal(t, 250.0, records[0].Value)
}

func TestLoadCSV_Truncation(t *testing.T) {
	var b strings.Builder
	b.WriteString("title\n")
	for i := 0; i < 10; i++ {
		b.WriteString("deal\n")
	}
	records, info, err := LoadCSV(strings.NewReader(b.String()), 3)
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.True(t, info.Truncated)
}

func TestLoadCSV_RaggedRows(t *testing.T) {
	csvData := "title,deal_value,status\nshort row\n"
	records, _, err := LoadCSV(strings.NewReader(csvData), 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "short row", records[0].Title)
	require.Zero(t, records[0].Value)
}

func TestParseValue(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1500", 1500},
		{"$1,500.50", 1500.50},
		{"1 500", 1500},
		{"", 0},
		{"n/a", 0},
		{"-250", 0},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, parseValue(tc.in), "in=%q", tc.in)
	}
}

func TestParseDate(t *testing.T) {
	got := parseDate("2024-03-15")
	require.NotNil(t, got)
	require.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *got)

	got = parseDate("03/15/2024")
	require.NotNil(t, got)
	require.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *got)

	require.Nil(t, parseDate(""))
	require.Nil(t, parseDate("yesterday"))
}

func createExportWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	sh := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sh, "A1", &[]string{
		"Deal - Title", "Deal - Deal value", "Deal - Status", "Deal - Owner",
	}))
	require.NoError(t, f.SetSheetRow(sh, "A2", &[]string{"Acme - SC3", "750", "won", "Zach B"}))
	require.NoError(t, f.SetSheetRow(sh, "A3", &[]string{"Beta", "0", "open", "Jane Doe"}))

	path := filepath.Join(t.TempDir(), "export.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestLoadXLSX(t *testing.T) {
	path := createExportWorkbook(t)

	records, info, err := LoadFile(path, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, 2, info.Rows)
	require.Equal(t, []string{"title", "deal_value", "status", "owner"}, info.Mapped)

	require.Equal(t, "Acme - SC3", records[0].Title)
	require.Equal(t, 750.0, records[0].Value)
	require.Equal(t, "won", records[0].Status)
	require.Equal(t, "Zach B", records[0].Owner)
}

func TestLoadFile_UnsupportedExtension(t *testing.T) {
	_, _, err := LoadFile("export.txt", 0)
	require.ErrorContains(t, err, "unsupported format")
}
