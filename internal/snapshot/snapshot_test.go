package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/stock-market-api/internal/apperrors"
	"github.com/ndewijer/stock-market-api/internal/model"
)

func sampleRecords() []model.StockRecord {
	return []model.StockRecord{
		{Date: model.MustParseDate("2020-08-10"), TradeCode: "ACI", High: 10.5, Low: 9, Open: 9.5, Close: 10, Volume: 1200},
		{Date: model.MustParseDate("2020-08-10"), TradeCode: "GP", High: 355, Low: 350.1, Open: 351, Close: 354.2, Volume: 88},
		{Date: model.MustParseDate("2020-08-11"), TradeCode: "ACI", High: 11, Low: 10, Open: 10, Close: 10.8, Volume: 900},
	}
}

func TestFormat(t *testing.T) {
	for path, want := range map[string]string{
		"data.json":           FormatJSON,
		"export/DATA.PARQUET": FormatParquet,
	} {
		got, err := Format(path)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := Format("data.csv")
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFileFormat)
}

func TestWriteReadFile(t *testing.T) {
	for _, ext := range []string{FormatParquet, FormatJSON} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "stocks"+ext)

			require.NoError(t, WriteFile(path, sampleRecords()))

			got, err := ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, sampleRecords(), got)
		})
	}
}

func TestWriteFile_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	require.NoError(t, WriteFile(path, nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestReadFile(t *testing.T) {
	t.Run("accepts data envelope", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "envelope.json")
		doc := `{"data":[{"date":"2020-08-10","trade_code":"ACI","high":1,"low":1,"open":1,"close":1,"volume":5}]}`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

		got, err := ReadFile(path)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "ACI", got[0].TradeCode)
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"rows":[]}`), 0o600))

		_, err := ReadFile(path)
		assert.ErrorIs(t, err, apperrors.ErrMalformedSnapshot)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadFile(filepath.Join(t.TempDir(), "missing.parquet"))
		assert.Error(t, err)
	})

	t.Run("unknown extension", func(t *testing.T) {
		_, err := ReadFile("stocks.xml")
		assert.ErrorIs(t, err, apperrors.ErrUnsupportedFileFormat)
	})
}
