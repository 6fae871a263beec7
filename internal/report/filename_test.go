package report

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractTimestamp(t *testing.T) {
	ts, err := ExtractTimestamp("raw_data_251103.xlsx")
	require.NoError(t, err)
	require.Equal(t, "251103", ts)

	ts, err = ExtractTimestamp("/data/in/raw_data_240229.xlsm")
	require.NoError(t, err)
	require.Equal(t, "240229", ts)

	// Extension is optional.
	ts, err = ExtractTimestamp("raw_data_251103")
	require.NoError(t, err)
	require.Equal(t, "251103", ts)
}

func TestExtractTimestamp_Rejects(t *testing.T) {
	bad := []string{
		"sales_251103.xlsx",
		"raw_data_2511.xlsx",
		"raw_data_2511030.xlsx",
		"raw_data_251103_v2.xlsx",
		"raw_data_.xlsx",
		"raw_data_abcdef.xlsx",
	}
	for _, name := range bad {
		_, err := ExtractTimestamp(name)
		var ferr *InvalidFilenameError
		require.ErrorAs(t, err, &ferr, "name=%q", name)
		require.Equal(t, name, ferr.Name)
	}
}

func TestResultFilename(t *testing.T) {
	require.Equal(t, "result_251103.xlsx", ResultFilename("251103"))
}
