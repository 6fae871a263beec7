package report

import (
	"path/filepath"
	"regexp"
	"strings"
)

var rawStemPattern = regexp.MustCompile(`^raw_data_(\d{6})$`)

// ExtractTimestamp returns the 6-digit YYMMDD timestamp encoded in a raw
// data filename. The extension, if any, is ignored. Filenames that do not
// match raw_data_<6 digits> are rejected before any parsing work happens.
func ExtractTimestamp(filename string) (string, error) {
	stem := filepath.Base(filename)
	stem = strings.TrimSuffix(stem, filepath.Ext(stem))
	m := rawStemPattern.FindStringSubmatch(stem)
	if m == nil {
		return "", &InvalidFilenameError{Name: filename}
	}
	return m[1], nil
}

// ResultFilename derives the output artifact name for a timestamp.
func ResultFilename(timestamp string) string {
	return "result_" + timestamp + ".xlsx"
}
