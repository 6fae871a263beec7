package validation

import (
	"strings"
	"testing"

	"github.com/salesops/georeport/pkg/pagination"
	"github.com/stretchr/testify/require"
)

type openInput struct {
	Path string `validate:"required,filepath_ext,raw_filename"`
}

type pageInput struct {
	Cursor string `validate:"omitempty,cursor"`
}

func TestValidateStruct_RawFilename(t *testing.T) {
	require.Empty(t, ValidateStruct(openInput{Path: "/data/raw_data_251103.xlsx"}))
	require.Empty(t, ValidateStruct(openInput{Path: "raw_data_240101.xlsm"}))

	msg := ValidateStruct(openInput{Path: "/data/sales_2511.xlsx"})
	require.True(t, strings.HasPrefix(msg, "INVALID_FILENAME:"), "msg=%q", msg)

	msg = ValidateStruct(openInput{Path: "/data/raw_data_251103_v2.xlsx"})
	require.True(t, strings.HasPrefix(msg, "INVALID_FILENAME:"), "msg=%q", msg)
}

func TestValidateStruct_Extension(t *testing.T) {
	msg := ValidateStruct(openInput{Path: "raw_data_251103.csv"})
	require.True(t, strings.HasPrefix(msg, "VALIDATION:"), "msg=%q", msg)
	require.Contains(t, msg, ".xlsx")
}

func TestValidateStruct_Required(t *testing.T) {
	msg := ValidateStruct(openInput{})
	require.True(t, strings.HasPrefix(msg, "VALIDATION:"), "msg=%q", msg)
	require.Contains(t, msg, "required")
}

func TestValidateStruct_Cursor(t *testing.T) {
	require.Empty(t, ValidateStruct(pageInput{}))

	tok, err := pagination.EncodeCursor(pagination.Cursor{P: "result_251103.xlsx", Off: 0, Ps: 100})
	require.NoError(t, err)
	require.Empty(t, ValidateStruct(pageInput{Cursor: tok}))

	msg := ValidateStruct(pageInput{Cursor: "not-a-cursor"})
	require.True(t, strings.HasPrefix(msg, "CURSOR_INVALID:"), "msg=%q", msg)
}
