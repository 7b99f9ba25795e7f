package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fivetwenty-io/responsys-client/internal/constants"
	"github.com/fivetwenty-io/responsys-client/pkg/responsys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRecordsFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		return path
	}

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		records, err := readRecordsFile(write("a.json", `[{"CUSTOMER_ID_":"1"},{"CUSTOMER_ID_":"2"}]`))
		require.NoError(t, err)
		assert.Equal(t, []responsys.Record{{"CUSTOMER_ID_": "1"}, {"CUSTOMER_ID_": "2"}}, records)
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()

		records, err := readRecordsFile(write("b.yml", "- CUSTOMER_ID_: \"1\"\n  CITY_: Oslo\n"))
		require.NoError(t, err)
		assert.Equal(t, []responsys.Record{{"CUSTOMER_ID_": "1", "CITY_": "Oslo"}}, records)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		_, err := readRecordsFile(write("c.json", `[]`))
		require.ErrorIs(t, err, constants.ErrEmptyRecordsFile)
	})

	t.Run("unsupported", func(t *testing.T) {
		t.Parallel()

		_, err := readRecordsFile(write("d.csv", "CUSTOMER_ID_\n1\n"))
		require.ErrorIs(t, err, constants.ErrUnsupportedFile)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()

		_, err := readRecordsFile(write("e.json", `{"not":"an array"}`))
		require.Error(t, err)
	})

	t.Run("missing path", func(t *testing.T) {
		t.Parallel()

		_, err := readRecordsFile("")
		require.ErrorIs(t, err, constants.ErrRecordsFileRequired)

		_, err = readRecordsFile(filepath.Join(dir, "nope.json"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestRenderTable(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	err := renderTable(&out, []string{"Name", "Folder"}, [][]string{{"CONTACTS_LIST", "!MasterData"}})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "CONTACTS_LIST")
	assert.Contains(t, out.String(), "!MasterData")
}

func TestRenderJSONAndYAML(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	require.NoError(t, renderJSON(&out, map[string]string{"a": "b"}))
	assert.Equal(t, "{\n  \"a\": \"b\"\n}\n", out.String())

	out.Reset()

	require.NoError(t, renderYAML(&out, map[string]string{"a": "b"}))
	assert.Equal(t, "a: b\n", out.String())
}

func TestFormatValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, constants.NotAvailable, formatValue(nil))
	assert.Equal(t, "42", formatValue("42"))
	assert.Equal(t, []string{"x", constants.NotAvailable}, formatRow([]any{"x", nil}))
}
