package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	enc "github.com/taxwiseapp/taxwise/internal/encoding"
)

func decode(t *testing.T, r io.Reader) string {
	t.Helper()

	utf8r, err := enc.NewUTF8Reader(r)
	require.NoError(t, err)

	out, err := io.ReadAll(utf8r)
	require.NoError(t, err)

	return string(out)
}

func TestNewUTF8Reader_PlainASCII(t *testing.T) {
	got := decode(t, strings.NewReader("Date,Description,Amount\n"))
	assert.Equal(t, "Date,Description,Amount\n", got)
}

func TestNewUTF8Reader_StripsUTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Date,Narration")...)
	got := decode(t, bytes.NewReader(input))
	assert.Equal(t, "Date,Narration", got)
}

func TestNewUTF8Reader_UTF16LE(t *testing.T) {
	encoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()

	raw, err := encoder.Bytes([]byte("Value Date,Débit"))
	require.NoError(t, err)

	got := decode(t, bytes.NewReader(raw))
	assert.Equal(t, "Value Date,Débit", got)
}

func TestNewUTF8Reader_Windows1252Fallback(t *testing.T) {
	encoder := charmap.Windows1252.NewEncoder()

	raw, err := encoder.Bytes([]byte("Café Lagos – NGN"))
	require.NoError(t, err)

	got := decode(t, bytes.NewReader(raw))
	assert.Equal(t, "Café Lagos – NGN", got)
}
