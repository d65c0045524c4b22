package decode

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/dcsbios.go/pkg/dcsbios"
	"github.com/robotalks/dcsbios.go/pkg/dcsbios/export"
)

func TestParseHexBytes(t *testing.T) {
	data, err := ParseHexBytes([]string{"55", "0x55", "5555", "1004"})
	require.NoError(t, err)
	require.Equal(t, []byte{0x55, 0x55, 0x55, 0x55, 0x10, 0x04}, data)

	_, err = ParseHexBytes([]string{"5"})
	require.Error(t, err)
	_, err = ParseHexBytes([]string{"zz"})
	require.Error(t, err)
}

func TestStampedDecoding(t *testing.T) {
	data, err := ParseHexBytes([]string{"55555555", "1004", "0200", "3412"})
	require.NoError(t, err)
	evs := dcsbios.FeedAll(export.NewDecoder(), Stamp(data, 40)...)
	require.Equal(t, &dcsbios.WriteRecord{
		Span:    dcsbios.SpanOf(320, 400),
		Address: 0x0410,
		Value:   0x1234,
	}, evs[len(evs)-1])
}
