package stockimport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wishstock/wishlist/common/apperr"
	"golang.org/x/text/encoding/korean"
)

const dump = `종목코드,종목명,시장구분,소속부,종가,대비
005930,삼성전자,KOSPI,,"56,200",-300
035720,카카오,KOSPI,,60100,1200
`

func TestParseEUCKR(t *testing.T) {
	encoded, err := korean.EUCKR.NewEncoder().String(dump)
	require.NoError(t, err)

	stocks, err := Parse(strings.NewReader(encoded), EUCKR)
	require.NoError(t, err)
	require.Len(t, stocks, 2)

	assert.Equal(t, "005930", stocks[0].Code)
	assert.Equal(t, "삼성전자", stocks[0].Name)
	assert.Equal(t, "KOSPI", stocks[0].Market)
	assert.Equal(t, int64(56200), stocks[0].Price)
	assert.Equal(t, "카카오", stocks[1].Name)
}

func TestParseUTF8WithBOM(t *testing.T) {
	stocks, err := Parse(strings.NewReader("\ufeff"+dump+"\n"), UTF8)
	require.NoError(t, err)
	assert.Len(t, stocks, 2)
}

func TestParseLaterRowWins(t *testing.T) {
	stocks, err := Parse(strings.NewReader("005930,삼성전자,KOSPI,,100\n005930,삼성전자,KOSPI,,200\n"), UTF8)
	require.NoError(t, err)
	require.Len(t, stocks, 1)
	assert.Equal(t, int64(200), stocks[0].Price)
}

func TestParseRejectsBadRows(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "short", input: "005930,삼성전자,KOSPI\n", want: "line 1"},
		{name: "price", input: "005930,삼성전자,KOSPI,,abc\n", want: "not an integer"},
		{name: "negative", input: "005930,삼성전자,KOSPI,,-5\n", want: "negative"},
		{name: "no name", input: "종목코드,종목명,시장구분,소속부,종가\n005930,,KOSPI,,1\n", want: "line 2"},
		{
			name: "physical line",
			input: "종목코드,종목명,시장구분,소속부,종가\n\n005930,삼성전자,KOSPI,,1\n\n" +
				"000660,\"SK\nhynix\",KOSPI,,2\n035720,카카오,KOSPI,,abc\n",
			want: "line 7:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), UTF8)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseEncoding(t *testing.T) {
	enc, err := ParseEncoding("CP949")
	require.NoError(t, err)
	assert.Equal(t, EUCKR, enc)

	enc, err = ParseEncoding("utf8")
	require.NoError(t, err)
	assert.Equal(t, UTF8, enc)

	_, err = ParseEncoding("latin1")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}
