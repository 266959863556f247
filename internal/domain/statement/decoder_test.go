package statement

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOFX = `OFXHEADER:100
DATA:OFXSGML
<OFX>
<BANKTRANLIST>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240310
<TRNAMT>150.00
<FITID>ABC-1
<NAME>Deposit from client
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240311
<TRNAMT>-42.50
<NAME>Card purchase
</STMTTRN>
</BANKTRANLIST>
</OFX>`

func TestDecode_OFX(t *testing.T) {
	records, format, err := NewDecoder().Decode([]byte(sampleOFX), "extrato.ofx")
	require.NoError(t, err)
	assert.Equal(t, FormatOFX, format)
	require.Len(t, records, 2)

	assert.Equal(t, "20240310", records[0].Date)
	assert.Equal(t, "150.00", records[0].Amount)
	assert.Equal(t, "Deposit from client", records[0].Description)
	assert.Equal(t, "ABC-1", records[0].ExternalID)

	assert.Equal(t, "-42.50", records[1].Amount)
	assert.Empty(t, records[1].ExternalID)
}

func TestDecode_OFXDropsPartialBlocks(t *testing.T) {
	content := `<OFX>
<STMTTRN>
<DTPOSTED>20240310
<NAME>Missing amount
</STMTTRN>
<STMTTRN>
<DTPOSTED>20240311
<TRNAMT>10.00
<NAME>Complete
</STMTTRN>
</OFX>`

	records, format, err := NewDecoder().Decode([]byte(content), "extrato.ofx")
	require.NoError(t, err)
	assert.Equal(t, FormatOFX, format)
	require.Len(t, records, 1)
	assert.Equal(t, "Complete", records[0].Description)
}

func TestDecode_CSV(t *testing.T) {
	content := "date,description,value,external_id\n" +
		"2024-03-10,Deposit from client,150.00,ROW-1\n" +
		"2024-03-11,Card purchase,-42.50,\n"

	records, format, err := NewDecoder().Decode([]byte(content), "statement.csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, format)
	require.Len(t, records, 2)

	assert.Equal(t, 1, records[0].Row)
	assert.Equal(t, "2024-03-10", records[0].Date)
	assert.Equal(t, "ROW-1", records[0].ExternalID)
	assert.Equal(t, "-42.50", records[1].Amount)
	assert.Empty(t, records[1].ExternalID)
}

func TestDecode_CSVMalformedRow(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantRow int
	}{
		{
			name:    "bad date",
			content: "date,description,value\nnot-a-date,Deposit,10.00\n",
			wantRow: 1,
		},
		{
			name:    "bad value",
			content: "date,description,value\n2024-03-10,Deposit,abc\n",
			wantRow: 1,
		},
		{
			name:    "bad value on later row",
			content: "date,description,value\n2024-03-10,Deposit,10.00\n2024-03-11,Fee,1.2.3\n",
			wantRow: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := NewDecoder().Decode([]byte(tt.content), "statement.csv")
			var malformed *MalformedInputError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, tt.wantRow, malformed.Row)
		})
	}
}

func TestDecode_CSVMissingColumn(t *testing.T) {
	content := "date,description\n2024-03-10,Deposit\n"

	_, _, err := NewDecoder().Decode([]byte(content), "statement.csv")
	var malformed *MalformedInputError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, malformed.Reason, "value")
}

func TestDecode_CustomDateLayout(t *testing.T) {
	content := "date,description,value\n10/03/2024,Deposit,10.00\n"

	records, _, err := NewDecoderWithDateLayout("02/01/2006").Decode([]byte(content), "statement.csv")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "10/03/2024", records[0].Date)
}

func TestDecode_SniffsFormatWithoutExtension(t *testing.T) {
	csvContent := "date,description,value\n2024-03-10,Deposit,10.00\n"

	_, format, err := NewDecoder().Decode([]byte(csvContent), "statement")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, format)

	_, format, err = NewDecoder().Decode([]byte(sampleOFX), "download")
	require.NoError(t, err)
	assert.Equal(t, FormatOFX, format)
}

func TestDecode_UnsupportedFormat(t *testing.T) {
	_, _, err := NewDecoder().Decode([]byte("random bytes with no structure"), "notes")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestDecode_Windows1252Description(t *testing.T) {
	// "Depósito" encoded as Windows-1252: ó is 0xF3, invalid as UTF-8.
	content := []byte("date,description,value\n2024-03-10,Dep\xf3sito,10.00\n")

	records, _, err := NewDecoder().Decode(content, "statement.csv")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Depósito", records[0].Description)
}
