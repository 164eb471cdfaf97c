package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "0", want: "0"},
		{raw: " 1.50 ", want: "1.5"},
		{raw: "1e2", want: "100"},
		{raw: "1e308", want: "1e308"},
		{raw: "-1", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "NaN", wantErr: true},
		{raw: "1e400", wantErr: true},
		{raw: "2e308", wantErr: true},
		{raw: "1e999999999", wantErr: true},
		{raw: "1e-999999999", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			d, err := ParsePrice(tc.raw)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			want, err := ParsePrice(tc.want)
			require.NoError(t, err)
			assert.True(t, want.Equal(d), "got %s", d)
		})
	}
}

func TestToInput_OutOfRangePriceIsValidationError(t *testing.T) {
	_, err := toInput("Pen", "1e400", "")

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, FieldPrice)
	assert.Equal(t, "Price must be a non-negative number", UserMessage(err))
}

func TestValidationError_ListsFieldsInOrder(t *testing.T) {
	err := &ValidationError{Fields: map[Field]string{
		FieldPrice: "price is required",
		FieldName:  "name is required",
	}}

	assert.Equal(t, "invalid product: name is required; price is required", err.Error())
}
