package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRecipient(t *testing.T) {
	tests := []struct {
		name    string
		to      string
		want    string
		wantErr bool
	}{
		{name: "plain address", to: "mod@example.com", want: "mod@example.com"},
		{name: "surrounding whitespace trimmed", to: "  mod@example.com \n", want: "mod@example.com"},
		{name: "empty", to: "", wantErr: true},
		{name: "blank", to: "   ", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateRecipient(tc.to)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
