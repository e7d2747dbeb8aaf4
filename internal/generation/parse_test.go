package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		key     string
	}{
		{name: "plain object", raw: `{"mentions": "m"}`, key: "mentions"},
		{name: "fenced object", raw: "```json\n{\"resume\": []}\n```", key: "resume"},
		{name: "preamble", raw: "Voici :\n{\"lettre\": {}}", key: "lettre"},
		{name: "trailing comma salvaged", raw: `{"checklist": ["a",],}`, key: "checklist"},
		{name: "array rejected", raw: `["a", "b"]`, wantErr: true},
		{name: "prose rejected", raw: "Je ne peux pas produire de JSON.", wantErr: true},
		{name: "empty rejected", raw: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate, err := Parse(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, candidate, tt.key)
		})
	}
}
