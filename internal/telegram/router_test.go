package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCallbackData(t *testing.T) {
	tests := []struct {
		data    string
		action  string
		payload string
	}{
		{"gifts", "gifts", ""},
		{"gift:7", "gift", "7"},
		{"already_has:12", "already_has", "12"},
		{"category:tech", "category", "tech"},
		// Only the first colon splits; the rest stays in the payload.
		{"x:a:b", "x", "a:b"},
		{"", "", ""},
	}

	for _, tt := range tests {
		action, payload := splitCallbackData(tt.data)
		assert.Equal(t, tt.action, action, "data %q", tt.data)
		assert.Equal(t, tt.payload, payload, "data %q", tt.data)
	}
}
