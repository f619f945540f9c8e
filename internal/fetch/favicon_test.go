package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIconResolver(t *testing.T) {
	r := IconResolver{
		Template: "https://icons.example.net/s2?domain=%s",
		Fallback: "/icons/default.svg",
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "host filled into template",
			input: "https://example.com/some/page",
			want:  "https://icons.example.net/s2?domain=example.com",
		},
		{
			name:  "port stripped from host",
			input: "https://example.com:8443/",
			want:  "https://icons.example.net/s2?domain=example.com",
		},
		{
			name:  "unparseable input yields fallback",
			input: "",
			want:  "/icons/default.svg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.input))
		})
	}
}
