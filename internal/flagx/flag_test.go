package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "keeps allowed flag with value",
			args:    []string{"-a", "localhost:8080", "-x", "noise"},
			allowed: []string{"-a"},
			want:    []string{"-a", "localhost:8080"},
		},
		{
			name:    "keeps equals form",
			args:    []string{"--addr=localhost:8080", "--other=1"},
			allowed: []string{"--addr"},
			want:    []string{"--addr=localhost:8080"},
		},
		{
			name:    "boolean flag without value",
			args:    []string{"-v", "-a", "x"},
			allowed: []string{"-v"},
			want:    []string{"-v"},
		},
		{
			name:    "no allowed flags present",
			args:    []string{"-x", "1", "-y"},
			allowed: []string{"-a"},
			want:    []string{},
		},
		{
			name:    "flag followed by another flag does not consume it as a value",
			args:    []string{"-a", "-b", "val"},
			allowed: []string{"-a", "-b"},
			want:    []string{"-a", "-b", "val"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"app", "-c", "/tmp/config.json", "-a", "ignored"}
	assert.Equal(t, "/tmp/config.json", JsonConfigFlags())

	os.Args = []string{"app", "--config=/etc/app.json"}
	assert.Equal(t, "/etc/app.json", JsonConfigFlags())

	os.Args = []string{"app", "--c", "/tmp/short.json"}
	assert.Equal(t, "/tmp/short.json", JsonConfigFlags())

	os.Args = []string{"app", "-a", "localhost"}
	assert.Equal(t, "", JsonConfigFlags())
}
