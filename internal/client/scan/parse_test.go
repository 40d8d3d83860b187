package scan

import (
	"testing"

	"github.com/mvalens/leadkeeper/internal/client/models"
	"github.com/stretchr/testify/assert"
)

func TestParse_JSONContact(t *testing.T) {
	raw := `{"name":"Ana Gomez","email":"ana@x.com","company":"Acme","position":"CTO"}`
	p := Parse(raw)

	assert.Equal(t, "Ana Gomez", p.Name)
	assert.Equal(t, "ana@x.com", p.Email)
	assert.Equal(t, "Acme", p.Company)
	assert.Equal(t, "CTO", p.Position)
	assert.Equal(t, raw, p.QRData)
	assert.True(t, p.Valid())
}

func TestParse_JSONAlternateSpellings(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected models.Prospect
	}{
		{
			name: "fullName and organization",
			raw:  `{"fullName":"Bo Li","organization":"Initech","jobTitle":"Dev"}`,
			expected: models.Prospect{
				Name: "Bo Li", Company: "Initech", Position: "Dev",
			},
		},
		{
			name: "firstName plus lastName",
			raw:  `{"firstName":"Maria","lastName":"Silva","phoneNumber":"+351 1"}`,
			expected: models.Prospect{
				Name: "Maria Silva", Phone: "+351 1",
			},
		},
		{
			name: "legacy priority labels",
			raw:  `{"name":"X","priority":"Alta"}`,
			expected: models.Prospect{
				Name: "X", Priority: models.PriorityHigh,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Parse(tt.raw)
			assert.Equal(t, tt.expected.Name, p.Name)
			assert.Equal(t, tt.expected.Company, p.Company)
			assert.Equal(t, tt.expected.Position, p.Position)
			assert.Equal(t, tt.expected.Phone, p.Phone)
			if tt.expected.Priority != "" {
				assert.Equal(t, tt.expected.Priority, p.Priority)
			}
		})
	}
}

func TestParse_PipeDelimited(t *testing.T) {
	p := Parse("John Doe|TechCorp|john@techcorp.com|+1 555|VP Sales|Software")

	assert.Equal(t, "John Doe", p.Name)
	assert.Equal(t, "TechCorp", p.Company)
	assert.Equal(t, "john@techcorp.com", p.Email)
	assert.Equal(t, "+1 555", p.Phone)
	assert.Equal(t, "VP Sales", p.Position)
	assert.Equal(t, "Software", p.Industry)
}

func TestParse_PipeDelimited_ShortForm(t *testing.T) {
	p := Parse("Jane|Acme")

	assert.Equal(t, "Jane", p.Name)
	assert.Equal(t, "Acme", p.Company)
	assert.Empty(t, p.Email)
}

func TestParse_SinglePipeSegmentIsNotPositional(t *testing.T) {
	p := Parse("just-a-token")

	assert.Empty(t, p.Name)
	assert.Empty(t, p.Email)
	assert.Equal(t, "just-a-token", p.QRData)
	assert.False(t, p.Valid())
}

func TestParse_BareEmail(t *testing.T) {
	p := Parse("  carol@example.org  ")

	assert.Equal(t, "carol@example.org", p.Email)
	assert.Empty(t, p.Name)
	assert.True(t, p.Valid())
}

func TestParse_NamelessJSONStaysRawOnly(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"email only", `{"email":"ana@x.com"}`},
		{"pipes inside a value", `{"note":"a|b|c"}`},
		{"empty object", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Parse(tt.raw)

			assert.Empty(t, p.Name)
			assert.Empty(t, p.Company)
			assert.Empty(t, p.Email)
			assert.Equal(t, tt.raw, p.QRData)
			assert.False(t, p.Valid())
		})
	}
}

func TestParse_UnusablePayloadKeepsRaw(t *testing.T) {
	p := Parse("0123456789")

	assert.False(t, p.Valid())
	assert.Equal(t, "0123456789", p.QRData)
}
