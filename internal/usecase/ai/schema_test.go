package ai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ringkas/internal/domain/entity"
)

func outputSchema() *Schema {
	return &Schema{
		Name: "processing_output",
		Fields: []Field{
			{Name: "output", Description: "hasil utama", Required: true},
			{Name: "answer", Description: "jawaban"},
		},
	}
}

func TestParseStructured(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    map[string]string
		wantErr bool
	}{
		{
			name: "plain object",
			text: `{"output":"Ringkasan singkat.","answer":"Jakarta"}`,
			want: map[string]string{"output": "Ringkasan singkat.", "answer": "Jakarta"},
		},
		{
			name: "null answer is dropped",
			text: `{"output":"Ringkasan.","answer":null}`,
			want: map[string]string{"output": "Ringkasan."},
		},
		{
			name: "fenced with prose",
			text: "Berikut hasilnya:\n```json\n{\"output\": \"• poin {satu}\"}\n```",
			want: map[string]string{"output": "• poin {satu}"},
		},
		{
			name: "brace-wrapped word before the object",
			text: `Format {output}: {"output":"ringkasan"}`,
			want: map[string]string{"output": "ringkasan"},
		},
		{
			name: "non-string values keep their json form",
			text: `{"output":"x","answer":42}`,
			want: map[string]string{"output": "x", "answer": "42"},
		},
		{
			name: "escaped quotes and braces in strings",
			text: `{"output":"kata \"kutip\" dan } kurung"}`,
			want: map[string]string{"output": `kata "kutip" dan } kurung`},
		},
		{
			name: "empty output is still present",
			text: `{"output":""}`,
			want: map[string]string{"output": ""},
		},
		{
			name: "unknown fields ignored",
			text: `{"output":"x","jawaban":"y"}`,
			want: map[string]string{"output": "x"},
		},
		{
			name:    "missing required field",
			text:    `{"answer":"Jakarta"}`,
			wantErr: true,
		},
		{
			name:    "no json",
			text:    "Gagal mengambil konten dari URL.",
			wantErr: true,
		},
		{
			name:    "unbalanced",
			text:    `{"output":"x"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStructured(tt.text, outputSchema())
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrNoStructuredOutput))
				assert.True(t, errors.Is(err, entity.ErrModelInvocation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSchema_Instruction(t *testing.T) {
	instr := outputSchema().Instruction()

	assert.Contains(t, instr, `"output" (string, wajib)`)
	assert.Contains(t, instr, `"answer" (string, opsional)`)
}
