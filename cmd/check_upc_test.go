package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCheckUPCCommand_Structure tests command is properly configured
func TestCheckUPCCommand_Structure(t *testing.T) {
	if checkUPCCmd == nil {
		t.Fatal("checkUPCCmd is nil")
	}

	if checkUPCCmd.Use != "check-upc <code>" {
		t.Errorf("expected Use='check-upc <code>', got '%s'", checkUPCCmd.Use)
	}

	if checkUPCCmd.RunE == nil {
		t.Error("RunE function is nil")
	}
}

// TestAllDigits tests the digit-string guard in front of the checksum hint
func TestAllDigits(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{
			name:  "valid-upc-a",
			input: "036000291452",
			want:  true,
		},
		{
			name:  "single-digit",
			input: "0",
			want:  true,
		},
		{
			name:  "empty-string",
			input: "",
			want:  false,
		},
		{
			name:  "free-text",
			input: "nike air max",
			want:  false,
		},
		{
			name:  "digits-with-space",
			input: "123 456",
			want:  false,
		},
		{
			name:  "digits-with-dash",
			input: "12-34",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := allDigits(tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}
