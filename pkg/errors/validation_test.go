package errors

import (
	"strings"
	"testing"
)

func TestValidateColumnPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"single segment", "id", false},
		{"nested", "tags.t", false},
		{"unicode", "患者.姓名", false},
		{"deep", "a.b.c.d.e", false},

		{"empty", "", true},
		{"leading dot", ".a", true},
		{"trailing dot", "a.", true},
		{"double dot", "a..b", true},
		{"control char", "a\x01b", true},
		{"newline", "a\nb", true},
		{"too long", strings.Repeat("a", 600), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateColumnPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColumnPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidateColumnPath(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"https://example.com/data.json", false},
		{"http://localhost:8080/records", false},
		{"", true},
		{"ftp://example.com/data.json", true},
		{"file:///etc/passwd", true},
		{"example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSheetName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Sheet1", false},
		{"spaces", "Patient Visits", false},
		{"max length", strings.Repeat("x", 31), false},

		{"empty", "", true},
		{"too long", strings.Repeat("x", 32), true},
		{"colon", "a:b", true},
		{"slash", "a/b", true},
		{"bracket", "a[1]", true},
		{"apostrophe", "'quoted'", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSheetName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSheetName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "records", false},
		{"underscore", "_staging_rows", false},
		{"digits", "visits_2024", false},

		{"empty", "", true},
		{"leading digit", "1rows", true},
		{"dash", "my-rows", true},
		{"quote", `rows"; drop`, true},
		{"dot", "public.rows", true},
		{"too long", "a" + strings.Repeat("b", 63), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTableName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTableName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
