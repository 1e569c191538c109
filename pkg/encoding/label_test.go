package encoding

import "testing"

func TestFixedLabelToUTF8(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"ascii with padding", append([]byte("bracket"), make([]byte, 73)...), "bracket"},
		{"surrounding spaces", []byte("  part 7  \x00\x00"), "part 7"},
		{"utf8 passthrough", []byte("Lüfter\x00"), "Lüfter"},
		{"windows-1252 fallback", []byte{'L', 0xFC, 'f', 't', 'e', 'r', 0}, "Lüfter"},
		{"empty", make([]byte, 80), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FixedLabelToUTF8(tt.data); got != tt.want {
				t.Errorf("FixedLabelToUTF8() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTrimNullBytes(t *testing.T) {
	got := TrimNullBytes([]byte("abc\x00\x00"))
	if string(got) != "abc" {
		t.Errorf("expected %q, got %q", "abc", got)
	}
}
