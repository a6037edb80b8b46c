package editor

import "testing"

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#fff", Color{255, 255, 255, 1}, false},
		{"#ff0000", Color{255, 0, 0, 1}, false},
		{"#FF8000", Color{255, 128, 0, 1}, false},
		{"#00000080", Color{0, 0, 0, 0x80 / 255.0}, false},
		{"rgb(12, 34, 56)", Color{12, 34, 56, 1}, false},
		{"rgba(12, 34, 56, 0.5)", Color{12, 34, 56, 0.5}, false},
		{"red", Color{255, 0, 0, 1}, false},
		{"transparent", Color{0, 0, 0, 0}, false},
		{"  Blue ", Color{0, 0, 255, 1}, false},
		{"", Color{}, true},
		{"#12", Color{}, true},
		{"rgb(300, 0, 0)", Color{}, true},
		{"rgba(1, 2, 3, 7)", Color{}, true},
		{"linear-gradient(red, blue)", Color{}, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%q: expected error, got %+v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%q: got %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeColor(t *testing.T) {
	tests := []struct{ in, want string }{
		{"rgb(255, 0, 0)", "#ff0000"},
		{"#ABC", "#aabbcc"},
		{"white", "#ffffff"},
		// Unparseable values pass through untouched.
		{"var(--accent)", "var(--accent)"},
		{"linear-gradient(red, blue)", "linear-gradient(red, blue)"},
	}
	for _, tt := range tests {
		if got := NormalizeColor(tt.in); got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.in, got, tt.want)
		}
	}
}
