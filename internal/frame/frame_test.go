package frame

import (
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/bft-labs/climalog/internal/domain"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		chunk  []byte
		n      int
		want   string
		wantOK bool
	}{
		{"full frame", []byte("t23,h45;\r\nt2"), 12, "t23,h45;\r\nt2", true},
		{"decodes only bytes read", []byte("t23,h45;XXXX"), 8, "t23,h45;", true},
		{"no delimiter", []byte("t23,h45\r\nt23"), 12, "", false},
		{"delimiter past the bytes read", []byte("t23,h4;;;;;;"), 6, "t23,h4", true},
		{"nothing read", make([]byte, 12), 0, "", false},
		{"stale delimiter with nothing read", []byte("t23,h45;\r\nt2"), 0, "", true},
		{"n beyond chunk is clamped", []byte("a;"), 10, "a;", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.chunk, tt.n, DefaultDelimiter)
			if ok != tt.wantOK {
				t.Fatalf("Extract() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtract_LossyDecoding(t *testing.T) {
	tests := []struct {
		name  string
		chunk []byte
		want  string
	}{
		{
			// 0xE2 0x82 starts a three-byte sequence cut short by the delimiter.
			name:  "truncated sequence is one replacement",
			chunk: []byte{'t', '2', '0', ',', 'h', '5', '0', 0xE2, 0x82, ';', 0xFF, 'x'},
			want:  "t20,h50\uFFFD;\uFFFDx",
		},
		{
			name:  "each stray byte is replaced",
			chunk: []byte{0xFF, 0xFE, ';', 'a'},
			want:  "\uFFFD\uFFFD;a",
		},
		{
			name:  "surrogate encoding splits at the bad continuation",
			chunk: []byte{0xED, 0xA0, 0x80, ';'},
			want:  "\uFFFD\uFFFD\uFFFD;",
		},
		{
			name:  "valid multibyte kept",
			chunk: []byte("t2°;"),
			want:  "t2°;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.chunk, len(tt.chunk), DefaultDelimiter)
			if !ok {
				t.Fatal("expected a candidate frame")
			}
			if !utf8.ValidString(got) {
				t.Errorf("candidate %q is not valid UTF-8", got)
			}
			if got != tt.want {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParser_Parse(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantTemp int8
		wantHum  uint8
		wantErr  bool
	}{
		{"simple", "t23,h45;", 23, 45, false},
		{"negative temperature", "t-7,h80;", -7, 80, false},
		{"first qualifying segment wins", "t20,h50;t30,h60;", 20, 50, false},
		{"leading partial segment skipped", "3,h45;t21,h40;", 21, 40, false},
		{"segment without separator skipped", "\r\n;t19,h33;", 19, 33, false},
		{"extra fields ignored", "t20,h50,x9;", 20, 50, false},
		{"humidity above 100 accepted", "t20,h150;", 20, 150, false},
		{"short temperature token rejects frame", "t,h1;", 0, 0, true},
		{"short humidity token rejects frame", "t20,h;", 0, 0, true},
		{"chosen segment fails even if later one is valid", "tx1,h50;t20,h50;", 0, 0, true},
		{"temperature overflow", "t200,h50;", 0, 0, true},
		{"humidity overflow", "t20,h256;", 0, 0, true},
		{"negative humidity", "t20,h-5;", 0, 0, true},
		{"no segment", ";;;", 0, 0, true},
		{"leading whitespace not stripped", "\nt20,h50;", 0, 0, true},
		{"prefix removed once", "tt20,h50;", 0, 0, true},
	}

	p := DefaultParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			temp, hum, err := p.Parse(tt.text)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.text, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, domain.ErrMalformedFrame) {
					t.Errorf("error %v does not wrap ErrMalformedFrame", err)
				}
				if temp != 0 || hum != 0 {
					t.Errorf("failed parse returned partial values %d/%d", temp, hum)
				}
				return
			}
			if temp != tt.wantTemp || hum != tt.wantHum {
				t.Errorf("Parse(%q) = %d/%d, want %d/%d", tt.text, temp, hum, tt.wantTemp, tt.wantHum)
			}
		})
	}
}

func TestParser_CustomLayout(t *testing.T) {
	p := Parser{Delimiter: '|', Separator: ':', TemperaturePrefix: "T=", HumidityPrefix: "H="}

	temp, hum, err := p.Parse("T=12:H=34|")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if temp != 12 || hum != 34 {
		t.Errorf("Parse() = %d/%d, want 12/34", temp, hum)
	}
}
