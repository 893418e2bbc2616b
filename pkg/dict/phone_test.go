package dict

import (
	"reflect"
	"testing"
)

func TestParsePhones(t *testing.T) {
	tests := []struct {
		input string
		want  []Phone
	}{
		{"HH AH0 L OW1", []Phone{{"HH", NoStress}, {"AH", Unstress}, {"L", NoStress}, {"OW", Primary}}},
		{"ow2 k ey1", []Phone{{"OW", Secondary}, {"K", NoStress}, {"EY", Primary}}},
		{"AH3 - K 1 T", []Phone{{"K", NoStress}, {"T", NoStress}}},
		{"", []Phone{}},
	}
	for _, tt := range tests {
		if got := ParsePhones(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParsePhones(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestFormatPhones(t *testing.T) {
	in := "TH ER1 D IY0"
	if got := FormatPhones(ParsePhones(in)); got != in {
		t.Errorf("FormatPhones = %q, want %q", got, in)
	}
}
