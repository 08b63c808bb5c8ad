package colortag

import (
	"reflect"
	"testing"
)

func TestStrip(t *testing.T) {
	s := Default()
	got := s.Strip("‾C03Red‾C00 text ‾c03")
	if got != "Red text ‾c03" {
		t.Fatalf("unexpected strip result %q", got)
	}
}

func TestUnmatched(t *testing.T) {
	s := Default()
	cases := []struct {
		text string
		want []string
	}{
		{"plain", nil},
		{"‾C01a‾C00", nil},
		{"‾C01a", []string{"01"}},
		{"‾C0Fa‾C01b‾C0Fc‾C00", []string{"01", "0F"}},
		{"‾C00‾C00", nil},
	}
	for _, tc := range cases {
		got := s.Unmatched(tc.text)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Unmatched(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestCustomMarker(t *testing.T) {
	s := New('^', "FF")
	if got := s.Codes("^C12 x ^CFF ‾C13"); !reflect.DeepEqual(got, []string{"12", "FF"}) {
		t.Fatalf("unexpected codes %v", got)
	}
	if got := s.Unmatched("^C12 x ^CFF"); got != nil {
		t.Fatalf("expected balanced tags, got %v", got)
	}
	if s.Tag("12") != "^C12" {
		t.Fatalf("unexpected tag %q", s.Tag("12"))
	}
}

func TestInvalidResetFallsBack(t *testing.T) {
	s := New(0, "zz")
	if s.Marker() != DefaultMarker || s.Reset() != DefaultReset {
		t.Fatalf("expected defaults, got %q %q", s.Marker(), s.Reset())
	}
}

func TestZeroValueSyntax(t *testing.T) {
	var s Syntax
	if got := s.Strip("‾C01x"); got != "x" {
		t.Fatalf("zero Syntax should use defaults, got %q", got)
	}
}
