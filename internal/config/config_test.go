package config

import (
	"reflect"
	"testing"
)

func TestParseRegions(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"two regions", "krakow,warsaw", []string{"krakow", "warsaw"}},
		{"whitespace and case normalized", " Krakow , WARSAW ", []string{"krakow", "warsaw"}},
		{"empty entries dropped", "krakow,,warsaw,", []string{"krakow", "warsaw"}},
		{"single region", "krakow", []string{"krakow"}},
		{"empty string", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseRegions(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseRegions(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
