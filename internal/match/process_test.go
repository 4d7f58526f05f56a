package match

import (
	"reflect"
	"testing"
)

func TestSplitShellWords(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"python3 server_main.py", []string{"python3", "server_main.py"}},
		{`python3 "server main.py" --flag`, []string{"python3", "server main.py", "--flag"}},
		{"  ./run  ", []string{"./run"}},
		{"", nil},
	}
	for _, tc := range cases {
		got := splitShellWords(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("splitShellWords(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestLastTokenAsPort(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"listening on 127.0.0.1:9000 port 9000\n", 9000, false},
		{"9000", 9000, false},
		{"", 0, true},
		{"no port here\n", 0, true},
	}
	for _, tc := range cases {
		got, err := lastTokenAsPort(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("lastTokenAsPort(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("lastTokenAsPort(%q) unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("lastTokenAsPort(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
