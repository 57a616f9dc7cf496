package cli

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want Options
	}{
		{
			name: "no arguments",
			args: []string{"imeshim-demo"},
			want: Options{},
		},
		{
			name: "help",
			args: []string{"imeshim-demo", "--help"},
			want: Options{ShowHelp: true},
		},
		{
			name: "equals form",
			args: []string{"imeshim-demo", "--layout=dubeolsik", "--policy=grow"},
			want: Options{LayoutName: "dubeolsik", Policy: "grow"},
		},
		{
			name: "separate value form",
			args: []string{"imeshim-probe", "--display", ":1", "--inject", "hello"},
			want: Options{Display: ":1", InjectText: "hello"},
		},
		{
			name: "capacity and verbose",
			args: []string{"imeshim-demo", "--capacity", "8192", "-v"},
			want: Options{Capacity: 8192, Verbose: true},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.args)
			if err != nil {
				t.Fatalf("Parse(%v) returned error: %v", tc.args, err)
			}
			if got != tc.want {
				t.Fatalf("Parse(%v) = %+v, want %+v", tc.args, got, tc.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{name: "unknown option", args: []string{"imeshim-demo", "--frobnicate"}},
		{name: "missing value", args: []string{"imeshim-demo", "--layout"}},
		{name: "bad capacity", args: []string{"imeshim-demo", "--capacity", "zero"}},
		{name: "negative capacity", args: []string{"imeshim-demo", "--capacity=-1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(tc.args); err == nil {
				t.Fatalf("Parse(%v) succeeded, want error", tc.args)
			}
		})
	}
}
