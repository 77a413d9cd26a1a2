package validate

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vengaer/conftool/catalog"
)

// newValidator builds a validator over:
//
//	BASE (switch, y)
//	NET  (switch, n)  -> BASE
//	TLS  (switch, n)  -> NET, BASE
//	PORT (integer)    -> NET
//	LEVEL (string, choices)
func newValidator(t *testing.T) *Validator {
	t.Helper()

	cat, err := catalog.New(
		catalog.Entry{Name: "BASE", Kind: catalog.KindSwitch, Default: "y"},
		catalog.Entry{Name: "NET", Depends: []string{"BASE"}, Kind: catalog.KindSwitch, Default: "n"},
		catalog.Entry{Name: "TLS", Depends: []string{"NET", "BASE"}, Kind: catalog.KindSwitch, Default: "n"},
		catalog.Entry{Name: "PORT", Depends: []string{"NET"}, Kind: catalog.KindInteger, Default: "80"},
		catalog.Entry{Name: "LEVEL", Kind: catalog.KindString, Default: "info", Choices: []string{"debug", "info"}},
	)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	g, err := cat.Graph()
	if err != nil {
		t.Fatalf("Graph() error = %v", err)
	}
	return New(cat, g)
}

func TestValidate(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name  string
		lines []string
		want  *Result
	}{
		{
			name:  "empty config",
			lines: nil,
			want:  &Result{},
		},
		{
			name:  "valid config",
			lines: []string{"BASE = y", "", "NET=y", "  PORT =  8080", "LEVEL = debug", "TLS = n"},
			want:  &Result{},
		},
		{
			name:  "dependency not listed",
			lines: []string{"TLS = y", "NET = y"},
			want: &Result{
				Missing: []Missing{{Option: "BASE", Reason: NotListed, RequiredBy: []string{"TLS", "NET"}}},
			},
		},
		{
			name:  "dependency not set",
			lines: []string{"BASE = n", "NET = y"},
			want: &Result{
				Missing: []Missing{{Option: "BASE", Reason: NotSet, Value: "n", RequiredBy: []string{"NET"}}},
			},
		},
		{
			name:  "disabled switch is inactive",
			lines: []string{"TLS = n"},
			want:  &Result{},
		},
		{
			name:  "malformed lines",
			lines: []string{"BASE = y", "garbage", "   ", "a b = c", "= x"},
			want: &Result{
				LineErrors: []LineError{
					{Line: 2, Text: "garbage"},
					{Line: 4, Text: "a b = c"},
					{Line: 5, Text: "= x"},
				},
			},
		},
		{
			name:  "unknown and invalid values",
			lines: []string{"BASE = y", "NET = y", "FOO = 1", "PORT = 8o80", "LEVEL = loud", "TLS = maybe"},
			want: &Result{
				UnknownOptions: []UnknownOption{{Option: "FOO", Value: "1"}},
				InvalidValues: []InvalidValue{
					{Option: "PORT", Value: "8o80", Reason: "not a non-negative integer"},
					{Option: "LEVEL", Value: "loud", Reason: "must be one of debug, info"},
					{Option: "TLS", Value: "maybe", Reason: "switch value must be y or n"},
				},
			},
		},
		{
			name:  "every check reports",
			lines: []string{"PORT = 1", "oops", "FOO = y"},
			want: &Result{
				LineErrors:     []LineError{{Line: 2, Text: "oops"}},
				UnknownOptions: []UnknownOption{{Option: "FOO", Value: "y"}},
				Missing: []Missing{
					{Option: "NET", Reason: NotListed, RequiredBy: []string{"PORT"}},
					{Option: "BASE", Reason: NotListed, RequiredBy: []string{"PORT"}},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Validate(tt.lines)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Validate() mismatch (-want +got):\n%s", diff)
			}
			if got.Valid() != (got.Err() == nil) {
				t.Errorf("Valid() = %v but Err() = %v", got.Valid(), got.Err())
			}
		})
	}
}

func TestResult_Err(t *testing.T) {
	v := newValidator(t)

	if err := v.Validate([]string{"BASE = y"}).Err(); err != nil {
		t.Fatalf("Err() = %v, want nil", err)
	}

	err := v.Validate([]string{"oops", "FOO = 1", "NET = y", "BASE = n"}).Err()
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Err() = %v, want ErrInvalidConfig", err)
	}
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("Err() = %T, want *Error", err)
	}
	want := &Error{Lines: 1, Unknown: 1, Missing: 1}
	if diff := cmp.Diff(want, verr); diff != "" {
		t.Errorf("Error mismatch (-want +got):\n%s", diff)
	}

	wantMsg := "invalid configuration: 1 syntax error(s), 1 unknown option(s), 1 unsatisfied dependency(ies)"
	if err.Error() != wantMsg {
		t.Errorf("Error() = %q, want %q", err.Error(), wantMsg)
	}
}

func TestResult_Messages(t *testing.T) {
	r := &Result{
		LineErrors:     []LineError{{Line: 3, Text: "oops"}},
		UnknownOptions: []UnknownOption{{Option: "FOO", Value: "1"}},
		InvalidValues:  []InvalidValue{{Option: "PORT", Value: "x", Reason: "not a non-negative integer"}},
		Missing: []Missing{
			{Option: "BASE", Reason: NotSet, Value: "n", RequiredBy: []string{"NET", "TLS"}},
			{Option: "NET", Reason: NotListed, RequiredBy: []string{"PORT"}},
		},
	}

	want := []string{
		"syntax error on line 3: oops",
		"unknown option FOO",
		`invalid value "x" for PORT: not a non-negative integer`,
		`BASE is set to "n", required by NET, TLS`,
		"NET is not listed, required by PORT",
	}
	if diff := cmp.Diff(want, r.Messages()); diff != "" {
		t.Errorf("Messages() mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckLines(t *testing.T) {
	lines := []string{"A=1", " B = 2 ", "C_D-E =", "", "\t", "1 = x", "A-", "=", "x y = z"}

	want := []LineError{
		{Line: 7, Text: "A-"},
		{Line: 8, Text: "="},
		{Line: 9, Text: "x y = z"},
	}
	if diff := cmp.Diff(want, CheckLines(lines)); diff != "" {
		t.Errorf("CheckLines() mismatch (-want +got):\n%s", diff)
	}
}
