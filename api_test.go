package conftool

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vengaer/conftool/catalog"
	"github.com/vengaer/conftool/graph"
	"github.com/vengaer/conftool/kv"
)

const testCatalog = "catalog/testdata/options.json"

// openTool opens the shared test catalog against a config file in a
// fresh temporary directory.
func openTool(t *testing.T, opts ...Option) (*Tool, string) {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), ".config")
	opts = append([]Option{WithConfigPath(configPath)}, opts...)
	tool, err := Open(testCatalog, opts...)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return tool, configPath
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func readConfig(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	return string(data)
}

func TestOpen_Formats(t *testing.T) {
	for _, name := range []string{"options.json", "options.yaml", "options.star", "options.hcl"} {
		t.Run(name, func(t *testing.T) {
			tool, err := Open(filepath.Join("catalog", "testdata", name))
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if diff := cmp.Diff([]string{"TLS", "BASE", "NET", "HTTP_PORT", "LOG_LEVEL"}, tool.Catalog().Names()); diff != "" {
				t.Errorf("Names() mismatch (-want +got):\n%s", diff)
			}
			if tool.Graph().Len() != 5 {
				t.Errorf("Graph().Len() = %d, want 5", tool.Graph().Len())
			}
			if tool.ConfigPath() != DefaultConfigPath {
				t.Errorf("ConfigPath() = %q, want %q", tool.ConfigPath(), DefaultConfigPath)
			}
		})
	}
}

func TestOpen_CatalogFormatOverride(t *testing.T) {
	data, err := os.ReadFile(testCatalog)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "options.txt")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Open(path); !errors.Is(err, catalog.ErrUnsupportedFormat) {
		t.Errorf("Open() without format error = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := Open(path, WithCatalogFormat(catalog.FormatJSON)); err != nil {
		t.Errorf("Open() with format error = %v", err)
	}
}

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()
	cyclic := filepath.Join(dir, "cyclic.yaml")
	content := `entries:
  - name: A
    depends: [B]
    entrytype: switch
    default: n
  - name: B
    depends: [A]
    entrytype: switch
    default: n
`
	if err := os.WriteFile(cyclic, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		opts    []Option
		wantErr error
	}{
		{"missing file", filepath.Join(dir, "nope.json"), nil, os.ErrNotExist},
		{"cyclic catalog", cyclic, nil, graph.ErrCycle},
		{"empty config path", testCatalog, []Option{WithConfigPath("")}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.path, tt.opts...)
			if err == nil {
				t.Fatal("Open() error = nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Open() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTool_Queries(t *testing.T) {
	tool, _ := openTool(t)

	e, err := tool.Show("HTTP_PORT")
	if err != nil {
		t.Fatalf("Show() error = %v", err)
	}
	if e.Kind != catalog.KindInteger || e.Default != "8080" {
		t.Errorf("Show(HTTP_PORT) = %+v", e)
	}

	deps, err := tool.Dependencies("TLS")
	if err != nil {
		t.Fatalf("Dependencies() error = %v", err)
	}
	if diff := cmp.Diff([]string{"NET", "BASE"}, deps); diff != "" {
		t.Errorf("Dependencies(TLS) mismatch (-want +got):\n%s", diff)
	}

	dependents, err := tool.Dependents("BASE")
	if err != nil {
		t.Fatalf("Dependents() error = %v", err)
	}
	if diff := cmp.Diff([]string{"TLS", "NET", "HTTP_PORT"}, dependents); diff != "" {
		t.Errorf("Dependents(BASE) mismatch (-want +got):\n%s", diff)
	}

	for name, fn := range map[string]func() error{
		"Show":         func() error { _, err := tool.Show("NOPE"); return err },
		"Dependencies": func() error { _, err := tool.Dependencies("NOPE"); return err },
		"Dependents":   func() error { _, err := tool.Dependents("NOPE"); return err },
	} {
		if err := fn(); !errors.Is(err, ErrInvalidOption) {
			t.Errorf("%s(NOPE) error = %v, want ErrInvalidOption", name, err)
		}
	}
}

func TestTool_Mutations(t *testing.T) {
	tool, path := openTool(t)

	diff, err := tool.Enable("TLS")
	if err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	want := &kv.Diff{Added: []kv.Pair{{Key: "NET", Value: "y"}, {Key: "BASE", Value: "y"}, {Key: "TLS", Value: "y"}}}
	if d := cmp.Diff(want, diff); d != "" {
		t.Errorf("Enable(TLS) diff mismatch (-want +got):\n%s", d)
	}
	if got := readConfig(t, path); got != "NET = y\nBASE = y\nTLS = y\n" {
		t.Errorf("config after enable = %q", got)
	}

	if _, err := tool.Set("HTTP_PORT", " 8443 "); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got := readConfig(t, path); got != "NET = y\nBASE = y\nTLS = y\nHTTP_PORT = 8443\n" {
		t.Errorf("config after set = %q", got)
	}

	diff, err = tool.Disable("NET")
	if err != nil {
		t.Fatalf("Disable() error = %v", err)
	}
	want = &kv.Diff{
		Removed: []kv.Pair{{Key: "HTTP_PORT", Value: "8443"}},
		Changed: []kv.Change{
			{Key: "NET", OldValue: "y", NewValue: "n"},
			{Key: "TLS", OldValue: "y", NewValue: "n"},
		},
	}
	if d := cmp.Diff(want, diff); d != "" {
		t.Errorf("Disable(NET) diff mismatch (-want +got):\n%s", d)
	}
	if got := readConfig(t, path); got != "NET = n\nBASE = y\nTLS = n\n" {
		t.Errorf("config after disable = %q", got)
	}
}

func TestTool_MutationErrors(t *testing.T) {
	tool, path := openTool(t)
	writeConfig(t, path, "BASE = y\n")

	tests := []struct {
		name    string
		run     func() (*kv.Diff, error)
		wantErr error
	}{
		{"enable unknown", func() (*kv.Diff, error) { return tool.Enable("NOPE") }, ErrInvalidOption},
		{"enable integer", func() (*kv.Diff, error) { return tool.Enable("HTTP_PORT") }, ErrNotASwitch},
		{"disable string", func() (*kv.Diff, error) { return tool.Disable("LOG_LEVEL") }, ErrNotASwitch},
		{"set bad integer", func() (*kv.Diff, error) { return tool.Set("HTTP_PORT", "8o80") }, ErrInvalidValue},
		{"set bad choice", func() (*kv.Diff, error) { return tool.Set("LOG_LEVEL", "trace") }, ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.run(); !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if got := readConfig(t, path); got != "BASE = y\n" {
				t.Errorf("config modified by failed operation: %q", got)
			}
		})
	}
}

func TestTool_MalformedConfig(t *testing.T) {
	tool, path := openTool(t)
	writeConfig(t, path, "BASE = y\nbroken\n")

	if _, err := tool.Enable("NET"); !errors.Is(err, kv.ErrSyntax) {
		t.Errorf("Enable() error = %v, want kv.ErrSyntax", err)
	}

	// Defconfig replaces the file wholesale, so a broken file is no obstacle.
	if _, err := tool.Defconfig(); err != nil {
		t.Errorf("Defconfig() error = %v", err)
	}
}

func TestTool_DryRun(t *testing.T) {
	tool, path := openTool(t, WithDryRun(true))
	if !tool.DryRun() {
		t.Fatal("DryRun() = false")
	}

	diff, err := tool.Enable("NET")
	if err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	if diff.TotalChanges() != 2 {
		t.Errorf("TotalChanges() = %d, want 2", diff.TotalChanges())
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("dry run created the config file: %v", err)
	}
}

func TestTool_Defconfig(t *testing.T) {
	tool, path := openTool(t)
	writeConfig(t, path, "TLS = y\n")

	diff, err := tool.Defconfig()
	if err != nil {
		t.Fatalf("Defconfig() error = %v", err)
	}
	if got := readConfig(t, path); got != "BASE = y\nNET = n\nLOG_LEVEL = info\n" {
		t.Errorf("config after defconfig = %q", got)
	}
	want := &kv.Diff{
		Added:   []kv.Pair{{Key: "BASE", Value: "y"}, {Key: "NET", Value: "n"}, {Key: "LOG_LEVEL", Value: "info"}},
		Removed: []kv.Pair{{Key: "TLS", Value: "y"}},
	}
	if d := cmp.Diff(want, diff); d != "" {
		t.Errorf("Defconfig() diff mismatch (-want +got):\n%s", d)
	}
}

func TestTool_Validate(t *testing.T) {
	tool, path := openTool(t)

	// A missing file is an empty, valid config.
	result, err := tool.Validate()
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !result.Valid() {
		t.Errorf("Validate() of missing file = %+v, want valid", result)
	}

	writeConfig(t, path, "TLS = y\nNET = y\noops\n")
	result, err = tool.Validate()
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !errors.Is(result.Err(), ErrInvalidConfig) {
		t.Fatalf("Err() = %v, want ErrInvalidConfig", result.Err())
	}
	if len(result.LineErrors) != 1 || len(result.Missing) != 1 || result.Missing[0].Option != "BASE" {
		t.Errorf("Validate() = %+v", result)
	}
	if diff := cmp.Diff([]string{"TLS", "NET"}, result.Missing[0].RequiredBy); diff != "" {
		t.Errorf("RequiredBy mismatch (-want +got):\n%s", diff)
	}
}
