package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-globalization"
	"github.com/spf13/viper"
)

// executeCommand runs a fresh root command and returns its stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)

	err := root.Execute()
	return strings.TrimSpace(out.String()), err
}

func testConfigPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "globalize.yaml")
}

func TestFormatAndParseCommands(t *testing.T) {
	cfg := testConfigPath(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "long date en-GB",
			args: []string{"format-date", "2018-02-18T19:45:57", "-c", "en-GB", "-o", "date:long"},
			want: "18 February 2018",
		},
		{
			name: "long date de",
			args: []string{"format-date", "2018-02-18T19:45:57", "-c", "de", "-o", "date:long"},
			want: "18. Februar 2018",
		},
		{
			name: "default date de",
			args: []string{"format-date", "2018-02-18", "-c", "de"},
			want: "18.2.2018",
		},
		{
			name: "number de",
			args: []string{"format-number", "1234.5", "-c", "de"},
			want: "1.234,5",
		},
		{
			name: "percent en-GB",
			args: []string{"format-number", "0.25", "-c", "en-GB", "-o", "number:percent"},
			want: "25%",
		},
		{
			name: "parse number de",
			args: []string{"parse-number", "1.234,5", "-c", "de"},
			want: "1234.5",
		},
		{
			name: "currency en-GB",
			args: []string{"format-currency", "1234.5", "GBP", "-c", "en-GB"},
			want: "£1,234.50",
		},
		{
			name: "currency code style",
			args: []string{"format-currency", "10", "EUR", "-c", "en-GB", "--style", "code"},
			want: "EUR\u00a010.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", cfg}, tt.args...)
			got, err := executeCommand(t, args...)
			if err != nil {
				t.Fatalf("execute %v: %v", tt.args, err)
			}
			if got != tt.want {
				t.Fatalf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseDateCommand(t *testing.T) {
	got, err := executeCommand(t, "--config", testConfigPath(t), "parse-date", "18.2.2018", "-c", "de")
	if err != nil {
		t.Fatalf("parse-date: %v", err)
	}
	if !strings.HasPrefix(got, "2018-02-18T00:00:00") {
		t.Fatalf("parse-date = %q, want midnight on 2018-02-18", got)
	}
}

func TestCultureSetPersists(t *testing.T) {
	cfg := testConfigPath(t)

	got, err := executeCommand(t, "--config", cfg, "culture", "get")
	if err != nil {
		t.Fatalf("culture get: %v", err)
	}
	if got != "en-GB" {
		t.Fatalf("initial culture = %q, want en-GB", got)
	}

	if _, err := executeCommand(t, "--config", cfg, "culture", "set", "de"); err != nil {
		t.Fatalf("culture set: %v", err)
	}

	got, err = executeCommand(t, "--config", cfg, "culture", "get")
	if err != nil {
		t.Fatalf("culture get: %v", err)
	}
	if got != "de" {
		t.Fatalf("persisted culture = %q, want de", got)
	}

	got, err = executeCommand(t, "--config", cfg, "format-number", "1234.5")
	if err != nil {
		t.Fatalf("format-number: %v", err)
	}
	if got != "1.234,5" {
		t.Fatalf("format-number with persisted culture = %q", got)
	}

	list, err := executeCommand(t, "--config", cfg, "culture", "list")
	if err != nil {
		t.Fatalf("culture list: %v", err)
	}
	if !strings.Contains(list, "* de") {
		t.Fatalf("culture list does not mark de:\n%s", list)
	}
}

func TestCultureSetWritesOnlyCurrentCulture(t *testing.T) {
	cfg := testConfigPath(t)
	if err := os.WriteFile(cfg, []byte("log:\n  level: error\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := executeCommand(t, "--config", cfg, "-c", "en-GB", "culture", "set", "de"); err != nil {
		t.Fatalf("culture set: %v", err)
	}

	saved := viper.New()
	saved.SetConfigFile(cfg)
	if err := saved.ReadInConfig(); err != nil {
		t.Fatalf("read saved config: %v", err)
	}
	if saved.IsSet("culture") || saved.IsSet("cultures") {
		t.Fatalf("per call flags leaked into the config file: %v", saved.AllSettings())
	}
	if got := saved.GetString(currentCultureKey); got != "de" {
		t.Fatalf("current_culture = %q, want de", got)
	}
	if got := saved.GetString("log.level"); got != "error" {
		t.Fatalf("log.level = %q, existing settings were dropped", got)
	}

	got, err := executeCommand(t, "--config", cfg, "format-number", "1234.5")
	if err != nil {
		t.Fatalf("format-number: %v", err)
	}
	if got != "1.234,5" {
		t.Fatalf("format-number after culture set = %q, want 1.234,5", got)
	}
}

func TestCultureSetUnsupported(t *testing.T) {
	_, err := executeCommand(t, "--config", testConfigPath(t), "culture", "set", "fr")
	if !errors.Is(err, globalization.ErrUnsupportedCulture) {
		t.Fatalf("expected ErrUnsupportedCulture, got %v", err)
	}
}

func TestConvertCommand(t *testing.T) {
	cfg := testConfigPath(t)

	tests := []struct {
		args []string
		want string
	}{
		{args: []string{"convert", "boolean", "True"}, want: "true"},
		{args: []string{"convert", "boolean", "1"}, want: "false"},
		{args: []string{"convert", "number", "1,234.5"}, want: "1234.5"},
		{args: []string{"convert", "number", "1.234,5", "-c", "de"}, want: "1234.5"},
		{args: []string{"convert", "string", "plain"}, want: "plain"},
	}

	for _, tt := range tests {
		got, err := executeCommand(t, append([]string{"--config", cfg}, tt.args...)...)
		if err != nil {
			t.Fatalf("%v: %v", tt.args, err)
		}
		if got != tt.want {
			t.Fatalf("%v = %q, want %q", tt.args, got, tt.want)
		}
	}

	if _, err := executeCommand(t, "--config", cfg, "convert", "date", "not a date"); !errors.Is(err, globalization.ErrConversion) {
		t.Fatalf("expected ErrConversion, got %v", err)
	}
}

func TestInvalidLogLevel(t *testing.T) {
	if _, err := executeCommand(t, "--config", testConfigPath(t), "--log-level", "loud", "culture", "get"); err == nil {
		t.Fatal("expected error for invalid log level")
	}
}
