package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/viper"
)

func TestDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	SetDefaults()

	if got := GetFormat(); got != "text" {
		t.Errorf("expected format text, got %q", got)
	}
	if got := GetOutput(); got != "print" {
		t.Errorf("expected output print, got %q", got)
	}
	if got := GetExtensions(); !reflect.DeepEqual(got, []string{".md", ".markdown"}) {
		t.Errorf("expected default extensions, got %v", got)
	}
	if got := GetKinds(); len(got) != 0 {
		t.Errorf("expected no kind filter, got %v", got)
	}
	if got := GetColorCursor(); got != "212" {
		t.Errorf("expected cursor color 212, got %q", got)
	}
	if got := GetEditor(); got != "" {
		t.Errorf("expected no editor, got %q", got)
	}
}

func TestGetKindsSplitsCommas(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	viper.Set("kinds", []string{"inline, fenced", "indented"})

	expected := []string{"inline", "fenced", "indented"}
	if got := GetKinds(); !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestSetters(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	SetDefaults()

	SetOutput("copy")
	SetFormat("json")
	SetPath("docs")
	if GetOutput() != "copy" || C.Output != "copy" {
		t.Errorf("expected output copy, got %q / %q", GetOutput(), C.Output)
	}
	if GetFormat() != "json" || C.Format != "json" {
		t.Errorf("expected format json, got %q / %q", GetFormat(), C.Format)
	}
	if GetPath() != "docs" || C.Path != "docs" {
		t.Errorf("expected path docs, got %q / %q", GetPath(), C.Path)
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandTilde("~/notes"); got != filepath.Join(home, "notes") {
		t.Errorf("expected %q, got %q", filepath.Join(home, "notes"), got)
	}
	if got := expandTilde("notes"); got != "notes" {
		t.Errorf("expected notes, got %q", got)
	}
	if got := expandTilde(""); got != "" {
		t.Errorf("expected empty path, got %q", got)
	}
}
