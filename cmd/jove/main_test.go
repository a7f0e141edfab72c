package main

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func TestRootHasRun(t *testing.T) {
	root := newRootCmd()
	found := false
	for _, cmd := range root.Commands() {
		if cmd.Name() == "run" {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected root command to include run")
	}
}

func TestRootHasConfig(t *testing.T) {
	root := newRootCmd()
	found := false
	for _, cmd := range root.Commands() {
		if cmd.Name() == "config" {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected root command to include config")
	}
}

func TestRootHasVersion(t *testing.T) {
	root := newRootCmd()
	found := false
	for _, cmd := range root.Commands() {
		if cmd.Name() == "version" {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected root command to include version")
	}
}

func TestReadCodePrefersInline(t *testing.T) {
	cmd := newRunCmd()
	got, err := readCode(cmd, nil, "print(1)")
	if err != nil {
		t.Fatalf("readCode: %v", err)
	}
	if got != "print(1)" {
		t.Fatalf("unexpected code: %q", got)
	}
}

func TestReadCodeFromStdin(t *testing.T) {
	cmd := newRunCmd()
	cmd.SetIn(bytes.NewBufferString("print(2)\n"))
	got, err := readCode(cmd, nil, "")
	if err != nil {
		t.Fatalf("readCode: %v", err)
	}
	if got != "print(2)\n" {
		t.Fatalf("unexpected code: %q", got)
	}
}

func TestReadCodeRejectsEmptyStdin(t *testing.T) {
	cmd := newRunCmd()
	cmd.SetIn(strings.NewReader("   \n"))
	if _, err := readCode(cmd, nil, ""); err == nil {
		t.Fatalf("expected error for empty stdin")
	}
}

func TestToEnvListSorted(t *testing.T) {
	got := toEnvList(map[string]string{"B": "2", "A": "1"})
	want := []string{"A=1", "B=2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected env list: %#v", got)
	}
	if toEnvList(nil) != nil {
		t.Fatalf("expected nil for empty env")
	}
}
