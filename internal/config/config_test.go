package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProjectMissingFileReturnsNil(t *testing.T) {
	p, err := LoadProject(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != nil {
		t.Fatalf("expected nil project, got %+v", p)
	}
}

func TestLoadProjectParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".plsrc.yaml")
	if err := os.WriteFile(path, []byte("optimize: false\ntrace: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadProject(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p == nil {
		t.Fatal("expected a project, got nil")
	}
	if p.Optimize {
		t.Error("Optimize = true, want false (explicit override)")
	}
	if !p.Trace {
		t.Error("Trace = false, want true")
	}
}

func TestNewRunOptionsAppliesOverridesAfterProjectDefaults(t *testing.T) {
	project := &Project{Optimize: false, Trace: true}
	o := NewRunOptions(project, WithOptimize(true))
	if !o.Optimize {
		t.Error("explicit WithOptimize(true) should win over project default")
	}
	if !o.Trace {
		t.Error("Trace should carry over from project default untouched")
	}
}

func TestNewCompileOptionsDefaultsOptimizeOn(t *testing.T) {
	o := NewCompileOptions(nil)
	if !o.Optimize {
		t.Error("Optimize default should be true with no project file")
	}
}
