package main

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) string {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuildJobs(t *testing.T) {
	dir := t.TempDir()
	a := touch(t, filepath.Join(dir, "a.h5p"))
	b := touch(t, filepath.Join(dir, "b.h5p"))

	t.Run("single input and language uses --output", func(t *testing.T) {
		jobs, err := buildJobs([]string{a}, []string{"de"}, "custom.h5p")
		if err != nil {
			t.Fatalf("buildJobs error: %v", err)
		}
		if len(jobs) != 1 || jobs[0].Output != "custom.h5p" {
			t.Errorf("jobs = %+v", jobs)
		}
	})

	t.Run("multiple languages get suffixed outputs", func(t *testing.T) {
		jobs, err := buildJobs([]string{a}, []string{"de", "fr"}, "")
		if err != nil {
			t.Fatalf("buildJobs error: %v", err)
		}
		if len(jobs) != 2 {
			t.Fatalf("len(jobs) = %d", len(jobs))
		}
		if filepath.Base(jobs[0].Output) != "a_de.h5p" || filepath.Base(jobs[1].Output) != "a_fr.h5p" {
			t.Errorf("outputs = %q, %q", jobs[0].Output, jobs[1].Output)
		}
	})

	t.Run("single language leaves output to pipeline default", func(t *testing.T) {
		jobs, err := buildJobs([]string{a, b}, []string{"de"}, "")
		if err != nil {
			t.Fatalf("buildJobs error: %v", err)
		}
		if len(jobs) != 2 || jobs[0].Output != "" || jobs[1].Output != "" {
			t.Errorf("jobs = %+v", jobs)
		}
	})

	t.Run("--output with multiple targets rejected", func(t *testing.T) {
		if _, err := buildJobs([]string{a}, []string{"de", "fr"}, "custom.h5p"); err == nil {
			t.Error("expected error for --output with two languages")
		}
		if _, err := buildJobs([]string{a, b}, []string{"de"}, "custom.h5p"); err == nil {
			t.Error("expected error for --output with two inputs")
		}
	})

	t.Run("missing input rejected", func(t *testing.T) {
		if _, err := buildJobs([]string{filepath.Join(dir, "gone.h5p")}, []string{"de"}, ""); err == nil {
			t.Error("expected error for missing input")
		}
	})
}

func TestMaskKey(t *testing.T) {
	if got := maskKey("sk-abcdefgh1234"); got != "sk-a****1234" {
		t.Errorf("maskKey = %q", got)
	}
	if got := maskKey("short"); got != "*****" {
		t.Errorf("maskKey(short) = %q", got)
	}
}
