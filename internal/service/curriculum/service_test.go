package curriculum

import (
	"os"
	"path/filepath"
	"testing"
)

func writeGradeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestNormalizeGrade(t *testing.T) {
	cases := map[string]string{
		"5":        "Grade 5",
		"Grade5":   "Grade 5",
		"Grade 5":  "Grade 5",
		"  12  ":   "Grade 12",
		"Nursery":  "Nursery",
		"Unknown":  "Unknown",
		"Grade 10": "Grade 10",
	}
	for in, want := range cases {
		if got := NormalizeGrade(in); got != want {
			t.Fatalf("NormalizeGrade(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestContextLoadsAndCaches(t *testing.T) {
	gradeDir := t.TempDir()
	writeGradeFile(t, gradeDir, "Grade5.md", "fractions and decimals")

	svc := NewService(gradeDir, t.TempDir())

	text, ok := svc.Context("5")
	if !ok {
		t.Fatal("expected context for Grade 5")
	}
	if text != "fractions and decimals" {
		t.Fatalf("unexpected context: %q", text)
	}

	// Cached read survives file removal until the cache is cleared.
	if err := os.Remove(filepath.Join(gradeDir, "Grade5.md")); err != nil {
		t.Fatal(err)
	}
	if _, ok := svc.Context("Grade 5"); !ok {
		t.Fatal("expected cached context")
	}

	svc.clearCache()
	if _, ok := svc.Context("Grade 5"); ok {
		t.Fatal("expected miss after cache clear and file removal")
	}
}

func TestContextAbsent(t *testing.T) {
	svc := NewService(t.TempDir(), t.TempDir())
	if _, ok := svc.Context("Grade 7"); ok {
		t.Fatal("expected absent for missing file")
	}
	if _, ok := svc.Context("Astrology"); ok {
		t.Fatal("expected absent for unknown name")
	}
}

func TestCourseContext(t *testing.T) {
	courseDir := t.TempDir()
	writeGradeFile(t, courseDir, "Coding.md", "scratch then python")

	svc := NewService(t.TempDir(), courseDir)
	text, ok := svc.Context("Coding")
	if !ok || text != "scratch then python" {
		t.Fatalf("course context: ok=%v text=%q", ok, text)
	}
}

func TestAvailableGrades(t *testing.T) {
	gradeDir := t.TempDir()
	writeGradeFile(t, gradeDir, "Nursery.md", "play")
	writeGradeFile(t, gradeDir, "Grade3.md", "tables")

	svc := NewService(gradeDir, t.TempDir())
	grades := svc.AvailableGrades()
	if len(grades) != 2 {
		t.Fatalf("expected 2 grades, got %v", grades)
	}
	if grades[0] != "Nursery" || grades[1] != "Grade 3" {
		t.Fatalf("expected ordered grades, got %v", grades)
	}
}
