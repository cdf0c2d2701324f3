// Package curriculum serves grade- and course-specific context text used to
// ground the tutor's answers. Content lives in markdown files on disk.
package curriculum

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

var gradeFiles = map[string]string{
	"Nursery":  "Nursery.md",
	"LKG":      "LKG.md",
	"UKG":      "UKG.md",
	"Grade 1":  "Grade1.md",
	"Grade 2":  "Grade2.md",
	"Grade 3":  "Grade3.md",
	"Grade 4":  "Grade4.md",
	"Grade 5":  "Grade5.md",
	"Grade 6":  "Grade6.md",
	"Grade 7":  "Grade7.md",
	"Grade 8":  "Grade8.md",
	"Grade 9":  "Grade9.md",
	"Grade 10": "Grade10.md",
	"Grade 11": "Grade11.md",
	"Grade 12": "Grade12.md",
}

var courseFiles = map[string]string{
	"Indian Languages":  "IndianLanguages.md",
	"Foreign Languages": "ForeignLanguages.md",
	"Math & Science":    "MathScience.md",
	"1-to-1 Math":       "OneToOneMath.md",
	"Computer Science":  "ComputerScience.md",
	"Coding":            "Coding.md",
	"Classical Dance":   "ClassicalDance.md",
	"Classical Music":   "ClassicalMusic.md",
	"Phonics":           "Phonics.md",
	"Public Speaking":   "PublicSpeaking.md",
	"Yoga":              "Yoga.md",
	"Hobby Classes":     "HobbyClasses.md",
}

// gradeAliases maps shorthand like "5" or "Grade5" to the canonical key.
var gradeAliases = buildGradeAliases()

func buildGradeAliases() map[string]string {
	aliases := make(map[string]string, 24)
	for i := 1; i <= 12; i++ {
		n := strconv.Itoa(i)
		aliases[n] = "Grade " + n
		aliases["Grade"+n] = "Grade " + n
	}
	return aliases
}

// NormalizeGrade maps shorthand grade names to their canonical form.
func NormalizeGrade(grade string) string {
	grade = strings.TrimSpace(grade)
	if canonical, ok := gradeAliases[grade]; ok {
		return canonical
	}
	return grade
}

// Service loads curriculum context from disk with a read-through cache.
type Service struct {
	gradeDir  string
	courseDir string

	mu    sync.RWMutex
	cache map[string]string
}

// NewService creates a curriculum lookup rooted at the given directories.
func NewService(gradeDir, courseDir string) *Service {
	return &Service{
		gradeDir:  gradeDir,
		courseDir: courseDir,
		cache:     make(map[string]string),
	}
}

// Context returns the curriculum text for a grade or course name. The second
// return is false when no content is available; callers must substitute
// their own sentinel, never fabricate.
func (s *Service) Context(gradeOrCourse string) (string, bool) {
	normalized := NormalizeGrade(gradeOrCourse)

	s.mu.RLock()
	cached, ok := s.cache[normalized]
	s.mu.RUnlock()
	if ok {
		return cached, true
	}

	path, ok := s.resolvePath(normalized)
	if !ok {
		return "", false
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	text := string(raw)

	s.mu.Lock()
	s.cache[normalized] = text
	s.mu.Unlock()

	return text, true
}

func (s *Service) resolvePath(normalized string) (string, bool) {
	if filename, ok := gradeFiles[normalized]; ok {
		return filepath.Join(s.gradeDir, filename), true
	}
	if filename, ok := courseFiles[normalized]; ok {
		return filepath.Join(s.courseDir, filename), true
	}
	return "", false
}

// AvailableGrades lists grades whose context file exists on disk.
func (s *Service) AvailableGrades() []string {
	ordered := []string{
		"Nursery", "LKG", "UKG",
		"Grade 1", "Grade 2", "Grade 3", "Grade 4", "Grade 5", "Grade 6",
		"Grade 7", "Grade 8", "Grade 9", "Grade 10", "Grade 11", "Grade 12",
	}
	available := make([]string, 0, len(ordered))
	for _, grade := range ordered {
		path := filepath.Join(s.gradeDir, gradeFiles[grade])
		if _, err := os.Stat(path); err == nil {
			available = append(available, grade)
		}
	}
	return available
}

// clearCache drops cached file contents so edits on disk become visible.
func (s *Service) clearCache() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}
