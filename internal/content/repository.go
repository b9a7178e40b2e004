package content

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sqlean/sqlean/internal/errors"
)

// Module describes one manifest entry: a named, ordered group of lessons
// backed by one dataset.
type Module struct {
	ID      string `yaml:"id"`
	Title   string `yaml:"title"`
	File    string `yaml:"file"`
	Dataset string `yaml:"dataset"`
}

// Lesson is one exercise unit.
type Lesson struct {
	ID            int            `yaml:"id"`
	Title         string         `yaml:"title"`
	Text          string         `yaml:"text"`
	Exercise      string         `yaml:"exercise"`
	Hint          string         `yaml:"hint"`
	SchemaSnippet string         `yaml:"schema_snippet"`
	Validation    ValidationSpec `yaml:"validation"`
}

// manifestFile mirrors the top level of manifest.yml.
type manifestFile struct {
	Modules []Module `yaml:"modules"`
}

// moduleFile mirrors the top level of a lesson module file.
type moduleFile struct {
	Lessons []Lesson `yaml:"lessons"`
}

// Repository holds the fully loaded course. All module files are read and
// their validation specs checked up front, so every lesson the repository
// serves is known to be well formed.
type Repository struct {
	modules []Module
	lessons map[string][]Lesson // module id -> ordered lessons
}

// Load reads the manifest and every module file it references.
// A malformed validation spec anywhere fails the load with INVALID_SPEC.
func Load(contentDir, manifestName string) (*Repository, error) {
	manifestPath := filepath.Join(contentDir, manifestName)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, errors.NewContentError(errors.CodeManifestNotFound,
			"manifest not found at "+manifestPath, err)
	}

	var manifest manifestFile
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, errors.NewContentError(errors.CodeManifestNotFound,
			"failed to parse manifest", err)
	}
	if len(manifest.Modules) == 0 {
		return nil, errors.NewContentError(errors.CodeManifestNotFound,
			"manifest lists no modules", nil)
	}

	repo := &Repository{
		modules: manifest.Modules,
		lessons: make(map[string][]Lesson, len(manifest.Modules)),
	}

	for _, mod := range manifest.Modules {
		if mod.ID == "" || mod.File == "" || mod.Dataset == "" {
			return nil, errors.NewContentError(errors.CodeModuleNotFound,
				fmt.Sprintf("manifest entry %q is missing id, file, or dataset", mod.ID), nil)
		}

		lessons, err := loadModuleFile(filepath.Join(contentDir, mod.File))
		if err != nil {
			return nil, err
		}
		for _, lesson := range lessons {
			if err := lesson.Validation.Validate(); err != nil {
				return nil, errors.NewContentError(errors.CodeInvalidSpec,
					fmt.Sprintf("module %s lesson %d: invalid validation spec", mod.ID, lesson.ID), err)
			}
		}
		repo.lessons[mod.ID] = lessons
	}

	return repo, nil
}

func loadModuleFile(path string) ([]Lesson, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewContentError(errors.CodeModuleNotFound,
			"lesson file not found at "+path, err)
	}

	var mf moduleFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, errors.NewContentError(errors.CodeModuleNotFound,
			"failed to parse lesson file "+path, err)
	}
	if len(mf.Lessons) == 0 {
		return nil, errors.NewContentError(errors.CodeLessonNotFound,
			"lesson file "+path+" contains no lessons", nil)
	}

	return mf.Lessons, nil
}

// Modules returns the manifest entries in display order.
func (r *Repository) Modules() []Module {
	return r.modules
}

// Module returns the manifest entry with the given id.
func (r *Repository) Module(id string) (*Module, error) {
	for i := range r.modules {
		if r.modules[i].ID == id {
			return &r.modules[i], nil
		}
	}
	return nil, errors.NewContentError(errors.CodeModuleNotFound,
		"no module with id "+id, nil)
}

// Lessons returns the ordered lessons of a module.
func (r *Repository) Lessons(moduleID string) ([]Lesson, error) {
	lessons, ok := r.lessons[moduleID]
	if !ok {
		return nil, errors.NewContentError(errors.CodeModuleNotFound,
			"no module with id "+moduleID, nil)
	}
	return lessons, nil
}

// Lesson returns a single lesson by module id and lesson id.
func (r *Repository) Lesson(moduleID string, lessonID int) (*Lesson, error) {
	lessons, err := r.Lessons(moduleID)
	if err != nil {
		return nil, err
	}
	for i := range lessons {
		if lessons[i].ID == lessonID {
			return &lessons[i], nil
		}
	}
	return nil, errors.NewContentError(errors.CodeLessonNotFound,
		fmt.Sprintf("lesson %d not found in module %s", lessonID, moduleID), nil)
}

// First returns the course's first module and lesson ids.
func (r *Repository) First() (string, int, bool) {
	if len(r.modules) == 0 {
		return "", 0, false
	}
	first := r.modules[0]
	lessons := r.lessons[first.ID]
	if len(lessons) == 0 {
		return "", 0, false
	}
	return first.ID, lessons[0].ID, true
}

// Next returns the lesson after the given one, crossing into the next
// module when the current one is exhausted. ok is false at end of course.
func (r *Repository) Next(moduleID string, lessonID int) (string, int, bool) {
	lessons, ok := r.lessons[moduleID]
	if !ok {
		return "", 0, false
	}

	// Next lesson within the current module
	for _, lesson := range lessons {
		if lesson.ID > lessonID {
			return moduleID, lesson.ID, true
		}
	}

	// First lesson of the next module
	for i := range r.modules {
		if r.modules[i].ID != moduleID {
			continue
		}
		if i+1 >= len(r.modules) {
			return "", 0, false
		}
		next := r.modules[i+1]
		nextLessons := r.lessons[next.ID]
		if len(nextLessons) == 0 {
			return "", 0, false
		}
		return next.ID, nextLessons[0].ID, true
	}

	return "", 0, false
}
