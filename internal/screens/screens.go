// Package screens manages saved screens: named, validated queries kept in a
// YAML file, alongside a read-only set of prebuilt screens.
package screens

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stockscreen/screener/internal/atomicfile"
	"github.com/stockscreen/screener/internal/filter"
	"github.com/stockscreen/screener/internal/slugs"
)

const (
	// CategoryUser is assigned to every screen a user saves.
	CategoryUser = "user made"
	// CategoryPrebuilt marks the built-in screens.
	CategoryPrebuilt = "prebuilt"
)

var (
	// ErrScreenNotFound indicates no saved or prebuilt screen has the ID.
	ErrScreenNotFound = errors.New("screen not found")
	// ErrScreenExists indicates a screen with the same title already exists.
	ErrScreenExists = errors.New("a screen with this title already exists")
	// ErrReadOnly is returned when editing or removing a prebuilt screen.
	ErrReadOnly = errors.New("prebuilt screens cannot be modified")
	// ErrInvalidScreen wraps validation failures on add and update.
	ErrInvalidScreen = errors.New("invalid screen")
)

// Screen is a saved query.
type Screen struct {
	ID          string    `yaml:"id" json:"id"`
	Title       string    `yaml:"title" json:"title"`
	Category    string    `yaml:"category" json:"category"`
	Description string    `yaml:"description" json:"description"`
	Query       string    `yaml:"query" json:"query"`
	Publish     bool      `yaml:"publish" json:"publish"`
	Owner       string    `yaml:"owner,omitempty" json:"owner,omitempty"`
	CreatedAt   time.Time `yaml:"created_at" json:"created_at"`
	UpdatedAt   time.Time `yaml:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// Prebuilt reports whether the screen is one of the built-in screens.
func (s Screen) Prebuilt() bool {
	return s.Category == CategoryPrebuilt
}

// Conditions parses the screen query with the default vocabulary.
func (s Screen) Conditions() (filter.Conditions, error) {
	return filter.Parse(s.Query)
}

// Patch lists the fields Update may change. Nil fields are left alone.
type Patch struct {
	Title       *string
	Description *string
	Query       *string
	Publish     *bool
}

func (p Patch) empty() bool {
	return p.Title == nil && p.Description == nil && p.Query == nil && p.Publish == nil
}

type screensFile struct {
	Screens []Screen `yaml:"screens"`
}

// Store holds the user's screens loaded from one YAML file.
type Store struct {
	path    string
	vocab   *filter.Vocabulary
	screens []Screen
	now     func() time.Time
}

// Load reads the screens file at path. A missing file is an empty store.
func Load(path string) (*Store, error) {
	s := &Store{path: path, vocab: filter.DefaultVocabulary(), now: time.Now}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read screens file: %w", err)
	}

	var f screensFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse screens file %s: %w", path, err)
	}
	s.screens = f.Screens
	return s, nil
}

// Path returns the file the store saves to.
func (s *Store) Path() string {
	return s.path
}

// Save writes the user's screens back to the file atomically.
func (s *Store) Save() error {
	data, err := yaml.Marshal(screensFile{Screens: s.screens})
	if err != nil {
		return fmt.Errorf("failed to marshal screens: %w", err)
	}
	if err := atomicfile.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write screens file %s: %w", s.path, err)
	}
	return nil
}

// Add validates and stores a new screen. Title, description and query are
// required and the query must parse. The ID derives from the title and the
// category is always CategoryUser.
func (s *Store) Add(sc Screen) (Screen, error) {
	sc.Title = strings.TrimSpace(sc.Title)
	sc.Description = strings.TrimSpace(sc.Description)
	sc.Query = strings.TrimSpace(sc.Query)

	var missing []string
	if sc.Title == "" {
		missing = append(missing, "title")
	}
	if sc.Description == "" {
		missing = append(missing, "description")
	}
	if sc.Query == "" {
		missing = append(missing, "query")
	}
	if len(missing) > 0 {
		return Screen{}, fmt.Errorf("%w: missing required fields: %s", ErrInvalidScreen, strings.Join(missing, ", "))
	}
	if err := s.validateQuery(sc.Query); err != nil {
		return Screen{}, err
	}

	sc.ID = slugs.ScreenID(sc.Title)
	if _, _, ok := s.find(sc.ID); ok {
		return Screen{}, fmt.Errorf("%w: %q", ErrScreenExists, sc.Title)
	}

	now := s.now().UTC().Truncate(time.Second)
	sc.Category = CategoryUser
	sc.CreatedAt = now
	sc.UpdatedAt = time.Time{}
	s.screens = append(s.screens, sc)
	return sc, nil
}

// Get returns a user or prebuilt screen by ID or title.
func (s *Store) Get(idOrTitle string) (Screen, error) {
	sc, _, ok := s.find(slugs.Normalize(idOrTitle))
	if !ok {
		return Screen{}, fmt.Errorf("%w: %s", ErrScreenNotFound, idOrTitle)
	}
	return sc, nil
}

// List returns user screens newest first, followed by the prebuilt screens.
func (s *Store) List() []Screen {
	user := make([]Screen, len(s.screens))
	copy(user, s.screens)
	sortNewestFirst(user)
	return append(user, Prebuilt()...)
}

// Update applies a patch to a user screen, re-validating the result.
func (s *Store) Update(idOrTitle string, p Patch) (Screen, error) {
	if p.empty() {
		return Screen{}, fmt.Errorf("%w: no valid fields to update", ErrInvalidScreen)
	}

	sc, i, ok := s.find(slugs.Normalize(idOrTitle))
	if !ok {
		return Screen{}, fmt.Errorf("%w: %s", ErrScreenNotFound, idOrTitle)
	}
	if i < 0 {
		return Screen{}, fmt.Errorf("%w: %s", ErrReadOnly, sc.ID)
	}

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return Screen{}, fmt.Errorf("%w: title cannot be empty", ErrInvalidScreen)
		}
		newID := slugs.ScreenID(title)
		if newID != sc.ID {
			if _, _, taken := s.find(newID); taken {
				return Screen{}, fmt.Errorf("%w: %q", ErrScreenExists, title)
			}
		}
		sc.Title, sc.ID = title, newID
	}
	if p.Description != nil {
		desc := strings.TrimSpace(*p.Description)
		if desc == "" {
			return Screen{}, fmt.Errorf("%w: description cannot be empty", ErrInvalidScreen)
		}
		sc.Description = desc
	}
	if p.Query != nil {
		q := strings.TrimSpace(*p.Query)
		if err := s.validateQuery(q); err != nil {
			return Screen{}, err
		}
		sc.Query = q
	}
	if p.Publish != nil {
		sc.Publish = *p.Publish
	}

	sc.UpdatedAt = s.now().UTC().Truncate(time.Second)
	s.screens[i] = sc
	return sc, nil
}

// Delete removes a user screen.
func (s *Store) Delete(idOrTitle string) error {
	sc, i, ok := s.find(slugs.Normalize(idOrTitle))
	if !ok {
		return fmt.Errorf("%w: %s", ErrScreenNotFound, idOrTitle)
	}
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrReadOnly, sc.ID)
	}
	s.screens = append(s.screens[:i], s.screens[i+1:]...)
	return nil
}

// Search returns published screens whose title or description contains term,
// ignoring case. User screens come first, newest first.
func (s *Store) Search(term string) ([]Screen, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil, fmt.Errorf("%w: provide a search term", ErrInvalidScreen)
	}

	var out []Screen
	for _, sc := range s.List() {
		if !sc.Publish {
			continue
		}
		if strings.Contains(strings.ToLower(sc.Title), term) ||
			strings.Contains(strings.ToLower(sc.Description), term) {
			out = append(out, sc)
		}
	}
	return out, nil
}

// find looks up an ID among user screens, then prebuilt screens. The index is
// -1 for prebuilt screens.
func (s *Store) find(id string) (Screen, int, bool) {
	for i, sc := range s.screens {
		if sc.ID == id {
			return sc, i, true
		}
	}
	for _, sc := range Prebuilt() {
		if sc.ID == id {
			return sc, -1, true
		}
	}
	return Screen{}, 0, false
}

func (s *Store) validateQuery(q string) error {
	if _, err := s.vocab.Parse(q); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScreen, err)
	}
	return nil
}

func sortNewestFirst(list []Screen) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
