package screens

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stockscreen/screener/internal/filter"
	"github.com/stockscreen/screener/internal/slugs"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Load(filepath.Join(t.TempDir(), "screens.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	clock := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return s
}

func strPtr(s string) *string { return &s }

func TestAddAndGet(t *testing.T) {
	s := newTestStore(t)

	sc, err := s.Add(Screen{
		Title:       "  Cash Rich IT ",
		Description: "IT names with strong returns",
		Query:       "roe_per > 25 AND debt_to_equity < 0.1",
		Owner:       "analyst",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if sc.ID != "cash-rich-it" || sc.Title != "Cash Rich IT" {
		t.Errorf("unexpected identity %q %q", sc.ID, sc.Title)
	}
	if sc.Category != CategoryUser || sc.CreatedAt.IsZero() {
		t.Errorf("unexpected defaults %+v", sc)
	}

	for _, key := range []string{"cash-rich-it", "Cash Rich IT"} {
		got, err := s.Get(key)
		if err != nil {
			t.Fatalf("Get(%q): %v", key, err)
		}
		if got.Query != sc.Query {
			t.Errorf("Get(%q).Query = %q", key, got.Query)
		}
	}

	conds, err := sc.Conditions()
	if err != nil || len(conds) != 2 {
		t.Errorf("Conditions = %v, %v", conds, err)
	}
}

func TestAddValidation(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name   string
		screen Screen
		kind   error
	}{
		{"missing fields", Screen{Title: "x"}, ErrInvalidScreen},
		{"unparseable query", Screen{Title: "Bad", Description: "d", Query: "roe_per >> 5"}, filter.ErrInvalidOperator},
		{"unknown field", Screen{Title: "Bad", Description: "d", Query: "nope > 5"}, filter.ErrInvalidField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Add(tt.screen)
			if !errors.Is(err, tt.kind) {
				t.Fatalf("Add error = %v, want %v", err, tt.kind)
			}
			if !errors.Is(err, ErrInvalidScreen) {
				t.Errorf("expected ErrInvalidScreen in chain, got %v", err)
			}
		})
	}

	if _, err := s.Add(Screen{Title: "Dup", Description: "d", Query: "beta < 1"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := s.Add(Screen{Title: "DUP", Description: "d", Query: "beta < 1"}); !errors.Is(err, ErrScreenExists) {
		t.Errorf("expected ErrScreenExists, got %v", err)
	}
	if _, err := s.Add(Screen{Title: "Graham Value", Description: "d", Query: "beta < 1"}); !errors.Is(err, ErrScreenExists) {
		t.Errorf("expected ErrScreenExists for a prebuilt title, got %v", err)
	}
}

func TestListOrdersUserScreensNewestFirst(t *testing.T) {
	s := newTestStore(t)
	for _, title := range []string{"First", "Second", "Third"} {
		if _, err := s.Add(Screen{Title: title, Description: "d", Query: "beta < 1"}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	list := s.List()
	if len(list) != 3+len(Prebuilt()) {
		t.Fatalf("expected %d screens, got %d", 3+len(Prebuilt()), len(list))
	}
	if list[0].ID != "third" || list[1].ID != "second" || list[2].ID != "first" {
		t.Errorf("unexpected order: %s, %s, %s", list[0].ID, list[1].ID, list[2].ID)
	}
	if !list[3].Prebuilt() {
		t.Error("prebuilt screens should follow user screens")
	}
}

func TestUpdate(t *testing.T) {
	s := newTestStore(t)
	orig, err := s.Add(Screen{Title: "Value", Description: "d", Query: "stock_p_e < 15"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	publish := true
	got, err := s.Update("value", Patch{Title: strPtr("Deep Value"), Query: strPtr("stock_p_e < 10"), Publish: &publish})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.ID != "deep-value" || got.Query != "stock_p_e < 10" || !got.Publish {
		t.Errorf("unexpected update result %+v", got)
	}
	if !got.UpdatedAt.After(orig.CreatedAt) {
		t.Errorf("UpdatedAt %v should be after CreatedAt %v", got.UpdatedAt, orig.CreatedAt)
	}
	if _, err := s.Get("value"); !errors.Is(err, ErrScreenNotFound) {
		t.Errorf("old ID should be gone, got %v", err)
	}

	if _, err := s.Update("deep-value", Patch{}); !errors.Is(err, ErrInvalidScreen) {
		t.Errorf("empty patch: expected ErrInvalidScreen, got %v", err)
	}
	if _, err := s.Update("deep-value", Patch{Query: strPtr("stock_p_e <")}); !errors.Is(err, filter.ErrEmptyExpression) {
		t.Errorf("bad query: expected ErrEmptyExpression, got %v", err)
	}
	if _, err := s.Update("missing", Patch{Publish: &publish}); !errors.Is(err, ErrScreenNotFound) {
		t.Errorf("expected ErrScreenNotFound, got %v", err)
	}
	if _, err := s.Update("graham-value", Patch{Publish: &publish}); !errors.Is(err, ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Add(Screen{Title: "Temp", Description: "d", Query: "beta < 1"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Delete("temp"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete("temp"); !errors.Is(err, ErrScreenNotFound) {
		t.Errorf("expected ErrScreenNotFound, got %v", err)
	}
	if err := s.Delete("momentum-leaders"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
}

func TestSearch(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Add(Screen{Title: "Private Dividend Idea", Description: "d", Query: "beta < 1"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := s.Add(Screen{Title: "Public Dividend Idea", Description: "d", Query: "beta < 1", Publish: true}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := s.Search("DIVIDEND")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	var ids []string
	for _, sc := range got {
		ids = append(ids, sc.ID)
	}
	if len(ids) != 2 || ids[0] != "public-dividend-idea" || ids[1] != "high-dividend-yield" {
		t.Errorf("Search ids = %v", ids)
	}

	got, err = s.Search("leverage")
	if err != nil || len(got) != 1 || got[0].ID != "low-debt-compounders" {
		t.Errorf("description search = %v, %v", got, err)
	}

	if _, err := s.Search("  "); !errors.Is(err, ErrInvalidScreen) {
		t.Errorf("expected error for empty term, got %v", err)
	}
}

func TestSaveAndReload(t *testing.T) {
	s := newTestStore(t)
	added, err := s.Add(Screen{Title: "Persisted", Description: "d", Query: "market_cap / ent_value > 1", Publish: true})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := Load(s.Path())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, err := reloaded.Get("persisted")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Query != added.Query || !got.Publish || !got.CreatedAt.Equal(added.CreatedAt) {
		t.Errorf("reloaded %+v, want %+v", got, added)
	}
	if len(reloaded.List()) != 1+len(Prebuilt()) {
		t.Errorf("prebuilt screens should not be written to the file")
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screens.yaml")
	if err := os.WriteFile(path, []byte("screens: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestPrebuiltScreensAreValid(t *testing.T) {
	for _, sc := range Prebuilt() {
		if sc.ID != slugs.ScreenID(sc.Title) {
			t.Errorf("prebuilt %q has ID %q, want %q", sc.Title, sc.ID, slugs.ScreenID(sc.Title))
		}
		if _, err := sc.Conditions(); err != nil {
			t.Errorf("prebuilt %q does not parse: %v", sc.ID, err)
		}
		if !sc.Publish || !sc.Prebuilt() {
			t.Errorf("prebuilt %q should be published and read-only", sc.ID)
		}
	}
}
