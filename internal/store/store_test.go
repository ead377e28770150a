package store

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	in := Analysis{
		ID:           "a-1",
		Company:      "Acme",
		Sector:       "fintech",
		Experts:      "fintech,aiml",
		Success:      true,
		TotalCostUSD: 0.0375,
		Results:      json.RawMessage(`[{"expert":"fintech","success":true}]`),
	}
	if err := s.Save(in); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Get("a-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Company != "Acme" || got.Sector != "fintech" || !got.Success {
		t.Errorf("got %+v", got)
	}
	if got.TotalCostUSD != 0.0375 {
		t.Errorf("cost = %f", got.TotalCostUSD)
	}
	if got.CreatedAt == "" {
		t.Error("created_at not defaulted")
	}
	var results []map[string]any
	if err := json.Unmarshal(got.Results, &results); err != nil || len(results) != 1 {
		t.Errorf("results blob did not round-trip: %v %v", err, results)
	}
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSaveDuplicateID(t *testing.T) {
	s := openTestStore(t)
	a := Analysis{ID: "dup", Company: "Acme", Results: json.RawMessage(`[]`)}
	if err := s.Save(a); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(a); err == nil {
		t.Fatal("expected primary key violation")
	}
}

func TestListByCompany(t *testing.T) {
	s := openTestStore(t)
	for _, a := range []Analysis{
		{ID: "a-1", Company: "Acme", Results: json.RawMessage(`[]`), CreatedAt: "2026-08-01T00:00:00Z"},
		{ID: "a-2", Company: "Acme", Results: json.RawMessage(`[]`), CreatedAt: "2026-08-02T00:00:00Z"},
		{ID: "b-1", Company: "Blight", Results: json.RawMessage(`[]`), CreatedAt: "2026-08-03T00:00:00Z"},
	} {
		if err := s.Save(a); err != nil {
			t.Fatalf("save %s: %v", a.ID, err)
		}
	}

	got, err := s.ListByCompany("Acme", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// Newest first.
	if got[0].ID != "a-2" || got[1].ID != "a-1" {
		t.Errorf("order = %s, %s", got[0].ID, got[1].ID)
	}

	got, err = s.ListByCompany("Acme", 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a-2" {
		t.Errorf("limited list = %+v", got)
	}

	got, err = s.ListByCompany("Nobody", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("unknown company returned %d rows", len(got))
	}
}
