package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"eventcore/pkg/domain"
)

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.CreateCenter(domain.Center{Base: domain.Base{ID: "c1"}, Name: "North"})
		return err
	}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	center, ok := reopened.GetCenter("c1")
	if !ok {
		t.Fatal("row not hydrated from the database")
	}
	if center.Name != "North" {
		t.Fatalf("hydrated row wrong: %+v", center)
	}
}

func TestFailedTransactionIsNotPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		if _, err := tx.CreateCenter(domain.Center{Base: domain.Base{ID: "c1"}, Name: "North"}); err != nil {
			return err
		}
		return domain.ValidationError{Reason: "forced failure"}
	}); err == nil {
		t.Fatal("expected failure")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	if _, ok := reopened.GetCenter("c1"); ok {
		t.Fatal("aborted write must not reach the database")
	}
}

func TestSubsequentWritesOverwriteBuckets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()

	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.CreateCenter(domain.Center{Base: domain.Base{ID: "c1"}, Name: "North"})
		return err
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.UpdateCenter("c1", func(c *domain.Center) error {
			c.Name = "North Annex"
			return nil
		})
		return err
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	var count int
	if err := store.DB().QueryRow(`SELECT COUNT(*) FROM state WHERE bucket = 'centers'`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("bucket rows: got %d want 1", count)
	}
	center, _ := store.GetCenter("c1")
	if center.Name != "North Annex" {
		t.Fatalf("update lost: %+v", center)
	}
}
