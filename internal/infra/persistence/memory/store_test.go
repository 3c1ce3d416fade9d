package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"eventcore/pkg/domain"
)

func baseTime() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func newTestStore() *Store {
	s := NewStore(nil)
	s.SetNowFunc(baseTime)
	return s
}

func mustRun(t *testing.T, s *Store, fn func(tx Transaction) error) {
	t.Helper()
	if _, err := s.RunInTransaction(context.Background(), fn); err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}

func TestCreateRequiresID(t *testing.T) {
	s := newTestStore()
	_, err := s.RunInTransaction(context.Background(), func(tx Transaction) error {
		_, err := tx.CreateUser(User{FirstName: "Asha"})
		return err
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateIsIdempotentOnID(t *testing.T) {
	s := newTestStore()
	id := domain.NewID()
	mustRun(t, s, func(tx Transaction) error {
		_, err := tx.CreateUser(User{Base: domain.Base{ID: id}, FirstName: "Asha"})
		return err
	})
	first, ok := s.GetUser(id)
	if !ok {
		t.Fatal("user not committed")
	}

	// Re-running the same create, as the server pass does after the client
	// pass, must keep the original CreatedAt and leave a single row.
	s.SetNowFunc(func() time.Time { return baseTime().Add(time.Hour) })
	mustRun(t, s, func(tx Transaction) error {
		_, err := tx.CreateUser(User{Base: domain.Base{ID: id}, FirstName: "Asha"})
		return err
	})
	second, _ := s.GetUser(id)
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("CreatedAt changed on re-create: %v vs %v", second.CreatedAt, first.CreatedAt)
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Fatal("UpdatedAt not advanced on re-create")
	}
	if got := len(s.ListUsers()); got != 1 {
		t.Fatalf("user count: got %d want 1", got)
	}
}

func TestUpdatePreservesIdentityFields(t *testing.T) {
	s := newTestStore()
	id := domain.NewID()
	mustRun(t, s, func(tx Transaction) error {
		_, err := tx.CreateCenter(Center{Base: domain.Base{ID: id}, Name: "North"})
		return err
	})
	created, _ := s.GetCenter(id)

	s.SetNowFunc(func() time.Time { return baseTime().Add(time.Minute) })
	mustRun(t, s, func(tx Transaction) error {
		_, err := tx.UpdateCenter(id, func(c *Center) error {
			c.Name = "North Valley"
			c.ID = "tampered"
			c.CreatedAt = time.Time{}
			return nil
		})
		return err
	})
	updated, ok := s.GetCenter(id)
	if !ok {
		t.Fatal("center lost after update")
	}
	if updated.Name != "North Valley" {
		t.Fatalf("name not updated: %s", updated.Name)
	}
	if updated.ID != id || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatal("update must not change ID or CreatedAt")
	}
}

func TestUpdateAndDeleteMissingRows(t *testing.T) {
	s := newTestStore()
	_, err := s.RunInTransaction(context.Background(), func(tx Transaction) error {
		_, err := tx.UpdateCenter("absent", func(c *Center) error { return nil })
		return err
	})
	if !domain.IsNotFound(err) {
		t.Fatalf("update missing: expected not-found, got %v", err)
	}
	_, err = s.RunInTransaction(context.Background(), func(tx Transaction) error {
		return tx.DeleteCenter("absent")
	})
	if !domain.IsNotFound(err) {
		t.Fatalf("delete missing: expected not-found, got %v", err)
	}
}

func TestFailedTransactionLeavesStateUntouched(t *testing.T) {
	s := newTestStore()
	id := domain.NewID()
	_, err := s.RunInTransaction(context.Background(), func(tx Transaction) error {
		if _, err := tx.CreateCenter(Center{Base: domain.Base{ID: id}, Name: "North"}); err != nil {
			return err
		}
		return domain.ValidationError{Reason: "forced failure"}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := s.GetCenter(id); ok {
		t.Fatal("write leaked from aborted transaction")
	}
}

type blockEverything struct{}

func (blockEverything) Name() string { return "block_everything" }

func (blockEverything) Evaluate(_ context.Context, _ domain.RuleView, changes []Change) (Result, error) {
	var res Result
	for range changes {
		res.Violations = append(res.Violations, domain.Violation{
			Rule: "block_everything", Severity: domain.SeverityBlock, Message: "blocked",
		})
	}
	return res, nil
}

func TestBlockingRuleAbortsCommit(t *testing.T) {
	engine := domain.NewRulesEngine()
	engine.Register(blockEverything{})
	s := NewStore(engine)
	s.SetNowFunc(baseTime)

	id := domain.NewID()
	_, err := s.RunInTransaction(context.Background(), func(tx Transaction) error {
		_, err := tx.CreateCenter(Center{Base: domain.Base{ID: id}, Name: "North"})
		return err
	})
	var violation domain.RuleViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected RuleViolationError, got %v", err)
	}
	if !violation.Result.HasBlocking() {
		t.Fatal("violation result should carry the blocking entry")
	}
	if _, ok := s.GetCenter(id); ok {
		t.Fatal("blocked transaction committed")
	}
}

func TestListsAreOrderedByCreationThenID(t *testing.T) {
	s := newTestStore()
	times := []time.Time{
		baseTime().Add(2 * time.Hour),
		baseTime(),
		baseTime().Add(time.Hour),
	}
	ids := []string{"c", "b", "a"}
	for i := range ids {
		at := times[i]
		s.SetNowFunc(func() time.Time { return at })
		idx := i
		mustRun(t, s, func(tx Transaction) error {
			_, err := tx.CreateCenter(Center{Base: domain.Base{ID: ids[idx]}, Name: "center"})
			return err
		})
	}
	got := s.ListCenters()
	if len(got) != 3 {
		t.Fatalf("center count: %d", len(got))
	}
	if got[0].ID != "b" || got[1].ID != "a" || got[2].ID != "c" {
		t.Fatalf("unexpected order: %s %s %s", got[0].ID, got[1].ID, got[2].ID)
	}

	// Equal timestamps fall back to ID order.
	s2 := newTestStore()
	for _, id := range []string{"z", "m", "a"} {
		rowID := id
		mustRun(t, s2, func(tx Transaction) error {
			_, err := tx.CreateCenter(Center{Base: domain.Base{ID: rowID}, Name: "center"})
			return err
		})
	}
	tied := s2.ListCenters()
	if tied[0].ID != "a" || tied[1].ID != "m" || tied[2].ID != "z" {
		t.Fatalf("tie-break order wrong: %s %s %s", tied[0].ID, tied[1].ID, tied[2].ID)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src := newTestStore()
	centerID := domain.NewID()
	userID := domain.NewID()
	mustRun(t, src, func(tx Transaction) error {
		if _, err := tx.CreateUser(User{Base: domain.Base{ID: userID}, FirstName: "Asha"}); err != nil {
			return err
		}
		if _, err := tx.CreateCenter(Center{Base: domain.Base{ID: centerID}, Name: "North"}); err != nil {
			return err
		}
		_, err := tx.CreateCenterLiaison(CenterLiaison{Base: domain.Base{ID: domain.NewID()}, UserID: userID, CenterID: centerID})
		return err
	})

	dst := newTestStore()
	dst.ImportState(src.ExportState())
	if _, ok := dst.GetCenter(centerID); !ok {
		t.Fatal("center missing after import")
	}
	if _, ok := dst.GetUser(userID); !ok {
		t.Fatal("user missing after import")
	}
}

func TestImportDropsDanglingJoinRows(t *testing.T) {
	src := newTestStore()
	centerID := domain.NewID()
	userID := domain.NewID()
	mustRun(t, src, func(tx Transaction) error {
		if _, err := tx.CreateUser(User{Base: domain.Base{ID: userID}, FirstName: "Asha"}); err != nil {
			return err
		}
		if _, err := tx.CreateCenter(Center{Base: domain.Base{ID: centerID}, Name: "North"}); err != nil {
			return err
		}
		_, err := tx.CreateCenterLiaison(CenterLiaison{Base: domain.Base{ID: domain.NewID()}, UserID: userID, CenterID: "gone"})
		return err
	})
	snapshot := src.ExportState()

	dst := newTestStore()
	dst.ImportState(snapshot)
	var count int
	if err := dst.View(context.Background(), func(view TransactionView) error {
		count = len(view.ListCenterLiaisons())
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
	if count != 0 {
		t.Fatalf("dangling liaison row survived import: %d", count)
	}
}
