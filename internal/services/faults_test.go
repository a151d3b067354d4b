package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/localnerve/jam-build-formsdb/internal/models"
	"github.com/localnerve/jam-build-formsdb/internal/ordering"
	"github.com/localnerve/jam-build-formsdb/internal/store"
	"github.com/localnerve/jam-build-formsdb/internal/types"
)

// faults is shared by a faultyStore and the stores it hands to transactions.
type faults struct {
	orderWrites int
	// failWrite returns the error for the nth order write, or nil to let it through.
	failWrite func(n int) error

	slugReads  int
	staleSlugs int

	fieldReads  int
	staleFields int
}

// faultyStore wraps a real store and injects write failures and stale reads.
type faultyStore struct {
	store.Store
	f *faults
}

func (s *faultyStore) UpdateFieldOrder(ctx context.Context, fieldID string, from, to int) error {
	s.f.orderWrites++
	if s.f.failWrite != nil {
		if err := s.f.failWrite(s.f.orderWrites); err != nil {
			return err
		}
	}
	return s.Store.UpdateFieldOrder(ctx, fieldID, from, to)
}

func (s *faultyStore) OwnerSlugs(ctx context.Context, ownerID, base string) ([]string, error) {
	s.f.slugReads++
	if s.f.slugReads <= s.f.staleSlugs {
		return nil, nil
	}
	return s.Store.OwnerSlugs(ctx, ownerID, base)
}

func (s *faultyStore) LoadFields(ctx context.Context, formID string) ([]models.FormField, error) {
	s.f.fieldReads++
	if s.f.fieldReads <= s.f.staleFields {
		return nil, nil
	}
	return s.Store.LoadFields(ctx, formID)
}

func (s *faultyStore) Transaction(ctx context.Context, fn func(store.Store) error) error {
	return s.Store.Transaction(ctx, func(tx store.Store) error {
		return fn(&faultyStore{Store: tx, f: s.f})
	})
}

// setupFaultyMove builds fields X (order 1) and Y (order 2) and returns a
// service whose store fails order writes through failWrite.
func setupFaultyMove(t *testing.T, failWrite func(n int) error) (*FormService, *store.GormStore, *faults, string, string) {
	t.Helper()
	svc, st := setupTestService(t)
	form := mustForm(t, svc, "Contact")
	mustField(t, svc, form.ID, FieldInput{Label: "X", Type: "TEXT"})
	y := mustField(t, svc, form.ID, FieldInput{Label: "Y", Type: "TEXT"})

	f := &faults{failWrite: failWrite}
	return NewFormService(&faultyStore{Store: st, f: f}), st, f, form.ID, y.ID
}

func storedOrders(t *testing.T, st *store.GormStore, formID string) map[string]int {
	t.Helper()
	fields, err := st.LoadFields(context.Background(), formID)
	if err != nil {
		t.Fatal(err)
	}
	return orders(fields)
}

func TestMoveFieldTornWriteRollsBack(t *testing.T) {
	diskErr := errors.New("disk I/O error")
	svc, st, f, formID, yID := setupFaultyMove(t, func(n int) error {
		if n == 2 {
			return diskErr
		}
		return nil
	})

	_, swapped, err := svc.MoveField(context.Background(), owner, formID, yID, ordering.Up)
	if !errors.Is(err, diskErr) {
		t.Fatalf("Expected the write error, got %v", err)
	}
	if swapped {
		t.Error("Expected no swap to be reported")
	}
	if f.orderWrites != 2 {
		t.Errorf("Expected 2 order writes without a retry, got %d", f.orderWrites)
	}
	if diff := cmp.Diff(map[string]int{"X": 1, "Y": 2}, storedOrders(t, st, formID)); diff != "" {
		t.Errorf("first write must be rolled back (-want +got):\n%s", diff)
	}
}

func TestMoveFieldConflictRetriedOnce(t *testing.T) {
	svc, st, f, formID, yID := setupFaultyMove(t, func(n int) error {
		if n%2 == 0 {
			return types.NewOrderingConflict("order changed")
		}
		return nil
	})

	_, _, err := svc.MoveField(context.Background(), owner, formID, yID, ordering.Up)
	if !types.IsKind(err, types.KindOrderingConflict) {
		t.Fatalf("Expected ordering conflict, got %v", err)
	}
	if f.orderWrites != 4 {
		t.Errorf("Expected 4 order writes over two attempts, got %d", f.orderWrites)
	}
	if diff := cmp.Diff(map[string]int{"X": 1, "Y": 2}, storedOrders(t, st, formID)); diff != "" {
		t.Errorf("orders must be unchanged (-want +got):\n%s", diff)
	}
}

func TestMoveFieldRecoversFromOneConflict(t *testing.T) {
	svc, st, f, formID, yID := setupFaultyMove(t, func(n int) error {
		if n == 2 {
			return types.NewOrderingConflict("order changed")
		}
		return nil
	})

	_, swapped, err := svc.MoveField(context.Background(), owner, formID, yID, ordering.Up)
	if err != nil {
		t.Fatalf("Expected the retry to succeed, got %v", err)
	}
	if !swapped || f.orderWrites != 4 {
		t.Errorf("Expected a swap after 4 writes, got swapped=%v writes=%d", swapped, f.orderWrites)
	}
	if diff := cmp.Diff(map[string]int{"X": 2, "Y": 1}, storedOrders(t, st, formID)); diff != "" {
		t.Errorf("orders mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateFormRecomputesStaleSlug(t *testing.T) {
	base, st := setupTestService(t)
	mustForm(t, base, "My Survey")

	f := &faults{staleSlugs: 1}
	svc := NewFormService(&faultyStore{Store: st, f: f})

	form, err := svc.CreateForm(context.Background(), owner, FormInput{Title: "My Survey!!"})
	if err != nil {
		t.Fatalf("Expected the collision to be retried, got %v", err)
	}
	if form.Slug != "my-survey-2" {
		t.Errorf("Expected slug my-survey-2, got %s", form.Slug)
	}
	if f.slugReads != 2 {
		t.Errorf("Expected 2 slug reads, got %d", f.slugReads)
	}
}

func TestAddFieldRechecksStaleLabels(t *testing.T) {
	base, st := setupTestService(t)
	form := mustForm(t, base, "Contact")
	mustField(t, base, form.ID, FieldInput{Label: "Email", Type: "EMAIL"})

	f := &faults{staleFields: 1}
	svc := NewFormService(&faultyStore{Store: st, f: f})

	_, err := svc.AddField(context.Background(), owner, form.ID, FieldInput{Label: "Email", Type: "TEXT"})
	if !types.IsKind(err, types.KindSchemaViolation) {
		t.Fatalf("Expected the retry to report the taken label, got %v", err)
	}
	if f.fieldReads != 2 {
		t.Errorf("Expected 2 field reads, got %d", f.fieldReads)
	}

	fields, _ := st.LoadFields(context.Background(), form.ID)
	if diff := cmp.Diff([]string{"Email"}, labels(fields)); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}
