package memory_test

import (
	"errors"
	"testing"

	"github.com/dualtech/ordenes-api/internal/domain"
	"github.com/dualtech/ordenes-api/internal/storage/memory"
)

func TestOrderRepository_CreateGet(t *testing.T) {
	repo := memory.NewOrderRepository()

	created, err := repo.Create(domain.Order{ClientID: 1})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected server-assigned id")
	}
	if created.Tax != 0 || created.Subtotal != 0 || created.Total != 0 {
		t.Fatalf("expected zero totals, got %+v", created)
	}

	stored, err := repo.Get(created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.ClientID != 1 {
		t.Fatalf("unexpected client: %s", stored.ClientID)
	}
}

func TestOrderRepository_LinesLifecycle(t *testing.T) {
	repo := memory.NewOrderRepository()

	order, err := repo.Create(domain.Order{ClientID: 1})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	first, err := repo.CreateLine(domain.OrderLine{
		OrderID: order.ID, ProductID: 1, Quantity: 2, Tax: 30, Subtotal: 200, Total: 230,
	})
	if err != nil {
		t.Fatalf("create line failed: %v", err)
	}
	second, err := repo.CreateLine(domain.OrderLine{
		OrderID: order.ID, ProductID: 2, Quantity: 1, Tax: 15, Subtotal: 100, Total: 115,
	})
	if err != nil {
		t.Fatalf("create line failed: %v", err)
	}
	if second.ID <= first.ID {
		t.Fatal("expected increasing line ids")
	}

	stored, err := repo.GetWithLines(order.ID)
	if err != nil {
		t.Fatalf("get with lines failed: %v", err)
	}
	if len(stored.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(stored.Lines))
	}
	if stored.Lines[0].ID != first.ID || stored.Lines[1].ID != second.ID {
		t.Fatal("expected lines in creation order")
	}
}

func TestOrderRepository_CreateLineForMissingOrder(t *testing.T) {
	repo := memory.NewOrderRepository()

	_, err := repo.CreateLine(domain.OrderLine{OrderID: 99, ProductID: 1, Quantity: 1})
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected order not found, got %v", err)
	}
}

func TestOrderRepository_UpdateTotals(t *testing.T) {
	repo := memory.NewOrderRepository()

	order, err := repo.Create(domain.Order{ClientID: 1})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := repo.UpdateTotals(order.ID, 30, 200, 230)
	if err != nil {
		t.Fatalf("update totals failed: %v", err)
	}
	if updated.Tax != 30 || updated.Subtotal != 200 || updated.Total != 230 {
		t.Fatalf("unexpected totals: %+v", updated)
	}
}

func TestOrderRepository_DeleteRemovesLines(t *testing.T) {
	repo := memory.NewOrderRepository()

	order, err := repo.Create(domain.Order{ClientID: 1})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := repo.CreateLine(domain.OrderLine{OrderID: order.ID, ProductID: 1, Quantity: 1}); err != nil {
		t.Fatalf("create line failed: %v", err)
	}

	if err := repo.Delete(order.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := repo.Get(order.ID); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := repo.Delete(order.ID); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
