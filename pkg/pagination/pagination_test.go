package pagination

import "testing"

func TestNormalize(t *testing.T) {
	p := Normalize(Params{})
	if p.Page != 1 || p.Limit != DefaultLimit {
		t.Fatalf("unexpected defaults: %+v", p)
	}

	p = Normalize(Params{Page: 3, Limit: 500})
	if p.Page != 3 || p.Limit != MaxLimit {
		t.Fatalf("expected clamped limit, got %+v", p)
	}
}

func TestOffset(t *testing.T) {
	if got := (Params{Page: 1, Limit: 24}).Offset(); got != 0 {
		t.Fatalf("expected offset 0, got %d", got)
	}
	if got := (Params{Page: 3, Limit: 10}).Offset(); got != 20 {
		t.Fatalf("expected offset 20, got %d", got)
	}
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(Params{Page: 2, Limit: 10}, 35)
	if meta.TotalPages != 4 {
		t.Fatalf("expected 4 pages, got %d", meta.TotalPages)
	}
	if meta.TotalItems != 35 {
		t.Fatalf("expected 35 items, got %d", meta.TotalItems)
	}

	meta = NewMeta(Params{}, 0)
	if meta.TotalPages != 1 {
		t.Fatalf("empty result should report 1 page, got %d", meta.TotalPages)
	}
}
