package pagination

import "testing"

func TestNormalizeAppliesDefaultsAndCaps(t *testing.T) {
	p := Params{}.Normalize()
	if p.Page != 1 || p.PerPage != DefaultPerPage {
		t.Fatalf("expected defaults, got page=%d per_page=%d", p.Page, p.PerPage)
	}

	p = Params{Page: 3, PerPage: 5000}.Normalize()
	if p.PerPage != MaxPerPage {
		t.Fatalf("expected per_page capped at %d, got %d", MaxPerPage, p.PerPage)
	}
}

func TestOffsetUsesNormalizedPage(t *testing.T) {
	if got := (Params{Page: 3, PerPage: 10}).Offset(); got != 20 {
		t.Fatalf("expected offset 20, got %d", got)
	}
	if got := (Params{Page: -1, PerPage: 10}).Offset(); got != 0 {
		t.Fatalf("expected offset 0 for invalid page, got %d", got)
	}
}

func TestNewMetaComputesPageWindow(t *testing.T) {
	meta := NewMeta(Params{Page: 2, PerPage: 10}, 35)

	if meta.LastPage != 4 {
		t.Fatalf("expected last_page 4, got %d", meta.LastPage)
	}
	if meta.NextPage == nil || *meta.NextPage != 3 {
		t.Fatalf("expected next_page 3, got %v", meta.NextPage)
	}
	if meta.PrevPage == nil || *meta.PrevPage != 1 {
		t.Fatalf("expected prev_page 1, got %v", meta.PrevPage)
	}
	if meta.Total != 35 {
		t.Fatalf("expected total 35, got %d", meta.Total)
	}
}

func TestNewMetaBoundaryPages(t *testing.T) {
	first := NewMeta(Params{Page: 1, PerPage: 10}, 10)
	if first.PrevPage != nil || first.NextPage != nil {
		t.Fatalf("single page should have no neighbors: %+v", first)
	}

	empty := NewMeta(Params{Page: 1, PerPage: 10}, 0)
	if empty.LastPage != 1 {
		t.Fatalf("empty result should still report last_page 1, got %d", empty.LastPage)
	}
}
