package todo

import "testing"

func TestPriority_IsValid(t *testing.T) {
	tests := []struct {
		priority Priority
		valid    bool
	}{
		{PriorityLow, true},
		{PriorityMedium, true},
		{PriorityHigh, true},
		{Priority("urgent"), false},
		{Priority(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.priority), func(t *testing.T) {
			if got := tt.priority.IsValid(); got != tt.valid {
				t.Errorf("Priority(%q).IsValid() = %v, want %v", tt.priority, got, tt.valid)
			}
		})
	}
}

func TestPriorityInfoFallsBackToMedium(t *testing.T) {
	info := Priority("bogus").Info()
	if info.Value != PriorityMedium {
		t.Fatalf("expected medium fallback, got %q", info.Value)
	}
	if got := PriorityHigh.Info(); got.Label != "High" || got.Color != "red" {
		t.Fatalf("unexpected high info: %+v", got)
	}
}

func TestFilterAndSortLabels(t *testing.T) {
	for _, filter := range ValidFilters() {
		if filter.Label() == string(filter) {
			t.Errorf("filter %q has no label", filter)
		}
	}
	for _, sort := range ValidSorts() {
		if sort.Label() == string(sort) {
			t.Errorf("sort %q has no label", sort)
		}
	}
}

func TestListQueryNormalize(t *testing.T) {
	got := ListQuery{}.Normalize()
	want := ListQuery{Filter: FilterAll, Sort: SortNewest, Page: 1, Limit: DefaultLimit}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	kept := ListQuery{Filter: FilterUrgent, Sort: SortTitle, Page: 3, Limit: 25}.Normalize()
	if kept.Filter != FilterUrgent || kept.Sort != SortTitle || kept.Page != 3 || kept.Limit != 25 {
		t.Fatalf("expected explicit values kept, got %+v", kept)
	}
}
