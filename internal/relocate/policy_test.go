package relocate

import (
	"reflect"
	"testing"

	"github.com/mj1618/tabshuttle/internal/model"
)

func stores(buckets []Bucket) []string {
	out := make([]string, len(buckets))
	for i, b := range buckets {
		out[i] = b.CookieStore
	}
	return out
}

func TestPartition_DefaultDemotedWhenMixed(t *testing.T) {
	tabs := []model.Tab{
		{ID: 1, CookieStore: model.DefaultCookieStore},
		{ID: 2, CookieStore: "A"},
		{ID: 3},
		{ID: 4, CookieStore: "B"},
		{ID: 5, CookieStore: "A"},
	}
	got := Partition(tabs)
	if want := []string{"A", "B", model.DefaultCookieStore}; !reflect.DeepEqual(stores(got), want) {
		t.Fatalf("order: got %v, want %v", stores(got), want)
	}
	if ids := model.TabIDs(got[0].Tabs); !reflect.DeepEqual(ids, []model.TabID{2, 5}) {
		t.Errorf("A bucket: got %v", ids)
	}
	if ids := model.TabIDs(got[2].Tabs); !reflect.DeepEqual(ids, []model.TabID{1, 3}) {
		t.Errorf("default bucket: got %v", ids)
	}
}

func TestPartition_SingleBucket(t *testing.T) {
	got := Partition([]model.Tab{{ID: 1}, {ID: 2}})
	if len(got) != 1 || got[0].CookieStore != model.DefaultCookieStore || len(got[0].Tabs) != 2 {
		t.Errorf("got %+v", got)
	}
}

func TestPartition_NoDefault(t *testing.T) {
	got := Partition([]model.Tab{{ID: 1, CookieStore: "B"}, {ID: 2, CookieStore: "A"}})
	if want := []string{"B", "A"}; !reflect.DeepEqual(stores(got), want) {
		t.Errorf("got %v, want %v", stores(got), want)
	}
}

func TestPartition_Empty(t *testing.T) {
	if got := Partition(nil); len(got) != 0 {
		t.Errorf("got %v", got)
	}
}

func TestPolicy_For(t *testing.T) {
	p := NewPolicy([]string{"firefox-container-2"})
	tests := []struct {
		store string
		want  Strategy
	}{
		{"firefox-container-2", NewWindow},
		{"firefox-container-3", MoveInPlace},
		{model.DefaultCookieStore, MoveInPlace},
		{"", MoveInPlace},
	}
	for _, tt := range tests {
		if got := p.For(tt.store); got != tt.want {
			t.Errorf("For(%q) = %s, want %s", tt.store, got, tt.want)
		}
	}
}

func TestKindFor(t *testing.T) {
	normal := model.Window{ID: 1}
	private := model.Window{ID: 2, Incognito: true}
	if KindFor(normal, model.Window{ID: 3}) != KindMove {
		t.Error("normal to normal should move")
	}
	if KindFor(normal, private) != KindReopen || KindFor(private, normal) != KindReopen {
		t.Error("crossing private browsing should reopen")
	}
}
