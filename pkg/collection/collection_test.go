package collection

import (
	"reflect"
	"testing"

	"golang.org/x/text/language"
)

type row struct {
	ID       string
	Name     string
	Brand    string
	Category string
	Price    *float64
}

func price(v float64) *float64 { return &v }

func sampleRows() []row {
	return []row{
		{ID: "10", Name: "Yerba Mate", Brand: "Taragui", Category: "almacen", Price: price(1500)},
		{ID: "2", Name: "Azucar", Brand: "Ledesma", Category: "almacen", Price: price(900)},
		{ID: "1", Name: "Queso Cremoso", Brand: "La Serenisima", Category: "lacteos", Price: nil},
		{ID: "7", Name: "Leche Entera", Brand: "La Serenisima", Category: "lacteos", Price: price(1200)},
	}
}

func TestSearchEmptyTermReturnsInputUnchanged(t *testing.T) {
	t.Parallel()

	rows := sampleRows()
	got := Search(rows, "   ", func(r row) string { return r.Name })
	if !reflect.DeepEqual(got, rows) {
		t.Fatal("empty term must return the unfiltered collection in order")
	}
}

func TestSearchMatchesAnyFieldCaseInsensitive(t *testing.T) {
	t.Parallel()

	rows := sampleRows()
	got := Search(rows, "serenisima",
		func(r row) string { return r.Name },
		func(r row) string { return r.Brand },
	)
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].ID != "1" || got[1].ID != "7" {
		t.Fatalf("expected input order preserved, got %v", got)
	}
}

func TestFilterBySetEmptySelectionMeansNoFilter(t *testing.T) {
	t.Parallel()

	rows := sampleRows()
	got := FilterBySet(rows, func(r row) string { return r.Category }, nil)
	if !reflect.DeepEqual(got, rows) {
		t.Fatal("empty selection must not filter anything out")
	}

	got = FilterBySet(rows, func(r row) string { return r.Category }, []string{"lacteos"})
	if len(got) != 2 {
		t.Fatalf("expected 2 dairy rows, got %d", len(got))
	}
}

func TestSortByNumericStringIDs(t *testing.T) {
	t.Parallel()

	sorter := NewSorter(language.Spanish)
	rows := sampleRows()

	got := SortBy(sorter, rows, func(r row) SortValue { return StringValue(r.ID) }, Ascending)
	ids := make([]string, len(got))
	for i, r := range got {
		ids[i] = r.ID
	}
	want := []string{"1", "2", "7", "10"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("expected numeric ordering %v, got %v", want, ids)
	}
}

func TestSortByNullsLastRegardlessOfDirection(t *testing.T) {
	t.Parallel()

	sorter := NewSorter(language.Spanish)
	rows := sampleRows()
	key := func(r row) SortValue {
		if r.Price == nil {
			return MissingValue()
		}
		return NumberValue(*r.Price)
	}

	asc := SortBy(sorter, rows, key, Ascending)
	if asc[len(asc)-1].Price != nil {
		t.Fatal("nil price should sort last ascending")
	}
	if *asc[0].Price != 900 {
		t.Fatalf("unexpected first price %v", *asc[0].Price)
	}

	desc := SortBy(sorter, rows, key, Descending)
	if desc[len(desc)-1].Price != nil {
		t.Fatal("nil price should sort last descending too")
	}
	if *desc[0].Price != 1500 {
		t.Fatalf("unexpected first price %v", *desc[0].Price)
	}
}

func TestSortByIsStable(t *testing.T) {
	t.Parallel()

	sorter := NewSorter(language.Spanish)
	rows := []row{
		{ID: "3", Brand: "B"},
		{ID: "1", Brand: "A"},
		{ID: "2", Brand: "A"},
	}
	got := SortBy(sorter, rows, func(r row) SortValue { return StringValue(r.Brand) }, Ascending)
	if got[0].ID != "1" || got[1].ID != "2" {
		t.Fatalf("equal keys must keep input order, got %v", got)
	}
}

func TestWindowMath(t *testing.T) {
	t.Parallel()

	w := NewWindow(3, 10, 25)
	if w.From() != 21 || w.To() != 25 || w.LastPage() != 3 {
		t.Fatalf("unexpected window from=%d to=%d last=%d", w.From(), w.To(), w.LastPage())
	}

	empty := NewWindow(1, 10, 0)
	if empty.From() != 0 || empty.To() != 0 {
		t.Fatalf("empty collection must report from=0 to=0, got from=%d to=%d", empty.From(), empty.To())
	}
	if empty.LastPage() != 1 {
		t.Fatalf("empty collection keeps one page, got %d", empty.LastPage())
	}
}

func TestPaginateSlices(t *testing.T) {
	t.Parallel()

	items := []int{1, 2, 3, 4, 5, 6, 7}

	if got := Paginate(items, 2, 3); !reflect.DeepEqual(got, []int{4, 5, 6}) {
		t.Fatalf("unexpected page %v", got)
	}
	if got := Paginate(items, 3, 3); !reflect.DeepEqual(got, []int{7}) {
		t.Fatalf("unexpected tail page %v", got)
	}
	if got := Paginate(items, 9, 3); len(got) != 0 {
		t.Fatalf("page past the end should be empty, got %v", got)
	}
}
