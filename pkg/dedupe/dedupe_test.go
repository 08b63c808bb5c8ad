package dedupe

import (
	"reflect"
	"testing"

	"tableflip.dev/buttercsv/pkg/table"
)

func defaultFilter() Filter {
	return Filter{DummyKeywords: DefaultDummyKeywords()}
}

func TestBuild(t *testing.T) {
	rows := []table.Row{
		{Location: "L1", Source: "S1", Target: "Hello"},
		{Location: "L2", Source: "S2", Target: " Hello "},
		{Location: "L3", Source: "S3", Target: "Goodbye"},
		{Location: "L4", Source: "S4", Target: "Hello"},
	}
	idx := Build(rows, defaultFilter())

	if got := idx.Entries.Keys(); !reflect.DeepEqual(got, []string{"Hello", "Goodbye"}) {
		t.Fatalf("unexpected keys %v", got)
	}
	if got := idx.Reverse["Hello"]; !reflect.DeepEqual(got, []int{0, 1, 3}) {
		t.Fatalf("unexpected reverse index %v", got)
	}
	if v, _ := idx.Entries.Get("Hello"); v != "Hello" {
		t.Fatalf("initial value should equal key, got %q", v)
	}
	if idx.Count("Hello") != 3 || idx.Number("Hello") != 1 {
		t.Fatalf("unexpected count/number %d/%d", idx.Count("Hello"), idx.Number("Hello"))
	}
	if idx.Number("Goodbye") != 3 {
		t.Fatalf("expected Goodbye to be entry 3, got %d", idx.Number("Goodbye"))
	}
	if idx.Number("missing") != 0 {
		t.Fatalf("expected 0 for unknown key")
	}
}

func TestBuildSkipsUntranslatable(t *testing.T) {
	rows := []table.Row{
		{Target: ""},
		{Target: "   "},
		{Target: "dummy"},
		{Target: " ダミー "},
		{Target: "ダミー。"},
		{Target: "※開発用"},
		{Target: "…"},
		{Target: "！？"},
		{Target: "ｱ"},
		{Target: "漢字"},
		{Target: "x1"},
	}
	idx := Build(rows, defaultFilter())
	want := []string{"ｱ", "漢字", "x1"}
	if got := idx.Entries.Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestReverseIndexStrictlyIncreasing(t *testing.T) {
	rows := make([]table.Row, 0, 30)
	for i := 0; i < 30; i++ {
		target := "A"
		if i%3 == 0 {
			target = "B"
		}
		rows = append(rows, table.Row{Target: target})
	}
	idx := Build(rows, defaultFilter())
	for _, key := range idx.Entries.Keys() {
		list := idx.Reverse[key]
		if len(list) == 0 {
			t.Fatalf("empty reverse list for %q", key)
		}
		for i := 1; i < len(list); i++ {
			if list[i] <= list[i-1] {
				t.Fatalf("reverse list for %q not increasing: %v", key, list)
			}
		}
	}
}

func TestCustomDummyKeywords(t *testing.T) {
	idx := Build([]table.Row{{Target: "TODO"}, {Target: "dummy"}}, Filter{DummyKeywords: []string{"TODO"}})
	if got := idx.Entries.Keys(); !reflect.DeepEqual(got, []string{"dummy"}) {
		t.Fatalf("unexpected keys %v", got)
	}
}

func TestEntries(t *testing.T) {
	e := NewEntries()
	e.Set("b", "b")
	e.Set("a", "a")
	e.Set("b", "bee")
	if got := e.Keys(); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Fatalf("unexpected order %v", got)
	}
	if !e.Edited("b") || e.Edited("a") || e.Edited("zzz") {
		t.Fatalf("unexpected edited state")
	}
	var seen []string
	e.Each(func(k, v string) bool {
		seen = append(seen, k+"="+v)
		return true
	})
	if !reflect.DeepEqual(seen, []string{"b=bee", "a=a"}) {
		t.Fatalf("unexpected iteration %v", seen)
	}
}
