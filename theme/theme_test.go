package theme

import (
	"testing"

	"github.com/lvillar/invoicekit/canvas"
)

func TestLookupFallsBackToDefault(t *testing.T) {
	for _, key := range []string{"", "neon", "does-not-exist"} {
		th, ok := Lookup(key)
		if ok {
			t.Fatalf("Lookup(%q) reported a known theme", key)
		}
		if th.Key != DefaultKey {
			t.Fatalf("Lookup(%q) = %q, want %q", key, th.Key, DefaultKey)
		}
	}
}

func TestLookupKnown(t *testing.T) {
	th, ok := Lookup(" Professional ")
	if !ok || th.Key != "professional" {
		t.Fatalf("got %q, %v", th.Key, ok)
	}
	if th.Style != canvas.StyleBoxed {
		t.Fatal("professional should use the boxed metadata style")
	}
}

func TestAllSortedAndComplete(t *testing.T) {
	all := All()
	if len(all) != len(builtin) {
		t.Fatalf("All() returned %d themes, want %d", len(all), len(builtin))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Key >= all[i].Key {
			t.Fatalf("themes not sorted: %q before %q", all[i-1].Key, all[i].Key)
		}
	}
	for _, th := range all {
		if th.Primary == th.Background {
			t.Errorf("%s: primary and background must differ", th.Key)
		}
	}
}

func TestThemesAreValues(t *testing.T) {
	th := Get("modern")
	th.Primary = canvas.Black
	if Get("modern").Primary == canvas.Black {
		t.Fatal("modifying a returned theme must not affect the registry")
	}
}
