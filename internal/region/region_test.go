package region

import (
	"errors"
	"reflect"
	"testing"
)

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry()
	r.Add(&Dataset{Name: "warsaw"})
	r.Add(&Dataset{Name: "krakow"})

	ds, err := r.Resolve("krakow")
	if err != nil {
		t.Fatalf("Resolve(krakow): %v", err)
	}
	if ds.Name != "krakow" {
		t.Errorf("resolved %q, want krakow", ds.Name)
	}

	if _, err := r.Resolve("berlin"); !errors.Is(err, ErrUnknownRegion) {
		t.Errorf("Resolve(berlin) err = %v, want ErrUnknownRegion", err)
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	r := NewRegistry()
	r.Add(&Dataset{Name: "warsaw"})
	r.Add(&Dataset{Name: "krakow"})
	if got, want := r.Names(), []string{"krakow", "warsaw"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestRegistryAddReplaces(t *testing.T) {
	r := NewRegistry()
	first := &Dataset{Name: "krakow"}
	second := &Dataset{Name: "krakow"}
	r.Add(first)
	r.Add(second)
	if len(r.Names()) != 1 {
		t.Fatalf("expected one region, got %v", r.Names())
	}
	ds, _ := r.Resolve("krakow")
	if ds != second {
		t.Error("Add did not replace the earlier dataset")
	}
}
