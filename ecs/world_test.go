package ecs

import (
	"errors"
	"testing"

	"github.com/milk9111/drivesim/ecs/component"
)

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if len(Entities(w)) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(Entities(w)))
			}
			if c.destroyIndex >= 0 {
				if !DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if IsAlive(w, ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return false the second time")
				}
				if len(Entities(w)) != c.create-1 {
					t.Fatalf("expected %d entities after destroy, got %d", c.create-1, len(Entities(w)))
				}
			}
		})
	}
}

func TestRecycledSlotGetsNewGeneration(t *testing.T) {
	w := NewWorld()
	old := CreateEntity(w)
	if err := Add(w, old, component.TransformComponent.Kind(), &component.Transform{X: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	DestroyEntity(w, old)

	fresh := CreateEntity(w)
	if fresh == old {
		t.Fatalf("recycled entity should differ from the destroyed handle")
	}
	if fresh.id() != old.id() {
		t.Fatalf("expected slot reuse")
	}
	if Has(w, fresh, component.TransformComponent.Kind()) {
		t.Fatalf("recycled entity must not inherit components")
	}
	if _, ok := Get(w, old, component.TransformComponent.Kind()); ok {
		t.Fatalf("stale handle must not resolve")
	}
}

func TestComponents(t *testing.T) {
	w := NewWorld()
	h1 := component.NewComponent[int]()
	h2 := component.NewComponent[string]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	one, a, b := 1, "a", "b"

	tests := []struct {
		name  string
		setup func() error
		check func(t *testing.T)
	}{
		{
			name:  "add_int_to_e1",
			setup: func() error { return Add(w, e1, h1.Kind(), &one) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, h1.Kind())
				if !ok || *v != 1 {
					t.Fatalf("expected 1, got %v ok=%v", v, ok)
				}
				if Has(w, e2, h1.Kind()) {
					t.Fatalf("e2 should not have int component")
				}
			},
		},
		{
			name: "add_str_to_both",
			setup: func() error {
				if err := Add(w, e1, h2.Kind(), &a); err != nil {
					return err
				}
				return Add(w, e2, h2.Kind(), &b)
			},
			check: func(t *testing.T) {
				if Count(w, h2.Kind()) != 2 {
					t.Fatalf("expected 2 string components, got %d", Count(w, h2.Kind()))
				}
				var seen []Entity
				ForEach2(w, h1.Kind(), h2.Kind(), func(e Entity, _ *int, _ *string) { seen = append(seen, e) })
				if len(seen) != 1 || seen[0] != e1 {
					t.Fatalf("expected only e1 in ForEach2, got %v", seen)
				}
			},
		},
		{
			name:  "remove_int",
			setup: func() error { return nil },
			check: func(t *testing.T) {
				if !Remove(w, e1, h1.Kind()) {
					t.Fatalf("remove should succeed")
				}
				if Remove(w, e1, h1.Kind()) {
					t.Fatalf("second remove should fail")
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			tc.check(t)
		})
	}
}

func TestAddErrors(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	kind := component.TransformComponent.Kind()

	if err := Add[component.Transform](w, e, kind, nil); !errors.Is(err, component.ErrNilComponent) {
		t.Fatalf("expected ErrNilComponent, got %v", err)
	}
	if err := Add(w, e, component.ComponentKind[component.Transform]{}, &component.Transform{}); !errors.Is(err, component.ErrInvalidComponentKind) {
		t.Fatalf("expected ErrInvalidComponentKind, got %v", err)
	}
	DestroyEntity(w, e)
	if err := Add(w, e, kind, &component.Transform{}); !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("expected ErrEntityNotAlive, got %v", err)
	}
}

func TestForEachAndFirst(t *testing.T) {
	w := NewWorld()
	kind := component.VehicleTagComponent.Kind()

	if _, ok := First(w, kind); ok {
		t.Fatalf("empty world should have no vehicle")
	}

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	CreateEntity(w)
	_ = Add(w, e1, kind, &component.VehicleTag{})
	_ = Add(w, e2, kind, &component.VehicleTag{})
	DestroyEntity(w, e1)

	first, ok := First(w, kind)
	if !ok || first != e2 {
		t.Fatalf("expected e2 first after e1 destroyed, got %v ok=%v", first, ok)
	}

	n := 0
	ForEach(w, kind, func(Entity, *component.VehicleTag) { n++ })
	if n != 1 {
		t.Fatalf("expected 1 tagged entity, got %d", n)
	}
}

type countingSystem struct {
	calls *[]string
	name  string
}

func (s countingSystem) Update(*World) { *s.calls = append(*s.calls, s.name) }

func TestSchedulerOrder(t *testing.T) {
	var calls []string
	s := NewScheduler(countingSystem{&calls, "input"}, nil, countingSystem{&calls, "sim"})
	s.Add(countingSystem{&calls, "reload"})
	s.Update(NewWorld())

	want := []string{"input", "sim", "reload"}
	if len(calls) != len(want) {
		t.Fatalf("expected %v, got %v", want, calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, calls)
		}
	}
	if len(s.Systems()) != 3 {
		t.Fatalf("nil systems must be skipped")
	}
}
