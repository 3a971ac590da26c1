package vehicle

import (
	"sync"
	"testing"
)

func TestInputKeys(t *testing.T) {
	cases := []struct {
		name string
		key  Key
		want Intents
	}{
		{"up", KeyUp, Intents{Accelerate: true}},
		{"down", KeyDown, Intents{Brake: true}},
		{"left", KeyLeft, Intents{TurnLeft: true}},
		{"right", KeyRight, Intents{TurnRight: true}},
		{"unknown", Key("Space"), Intents{}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			in := NewInput()
			in.OnKeyDown(c.key)
			if got := in.Read(); got != c.want {
				t.Fatalf("after press: %+v, want %+v", got, c.want)
			}
			in.OnKeyUp(c.key)
			if got := in.Read(); got != (Intents{}) {
				t.Fatalf("after release: %+v, want none", got)
			}
		})
	}
}

func TestInputStartsReleased(t *testing.T) {
	if got := NewInput().Read(); got != (Intents{}) {
		t.Fatalf("new input should have nothing held, got %+v", got)
	}
}

func TestInputCombinations(t *testing.T) {
	in := NewInput()
	in.OnKeyDown(KeyUp)
	in.OnKeyDown(KeyDown)
	if got := in.Read(); !got.Accelerate || !got.Brake || got.TurnLeft || got.TurnRight {
		t.Fatalf("accelerate and brake should both be held, got %+v", got)
	}

	in.SetKey(KeyLeft, true)
	in.SetKey(KeyRight, true)
	all := Intents{Accelerate: true, Brake: true, TurnLeft: true, TurnRight: true}
	if got := in.Read(); got != all {
		t.Fatalf("got %+v, want %+v", got, all)
	}

	in.OnKeyUp(KeyDown)
	if got := in.Read(); got.Brake || !got.Accelerate {
		t.Fatalf("releasing brake must leave accelerate held, got %+v", got)
	}

	in.OnKeyDown(Key("Space"))
	in.OnKeyUp(Key("Space"))
	if got := in.Read(); got != (Intents{Accelerate: true, TurnLeft: true, TurnRight: true}) {
		t.Fatalf("unknown keys must not change anything, got %+v", got)
	}

	in.Reset()
	if got := in.Read(); got != (Intents{}) {
		t.Fatalf("reset should release everything, got %+v", got)
	}
}

func TestInputNil(t *testing.T) {
	var in *Input
	in.OnKeyDown(KeyUp)
	in.Reset()
	if got := in.Read(); got != (Intents{}) {
		t.Fatalf("nil input reads as released, got %+v", got)
	}
}

func TestInputConcurrentWriters(t *testing.T) {
	in := NewInput()
	keys := []Key{KeyUp, KeyDown, KeyLeft, KeyRight}
	const rounds = 1000

	var wg sync.WaitGroup
	for _, key := range keys {
		wg.Add(1)
		go func(key Key) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				in.SetKey(key, i%2 == 0)
			}
			in.OnKeyDown(key)
		}(key)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < rounds; i++ {
			_ = in.Read()
		}
	}()

	wg.Wait()
	<-done

	want := Intents{Accelerate: true, Brake: true, TurnLeft: true, TurnRight: true}
	if got := in.Read(); got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestParseKey(t *testing.T) {
	cases := []struct {
		in   string
		want Key
		ok   bool
	}{
		{"ArrowUp", KeyUp, true},
		{"arrowdown", KeyDown, true},
		{"left", KeyLeft, true},
		{"RIGHT", KeyRight, true},
		{"Space", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := ParseKey(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("ParseKey(%q) = %q, %v; want %q, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}
