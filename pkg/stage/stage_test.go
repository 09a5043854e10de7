package stage

import (
	"errors"
	"testing"
)

type testStage int

const (
	stageA testStage = iota
	stageB
)

type recorder struct {
	events []string
	failAt string
}

func (r *recorder) record(ev string) error {
	r.events = append(r.events, ev)
	if ev == r.failAt {
		return errAbort
	}
	return nil
}

func (r *recorder) LoopStart(s testStage, count int) error {
	return r.record("start")
}

func (r *recorder) LoopNext(s testStage) error {
	return r.record("next")
}

func (r *recorder) LoopEnd(s testStage) error {
	return r.record("end")
}

var errAbort = errors.New("abort")

func TestRun_Counts(t *testing.T) {
	tests := []struct {
		name  string
		count int
		want  int
	}{
		{"zero", 0, 2},
		{"one", 1, 4},
		{"five", 5, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			items := 0
			err := Run[testStage](r, stageA, tt.count, func(i int) error {
				if i != items {
					t.Errorf("item index %d, expected %d", i, items)
				}
				items++
				return r.record("item")
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if items != tt.count {
				t.Errorf("expected %d items, got %d", tt.count, items)
			}
			if len(r.events) != tt.want {
				t.Errorf("expected %d events, got %d: %v", tt.want, len(r.events), r.events)
			}
			if r.events[0] != "start" || r.events[len(r.events)-1] != "end" {
				t.Errorf("loop not bracketed: %v", r.events)
			}
			nexts := 0
			for _, ev := range r.events {
				if ev == "next" {
					nexts++
				}
			}
			if nexts != tt.count {
				t.Errorf("expected %d LoopNext, got %d", tt.count, nexts)
			}
		})
	}
}

func TestRun_AbortPropagates(t *testing.T) {
	for _, at := range []string{"start", "item", "next", "end"} {
		t.Run(at, func(t *testing.T) {
			r := &recorder{failAt: at}
			err := Run[testStage](r, stageB, 3, func(int) error {
				return r.record("item")
			})
			if !errors.Is(err, errAbort) {
				t.Fatalf("expected abort error, got %v", err)
			}
			if r.events[len(r.events)-1] != at {
				t.Errorf("parse continued after abort: %v", r.events)
			}
		})
	}
}

func TestNop(t *testing.T) {
	var h LoopHandler[testStage] = Nop[testStage]{}
	if err := Run(h, stageA, 2, func(int) error { return nil }); err != nil {
		t.Errorf("Nop should never fail, got %v", err)
	}
}

func TestCounter(t *testing.T) {
	var c Counter[testStage]
	if c.Index(stageA) != 0 {
		t.Errorf("zero value index should be 0")
	}
	c.Start(stageA)
	c.Next(stageA)
	c.Next(stageA)
	c.Start(stageB)
	c.Next(stageB)
	if got := c.Index(stageA); got != 2 {
		t.Errorf("stageA index = %d, want 2", got)
	}
	if got := c.Index(stageB); got != 1 {
		t.Errorf("stageB index = %d, want 1", got)
	}
	c.Start(stageA)
	if got := c.Index(stageA); got != 0 {
		t.Errorf("restart should reset index, got %d", got)
	}
}
