package dsl

import (
	"testing"

	"github.com/aretw0/missionkit/pkg/domain"
)

func TestBuilder_LinearTemplate(t *testing.T) {
	b := New("linear").Name("Linear").Category("test").Duration("5 min").Difficulty("easy")

	b.Add("a").Action("Start").At(0, 0).To("b")
	b.Add("b").Condition("Gate").At(200, 0).To("c")
	b.Add("c").Verification("Check").At(400, 0).To("d")
	b.Add("d").Reward("Pay").At(600, 0).Set("amount", 5)

	tpl, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if tpl.Name != "Linear" || tpl.Category != "test" || tpl.Duration != "5 min" || tpl.Difficulty != "easy" {
		t.Errorf("unexpected metadata: %+v", tpl)
	}
	if len(tpl.Steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(tpl.Steps))
	}

	wantOrder := []string{"a", "b", "c", "d"}
	for i, id := range wantOrder {
		if tpl.Steps[i].ID != id {
			t.Errorf("step %d: expected %s, got %s", i, id, tpl.Steps[i].ID)
		}
	}
	if got := tpl.Steps[0].Connections; len(got) != 1 || got[0] != "b" {
		t.Errorf("expected a -> b, got %v", got)
	}
	if tpl.Steps[3].Kind != domain.KindReward {
		t.Errorf("expected reward kind, got %s", tpl.Steps[3].Kind)
	}
	if tpl.Steps[3].Config["amount"] != 5 {
		t.Errorf("expected amount config, got %v", tpl.Steps[3].Config)
	}
	if tpl.Steps[1].Position != (domain.Position{X: 200, Y: 0}) {
		t.Errorf("unexpected position %+v", tpl.Steps[1].Position)
	}
}

func TestBuilder_AddIsIdempotent(t *testing.T) {
	b := New("dup")
	b.Add("a").Action("first")
	b.Add("a").To("b")

	tpl, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if len(tpl.Steps) != 1 {
		t.Fatalf("expected a single step, got %d", len(tpl.Steps))
	}
	if tpl.Steps[0].Title != "first" || len(tpl.Steps[0].Connections) != 1 {
		t.Errorf("builders were not merged: %+v", tpl.Steps[0])
	}
}

func TestBuilder_Errors(t *testing.T) {
	if _, err := New("").Build(); err == nil {
		t.Error("expected error for missing template ID")
	}

	b := New("no-kind")
	b.Add("a")
	if _, err := b.Build(); err == nil {
		t.Error("expected error for step without kind")
	}
}

func TestBuilder_BuildIsolatesBuilder(t *testing.T) {
	b := New("iso")
	b.Add("a").Action("A").Set("k", "v")

	first, _ := b.Build()
	first.Steps[0].Config["k"] = "mutated"

	second, _ := b.Build()
	if second.Steps[0].Config["k"] != "v" {
		t.Errorf("builder state leaked into built template")
	}
}
