package entity

import (
	"encoding/json"
	"testing"
)

func TestTagValueAccessors(t *testing.T) {
	if got := TagInt(5).Int(); got != 5 {
		t.Errorf("Int() = %d", got)
	}
	if !TagBool(true).Bool() {
		t.Error("Bool() = false")
	}
	if got := TagString("FIRE").String(); got != "FIRE" {
		t.Errorf("String() = %q", got)
	}
	// Cross-kind access yields the zero value, not a coercion.
	if got := TagBool(true).Int(); got != 0 {
		t.Errorf("Int() on bool kind = %d", got)
	}
	if TagInt(1).Bool() {
		t.Error("Bool() on int kind = true")
	}
}

func TestTagValueJSONRoundTrip(t *testing.T) {
	values := []TagValue{TagInt(7), TagBool(true), TagString("SECRET")}
	for _, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal %+v: %v", v, err)
		}
		var back TagValue
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if !v.Equal(back) {
			t.Errorf("round trip %+v -> %s -> %+v", v, data, back)
		}
	}
}

func TestTagValueUnmarshalRejectsStructures(t *testing.T) {
	var v TagValue
	if err := json.Unmarshal([]byte(`{"a":1}`), &v); err == nil {
		t.Fatal("expected error for object tag value")
	}
}

func TestSetAndRemoveTag(t *testing.T) {
	e := &Entity{}
	e.SetTag(TagAttack, TagInt(4))
	if e.TagInt(TagAttack) != 4 {
		t.Fatalf("TagInt = %d", e.TagInt(TagAttack))
	}
	if !e.HasTag(TagAttack) {
		t.Fatal("HasTag = false")
	}
	e.RemoveTag(TagAttack)
	if e.HasTag(TagAttack) {
		t.Fatal("tag survived removal")
	}
	if e.TagInt(TagAttack) != 0 {
		t.Fatal("absent tag must read as zero")
	}
}

func TestPayloadNarrowing(t *testing.T) {
	e := &Entity{payload: &MinionData{Attack: 3}}
	if d, ok := e.AsMinion(); !ok || d.Attack != 3 {
		t.Fatalf("AsMinion = %+v, %t", d, ok)
	}
	if _, ok := e.AsSpell(); ok {
		t.Fatal("minion narrowed to spell")
	}
}

func TestAttachDetach(t *testing.T) {
	host := &Entity{ID: 1, Controller: Player2}
	ench := &Entity{ID: 2, Controller: Player1}

	host.Attach(ench)
	if ench.Controller != Player2 {
		t.Error("enchantment controller must follow host")
	}
	if len(host.Enchantments) != 1 {
		t.Fatalf("enchantments = %d", len(host.Enchantments))
	}

	if !host.Detach(2) {
		t.Fatal("detach reported missing")
	}
	if len(host.Enchantments) != 0 {
		t.Fatal("enchantment not removed")
	}
	if host.Detach(2) {
		t.Fatal("second detach reported success")
	}
}

func TestCloneIsolatesTagMap(t *testing.T) {
	e := &Entity{Tags: map[Tag]TagValue{TagHealth: TagInt(5)}}
	c := e.Clone()
	c.SetTag(TagHealth, TagInt(1))
	if e.TagInt(TagHealth) != 5 {
		t.Fatal("clone shares tag map with original")
	}
}

func TestDeepCloneIsolatesEnchantments(t *testing.T) {
	ench := &Entity{ID: 2, Name: "Blessing"}
	e := &Entity{ID: 1, Enchantments: []*Entity{ench}}

	c := e.DeepClone()
	c.Enchantments[0].Name = "Curse"
	if ench.Name != "Blessing" {
		t.Fatal("deep clone shares enchantment entities")
	}
}

func TestOpponent(t *testing.T) {
	if Player1.Opponent() != Player2 || Player2.Opponent() != Player1 {
		t.Fatal("opponent mapping broken")
	}
}

func TestGameStepString(t *testing.T) {
	if StepMainAction.String() != "MAIN_ACTION" {
		t.Errorf("String() = %s", StepMainAction)
	}
	if GameStep(99).String() != "STEP_99" {
		t.Errorf("unknown step String() = %s", GameStep(99))
	}
}
