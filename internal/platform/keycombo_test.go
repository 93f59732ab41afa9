package platform

import "testing"

func TestParseCombo_SingleModifierAndKey(t *testing.T) {
	combo, ok := ParseCombo("ctrl+a")
	if !ok {
		t.Fatal("expected ctrl+a to parse")
	}
	if len(combo.Modifiers) != 1 || combo.Modifiers[0] != ModCtrl {
		t.Fatalf("expected [ModCtrl], got %v", combo.Modifiers)
	}
	if combo.Key.VK != uint32('A') {
		t.Fatalf("expected main key VK 'A', got %#x", combo.Key.VK)
	}
}

func TestParseCombo_MultipleModifiersPreserveOrder(t *testing.T) {
	combo, ok := ParseCombo("ctrl+shift+a")
	if !ok {
		t.Fatal("expected ctrl+shift+a to parse")
	}
	want := []Modifier{ModCtrl, ModShift}
	if len(combo.Modifiers) != len(want) {
		t.Fatalf("expected %d modifiers, got %d", len(want), len(combo.Modifiers))
	}
	for i, m := range want {
		if combo.Modifiers[i] != m {
			t.Fatalf("modifier %d: expected %v, got %v", i, m, combo.Modifiers[i])
		}
	}
}

func TestParseCombo_CaseInsensitive(t *testing.T) {
	combo, ok := ParseCombo("CTRL+SHIFT+Delete")
	if !ok {
		t.Fatal("expected case-insensitive parse to succeed")
	}
	if combo.Key.VK != vkDelete || !combo.Key.Extended {
		t.Fatalf("expected extended delete key, got %+v", combo.Key)
	}
}

func TestParseCombo_NamedKeysRequiringExtendedFlag(t *testing.T) {
	extended := []string{"left", "right", "up", "down", "insert", "delete", "home", "end", "pageup", "pagedown", "numlock", "printscreen", "rightwin", "numdivide"}
	for _, name := range extended {
		combo, ok := ParseCombo(name)
		if !ok {
			t.Fatalf("expected %q to parse", name)
		}
		if !combo.Key.Extended {
			t.Errorf("expected %q to require the extended-key flag", name)
		}
	}
}

func TestParseCombo_FunctionKeysUpToF24(t *testing.T) {
	combo, ok := ParseCombo("f24")
	if !ok {
		t.Fatal("expected f24 to parse")
	}
	if combo.Key.VK != vkF1+23 {
		t.Fatalf("expected f24 VK %#x, got %#x", vkF1+23, combo.Key.VK)
	}
}

func TestParseCombo_RejectsUnknownKey(t *testing.T) {
	if _, ok := ParseCombo("ctrl+notakey"); ok {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestParseCombo_RejectsModifierOnlyCombo(t *testing.T) {
	if _, ok := ParseCombo("ctrl+shift"); ok {
		t.Fatal("expected a modifier-only combo (no main key) to be rejected")
	}
}

func TestParseCombo_SingleLetterNoModifier(t *testing.T) {
	combo, ok := ParseCombo("a")
	if !ok {
		t.Fatal("expected bare letter to parse")
	}
	if len(combo.Modifiers) != 0 {
		t.Fatalf("expected no modifiers, got %v", combo.Modifiers)
	}
}

func TestModifierVK_CoversAllFourModifiers(t *testing.T) {
	for _, m := range []Modifier{ModCtrl, ModAlt, ModShift, ModMeta} {
		if ModifierVK(m) == 0 {
			t.Errorf("expected non-zero VK for modifier %v", m)
		}
	}
}
