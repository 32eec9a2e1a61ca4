package types

import "testing"

func TestButtonActions(t *testing.T) {
	want := map[ButtonID]Action{
		ButtonVolUp:   ActionVolumeUp,
		ButtonVolDown: ActionVolumeDown,
		ButtonSet:     ActionSet,
		ButtonPlay:    ActionPlay,
		ButtonMode:    ActionMode,
		ButtonRec:     ActionRecord,
		ButtonID(-1):  ActionUnknown,
		ButtonID(6):   ActionUnknown,
	}
	for id, a := range want {
		if got := id.Action(); got != a {
			t.Fatalf("ButtonID(%d).Action() = %q, want %q", id, got, a)
		}
	}
	if ButtonCount != 6 {
		t.Fatalf("ButtonCount = %d, want 6", ButtonCount)
	}
	if ActionRecord.Label() != "Record" || ActionUnknown.Label() != "Unknown" {
		t.Fatal("label mismatch")
	}
}
