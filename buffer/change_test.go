package buffer

import "testing"

func TestBuffer_LastChange_AbsentUntilSomethingMoves(t *testing.T) {
	b := New("{}", Options{})
	if _, ok := b.LastChange(); ok {
		t.Fatalf("fresh buffer has a change")
	}

	b.Move(Move{Unit: MoveGrapheme, Dir: DirLeft})
	if _, ok := b.LastChange(); ok {
		t.Fatalf("no-op move recorded a change")
	}
}

func TestBuffer_LastChange_DescribesInsert(t *testing.T) {
	b := New("[]", Options{})
	b.SetCursor(Pos{GraphemeCol: 1})
	v := b.Version()

	b.InsertText("0")

	ch, ok := b.LastChange()
	if !ok {
		t.Fatalf("missing change")
	}
	if ch.Source != ChangeSourceLocal || ch.VersionBefore != v || ch.VersionAfter != v+1 {
		t.Fatalf("change=%+v, want local %d->%d", ch, v, v+1)
	}
	if ch.CursorBefore != (Pos{GraphemeCol: 1}) || ch.CursorAfter != (Pos{GraphemeCol: 2}) {
		t.Fatalf("cursor %v->%v, want 1->2", ch.CursorBefore, ch.CursorAfter)
	}
	if len(ch.AppliedEdits) != 1 {
		t.Fatalf("applied edits=%d, want 1", len(ch.AppliedEdits))
	}
	e := ch.AppliedEdits[0]
	if want := (Range{Start: Pos{GraphemeCol: 1}, End: Pos{GraphemeCol: 2}}); e.RangeAfter != want || e.InsertText != "0" {
		t.Fatalf("edit=%+v, want insert %q over %v", e, "0", want)
	}
}

func TestBuffer_LastChange_CursorOnly(t *testing.T) {
	b := New("[]", Options{})
	b.Move(Move{Unit: MoveGrapheme, Dir: DirRight})

	ch, ok := b.LastChange()
	if !ok || len(ch.AppliedEdits) != 0 {
		t.Fatalf("change=%+v ok=%v, want a cursor-only change", ch, ok)
	}
	if got, want := ch.CursorAfter, (Pos{GraphemeCol: 1}); got != want {
		t.Fatalf("cursor after=%v, want %v", got, want)
	}
}

func TestBuffer_LastChange_UndoReplacesWholeText(t *testing.T) {
	b := New("{", Options{})
	b.SetCursor(Pos{GraphemeCol: 1})
	b.InsertText("\n}")
	b.Undo()

	ch, _ := b.LastChange()
	if len(ch.AppliedEdits) != 1 {
		t.Fatalf("applied edits=%d, want 1", len(ch.AppliedEdits))
	}
	e := ch.AppliedEdits[0]
	if e.DeletedText != "{\n}" || e.InsertText != "{" {
		t.Fatalf("edit=%+v, want {\\n} replaced by {", e)
	}
	if want := (Range{End: Pos{Row: 1, GraphemeCol: 1}}); e.RangeBefore != want {
		t.Fatalf("range before=%v, want %v", e.RangeBefore, want)
	}
}

func TestBuffer_LastChange_ReturnsCopy(t *testing.T) {
	b := New("", Options{})
	b.InsertText("1")

	ch, _ := b.LastChange()
	ch.AppliedEdits[0].InsertText = "2"

	again, _ := b.LastChange()
	if again.AppliedEdits[0].InsertText != "1" {
		t.Fatalf("caller mutated the recorded change")
	}
}
