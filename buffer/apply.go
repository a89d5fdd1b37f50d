package buffer

// Apply runs edits in order as one undo step. Each range is clamped against
// the text left by the edits before it. The cursor ends after the last edit
// that changed anything and the selection is cleared.
func (b *Buffer) Apply(edits ...TextEdit) {
	prev := b.capture()
	pc := b.beginChange(ChangeSourceLocal)
	cursor, changed := b.cursor, false
	for _, e := range edits {
		end, applied, ok := b.splice(e.Range, e.Text)
		if !ok {
			continue
		}
		cursor, changed = end, true
		pc.addAppliedEdit(applied)
	}
	if changed {
		b.commitEdit(prev, pc, b.clampPos(cursor))
	}
}
