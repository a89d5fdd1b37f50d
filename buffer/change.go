package buffer

// ChangeSource identifies where a change originated.
type ChangeSource uint8

const (
	// ChangeSourceLocal marks edits made through the editing API.
	ChangeSourceLocal ChangeSource = iota
	// ChangeSourceRemote marks text pushed in by the document owner.
	ChangeSourceRemote
)

// AppliedEdit is one effective text replacement. Ranges are normalized.
type AppliedEdit struct {
	RangeBefore Range
	RangeAfter  Range
	InsertText  string
	DeletedText string
}

// Change records the most recent version bump. Cursor-only changes carry no
// AppliedEdits.
type Change struct {
	Source        ChangeSource
	VersionBefore uint64
	VersionAfter  uint64
	CursorBefore  Pos
	CursorAfter   Pos
	AppliedEdits  []AppliedEdit
}

// pendingChange accumulates a Change while a mutation runs.
type pendingChange struct {
	Change
}

// LastChange returns the most recent effective change.
func (b *Buffer) LastChange() (Change, bool) {
	if !b.hasLastChange {
		return Change{}, false
	}
	out := b.lastChange
	out.AppliedEdits = append([]AppliedEdit(nil), out.AppliedEdits...)
	return out, true
}

func (b *Buffer) beginChange(source ChangeSource) *pendingChange {
	return &pendingChange{Change{
		Source:        source,
		VersionBefore: b.version,
		CursorBefore:  b.cursor,
	}}
}

func (pc *pendingChange) addAppliedEdit(e AppliedEdit) {
	e.RangeBefore = NormalizeRange(e.RangeBefore)
	e.RangeAfter = NormalizeRange(e.RangeAfter)
	pc.AppliedEdits = append(pc.AppliedEdits, e)
}

// commitChange publishes pc as LastChange if the version moved.
func (b *Buffer) commitChange(pc *pendingChange) {
	if b.version == pc.VersionBefore {
		return
	}
	pc.VersionAfter = b.version
	pc.CursorAfter = b.cursor
	b.lastChange = pc.Change
	b.hasLastChange = true
}

// wholeTextEdit describes replacing all of before with after.
func wholeTextEdit(before, after string) (AppliedEdit, bool) {
	if before == after {
		return AppliedEdit{}, false
	}
	return AppliedEdit{
		RangeBefore: endRange(before),
		RangeAfter:  endRange(after),
		InsertText:  after,
		DeletedText: before,
	}, true
}

// endRange spans text from its start to its last grapheme.
func endRange(text string) Range {
	lines := splitLines(text)
	last := len(lines) - 1
	return Range{End: Pos{Row: last, GraphemeCol: len(lines[last])}}
}
