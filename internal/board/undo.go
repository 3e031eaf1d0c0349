package board

// undoEntry is what one Make overwrote.
type undoEntry struct {
	from, to Square
	moved    Piece
	captured Piece
}

// UndoStack pairs every in-place layout mutation with the symbols it
// replaced. Make pushes before writing and Unmake pops to restore, so nested
// Make/Unmake calls compose the same way the recursion does.
type UndoStack struct {
	entries []undoEntry
}

// NewUndoStack returns a stack sized for the given depth.
func NewUndoStack(capacity int) *UndoStack {
	return &UndoStack{entries: make([]undoEntry, 0, capacity)}
}

// Make applies m to l: the mover's symbol goes to m.To and m.From is emptied.
// m must come from the generator (or be otherwise known to be in range).
func (s *UndoStack) Make(l *Layout, m Move) {
	s.entries = append(s.entries, undoEntry{
		from:     m.From,
		to:       m.To,
		moved:    l[m.From],
		captured: l[m.To],
	})
	l[m.To] = l[m.From]
	l[m.From] = NoPiece
}

// Unmake restores the squares changed by the most recent Make.
func (s *UndoStack) Unmake(l *Layout) {
	n := len(s.entries) - 1
	e := s.entries[n]
	s.entries = s.entries[:n]
	l[e.to] = e.captured
	l[e.from] = e.moved
}

// Len returns the number of moves currently applied.
func (s *UndoStack) Len() int {
	return len(s.entries)
}

// Rewind unmakes moves until only mark remain applied.
func (s *UndoStack) Rewind(l *Layout, mark int) {
	for len(s.entries) > mark {
		s.Unmake(l)
	}
}
