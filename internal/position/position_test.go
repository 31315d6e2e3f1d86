package position

import "testing"

func TestSpanUnion(t *testing.T) {
	f := "sample.wtn"
	a := Span{Start: Position{Filename: f, Line: 1, Column: 1, Offset: 0}, End: Position{Filename: f, Line: 1, Column: 5, Offset: 4}}
	b := Span{Start: Position{Filename: f, Line: 2, Column: 1, Offset: 10}, End: Position{Filename: f, Line: 2, Column: 3, Offset: 12}}

	u := a.Union(b)
	if u.Start != a.Start || u.End != b.End {
		t.Fatalf("Union should span from a.Start to b.End, got %+v", u)
	}
}

func TestSourceFileSpanText(t *testing.T) {
	sf := NewSourceFile("f.wtn", "let x = 1\nlet y = 2\n")
	span := Span{
		Start: Position{Filename: "f.wtn", Line: 1, Column: 1, Offset: 0},
		End:   Position{Filename: "f.wtn", Line: 1, Column: 4, Offset: 3},
	}

	if got := sf.GetSpanText(span); got != "let" {
		t.Fatalf("GetSpanText() = %q, want %q", got, "let")
	}
}

func TestOffsetPositionRoundTrip(t *testing.T) {
	sf := NewSourceFile("f.wtn", "abc\ndef\n")

	pos := sf.PositionFromOffset(5)
	if pos.Line != 2 || pos.Column != 2 {
		t.Fatalf("PositionFromOffset(5) = %+v, want line 2 column 2", pos)
	}

	offset := sf.OffsetFromPosition(pos)
	if offset != 5 {
		t.Fatalf("OffsetFromPosition(%+v) = %d, want 5", pos, offset)
	}
}
