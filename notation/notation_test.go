package notation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var modes = []SpellingMode{AllSharps, AllFlats}

func TestLetterOfIsTotal(t *testing.T) {
	for _, mode := range modes {
		for pc := 0; pc < 12; pc++ {
			l := LetterOf(Pitch(60+pc), mode)
			assert.NotEqual(t, InvalidLetter, l, "pc %d mode %s", pc, mode)
		}
	}
}

func TestLetterOfSpelling(t *testing.T) {
	tests := []struct {
		pitch  Pitch
		sharps Letter
		flats  Letter
	}{
		{60, C, C},
		{61, C, D},
		{62, D, D},
		{63, D, E},
		{64, E, E},
		{65, F, F},
		{66, F, G},
		{67, G, G},
		{68, G, A},
		{69, A, A},
		{70, A, B},
		{71, B, B},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.sharps, LetterOf(tt.pitch, AllSharps), "pitch %d sharps", tt.pitch)
		assert.Equal(t, tt.flats, LetterOf(tt.pitch, AllFlats), "pitch %d flats", tt.pitch)
	}
	assert.Equal(t, InvalidLetter, LetterOf(60, SpellingMode(7)))
}

func TestDistanceConcrete(t *testing.T) {
	assert.Equal(t, 0, Distance(69, 69, AllSharps))
	assert.Equal(t, 2, Distance(72, 69, AllSharps))
	assert.Equal(t, 0, Distance(48, 48, AllFlats))
	assert.Equal(t, 3, Distance(72, 67, AllSharps)) // G up to C
	assert.Equal(t, -3, Distance(67, 72, AllSharps))
	assert.Equal(t, -1, Distance(67, 69, AllFlats))
}

func TestDistanceEnharmonic(t *testing.T) {
	// Ab spelled as A sits an octave above the A below it.
	assert.Equal(t, 7, Distance(80, 69, AllFlats))
	// G# sits a step below A.
	assert.Equal(t, 6, Distance(80, 69, AllSharps))
	// C# and C share a line.
	assert.Equal(t, 0, Distance(61, 60, AllSharps))
	assert.Equal(t, 1, Distance(61, 60, AllFlats))
}

func TestDistanceIdentityAndAntisymmetry(t *testing.T) {
	for _, mode := range modes {
		for a := MinPitch; a <= MaxPitch; a++ {
			require.Equal(t, 0, Distance(a, a, mode))
			for b := MinPitch; b <= MaxPitch; b++ {
				require.Equal(t, -Distance(b, a, mode), Distance(a, b, mode), "a=%d b=%d mode=%s", a, b, mode)
			}
		}
	}
}

func TestDistanceOctave(t *testing.T) {
	for _, mode := range modes {
		for p := MinPitch; p+12 <= MaxPitch; p++ {
			assert.Equal(t, 7, abs(Distance(p, p+12, mode)), "p=%d mode=%s", p, mode)
			assert.Equal(t, -7, Distance(p, p+12, mode))
		}
	}
}

func TestClefOf(t *testing.T) {
	assert.Equal(t, Bass, ClefOf(59))
	assert.Equal(t, Treble, ClefOf(60))
	assert.Equal(t, Pitch(69), Treble.Reference())
	assert.Equal(t, Pitch(48), Bass.Reference())
}

func TestLedgerLines(t *testing.T) {
	tests := []struct {
		d    int
		want int
	}{
		{0, 0},
		{1, 0},
		{5, 0},
		{6, 0},
		{7, 1},
		{8, 1},
		{9, 2},
		{-3, 0},
		{-4, 0},
		{-5, 1},
		{-6, 1},
		{-7, 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LedgerLines(tt.d), "d=%d", tt.d)
	}
}

func TestLayoutMiddleC(t *testing.T) {
	pos := Layout([]Pitch{60, 81}, AllSharps)
	require.Len(t, pos, 2)
	// middle C sits one ledger line below the treble staff
	assert.Equal(t, -5, pos[0].Distance)
	assert.Equal(t, 1, pos[0].Ledgers)
	assert.False(t, pos[0].LedgersAbove())
	// A5 one ledger line above
	assert.Equal(t, 7, pos[1].Distance)
	assert.Equal(t, 1, pos[1].Ledgers)
	assert.True(t, pos[1].LedgersAbove())
	assert.True(t, pos[0].OnLine)
	assert.True(t, pos[1].OnLine)
}

func TestStaffLineStepsAreLines(t *testing.T) {
	for _, clef := range []Clef{Treble, Bass} {
		for _, d := range StaffLineSteps {
			assert.Equal(t, 1, abs(d)%2, "clef %s step %d", clef, d)
		}
	}
	// treble: F5 D5 B4 G4 E4
	for i, p := range []Pitch{77, 74, 71, 67, 64} {
		assert.Equal(t, StaffLineSteps[i], Distance(p, Treble.Reference(), AllSharps))
		assert.True(t, OnLine(p, AllSharps))
	}
}

func TestLayoutOffsetsSeconds(t *testing.T) {
	// C D E: D is shifted, E is not (its neighbour already moved).
	pos := Layout([]Pitch{60, 62, 64}, AllSharps)
	require.Len(t, pos, 3)
	assert.False(t, pos[0].Offset)
	assert.True(t, pos[1].Offset)
	assert.False(t, pos[2].Offset)

	// C D E F: F shifts again.
	pos = Layout([]Pitch{60, 62, 64, 65}, AllSharps)
	assert.Equal(t, []bool{false, true, false, true}, offsets(pos))

	// Duplicates collide like a unison.
	pos = Layout([]Pitch{64, 64}, AllSharps)
	assert.Equal(t, []bool{false, true}, offsets(pos))
}

func TestLayoutResetsAtClefChange(t *testing.T) {
	// B3 and C4 are a second apart but on different staves.
	pos := Layout([]Pitch{59, 60}, AllSharps)
	require.Len(t, pos, 2)
	assert.Equal(t, Bass, pos[0].Clef)
	assert.Equal(t, Treble, pos[1].Clef)
	assert.Equal(t, []bool{false, false}, offsets(pos))
}

func TestLayoutSpellingChangesOffset(t *testing.T) {
	// C# and D are a step apart as sharps and share a line as flats.
	assert.Equal(t, []bool{false, true}, offsets(Layout([]Pitch{61, 62}, AllSharps)))
	assert.Equal(t, []bool{false, true}, offsets(Layout([]Pitch{61, 62}, AllFlats)))
	// C# and E: a third apart as sharps, a second as flats.
	assert.Equal(t, []bool{false, false}, offsets(Layout([]Pitch{61, 64}, AllSharps)))
	assert.Equal(t, []bool{false, true}, offsets(Layout([]Pitch{61, 64}, AllFlats)))
}

func TestNeedsAccidental(t *testing.T) {
	for pc := 0; pc < 12; pc++ {
		want := pc == 1 || pc == 3 || pc == 6 || pc == 8 || pc == 10
		assert.Equal(t, want, NeedsAccidental(Pitch(48+pc)), "pc %d", pc)
	}
}

func TestAccidentalsStacking(t *testing.T) {
	st := Stacking{BaseX: 100, DeltaX: -10, MaxSpan: 4}

	// D# F# A#: all within 4 steps of A#, stacked from the top down.
	cols := Accidentals([]Pitch{63, 66, 70}, AllSharps, st)
	require.Len(t, cols, 3)
	assert.Equal(t, Pitch(70), cols[0].Pitch)
	assert.Equal(t, 100, cols[0].X)
	assert.Equal(t, Pitch(66), cols[1].Pitch)
	assert.Equal(t, 90, cols[1].X)
	assert.Equal(t, Pitch(63), cols[2].Pitch)
	assert.Equal(t, 80, cols[2].X)
	assert.Equal(t, 2, cols[2].Depth)
	assert.Equal(t, 0, cols[2].Index)

	// C#4 and C#5 are an octave apart: separate columns.
	cols = Accidentals([]Pitch{61, 73}, AllSharps, st)
	require.Len(t, cols, 2)
	assert.Equal(t, 100, cols[0].X)
	assert.Equal(t, 100, cols[1].X)

	// Bb3 and C#4 are close but on different staves.
	cols = Accidentals([]Pitch{58, 61}, AllFlats, st)
	require.Len(t, cols, 2)
	assert.Equal(t, 100, cols[0].X)
	assert.Equal(t, 100, cols[1].X)
	assert.Equal(t, Flat, cols[1].Glyph)
}

func TestAccidentalsAnchorIsClusterTop(t *testing.T) {
	st := Stacking{BaseX: 0, DeltaX: -1, MaxSpan: 4}
	// F#5 anchors; D#5 (2 steps) stacks, A#4 (5 steps) starts a new column
	// even though it is only 3 steps below D#5.
	cols := Accidentals([]Pitch{70, 75, 78}, AllSharps, st)
	require.Len(t, cols, 3)
	assert.Equal(t, []int{0, -1, 0}, []int{cols[0].X, cols[1].X, cols[2].X})
}

func TestSharpAndFifthScenario(t *testing.T) {
	pitches := []Pitch{61, 64}
	pos := Layout(pitches, AllSharps)
	require.Len(t, pos, 2)
	assert.Equal(t, Treble, pos[0].Clef)
	assert.Equal(t, Treble, pos[1].Clef)
	assert.Equal(t, 2, Distance(64, 61, AllSharps))
	assert.Equal(t, []bool{false, false}, offsets(pos))

	cols := Accidentals(pitches, AllSharps, DefaultStacking)
	require.Len(t, cols, 1)
	assert.Equal(t, Pitch(61), cols[0].Pitch)
	assert.Equal(t, Sharp, cols[0].Glyph)
}

func TestOnLine(t *testing.T) {
	assert.False(t, OnLine(69, AllSharps)) // A4, second space
	assert.True(t, OnLine(71, AllSharps))  // B4, middle line
	assert.True(t, OnLine(60, AllSharps))  // C4 on its ledger line
	assert.True(t, OnLine(57, AllSharps))  // A3, top bass line
}

func TestName(t *testing.T) {
	assert.Equal(t, "C4", Name(60, AllSharps))
	assert.Equal(t, "C#4", Name(61, AllSharps))
	assert.Equal(t, "Db4", Name(61, AllFlats))
	assert.Equal(t, "A0", Name(21, AllFlats))
	assert.Equal(t, "C8", Name(108, AllSharps))
}

func TestParseSpellingMode(t *testing.T) {
	m, err := ParseSpellingMode("Flats")
	require.NoError(t, err)
	assert.Equal(t, AllFlats, m)

	_, err = ParseSpellingMode("naturals")
	assert.ErrorIs(t, err, ErrUnknownSpelling)

	var mode SpellingMode
	require.NoError(t, mode.UnmarshalText([]byte("sharps")))
	assert.Equal(t, AllSharps, mode)
	assert.Equal(t, AllFlats, mode.Toggle())
}

func offsets(pos []Position) []bool {
	out := make([]bool, len(pos))
	for i, p := range pos {
		out[i] = p.Offset
	}
	return out
}
