package notation

// Distance returns how many staff steps note is above ref (negative when
// below). One line or space is a step; an octave is seven.
func Distance(note, ref Pitch, mode SpellingMode) int {
	if note == ref {
		return 0
	}

	noteLetter := LetterOf(note, mode)
	refLetter := LetterOf(ref, mode)

	// Same letter at a different pitch (A vs Ab, C vs C#) counts as a full
	// octave when the gap is eleven semitones.
	gap := abs(int(note) - int(ref))
	if noteLetter == refLetter {
		gap++
	}
	octaves := gap / 12

	var within int
	if note > ref {
		within = lettersAbove(noteLetter, refLetter)
	} else {
		within = lettersBelow(noteLetter, refLetter)
	}

	d := octaves*LettersPerOctave + within
	if note > ref {
		return d
	}
	return -d
}

// lettersAbove: C above G is 3.
func lettersAbove(note, ref Letter) int {
	if note < ref {
		note += LettersPerOctave
	}
	return int(note - ref)
}

// lettersBelow: C below G is 4.
func lettersBelow(note, ref Letter) int {
	if note > ref {
		note -= LettersPerOctave
	}
	return int(ref - note)
}

// OnLine reports whether p is drawn on a staff line rather than a space.
// Both clef references sit in a space.
func OnLine(p Pitch, mode SpellingMode) bool {
	d := Distance(p, ClefOf(p).Reference(), mode)
	return abs(d)%2 == 1
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
