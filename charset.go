package baudscan

// Charset is the policy that decides which received bytes count toward the
// acceptance threshold.
type Charset struct {
	// IncludeWhitespace counts TAB, LF and CR as printable in addition to
	// the 0x20-0x7E range.
	IncludeWhitespace bool

	// RequireText additionally requires at least one whitespace, one
	// punctuation and one vowel byte before a sample is accepted.
	RequireText bool

	// ResetOnNoise clears the running counters whenever a non-printable
	// byte arrives, so only an unbroken run of text can reach the threshold.
	ResetOnNoise bool
}

// DefaultCharset counts 0x20-0x7E plus TAB, LF and CR.
func DefaultCharset() Charset {
	return Charset{IncludeWhitespace: true}
}

// IsPrintable reports whether b counts toward the threshold.
func (c Charset) IsPrintable(b byte) bool {
	if b >= 0x20 && b <= 0x7e {
		return true
	}
	if c.IncludeWhitespace {
		switch b {
		case '\t', '\n', '\r':
			return true
		}
	}
	return false
}

// tally holds the running counters of one sample.
type tally struct {
	printable   int
	whitespace  int
	punctuation int
	vowels      int
}

func (t *tally) reset() {
	*t = tally{}
}

// add classifies b and reports whether it was printable.
func (c Charset) add(t *tally, b byte) bool {
	if !c.IsPrintable(b) {
		if c.ResetOnNoise {
			t.reset()
		}
		return false
	}
	t.printable++
	switch b {
	case ' ', '\t', '\n', '\r':
		t.whitespace++
	case '.', ',', ':', ';', '?', '!':
		t.punctuation++
	case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
		t.vowels++
	}
	return true
}

// satisfied applies the acceptance rule to the running counters.
func (c Charset) satisfied(t tally, threshold int) bool {
	if threshold <= 0 {
		return true
	}
	if t.printable < threshold {
		return false
	}
	if c.RequireText {
		return t.whitespace > 0 && t.punctuation > 0 && t.vowels > 0
	}
	return true
}
