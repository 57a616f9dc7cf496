// Package compose turns latin key presses into Hangul syllables. The demo
// binary uses it as a stand-in input method: a commit hands the consumer
// several characters in one lookup, which is exactly the situation the
// interception layer exists to smooth over.
package compose

import (
	"fmt"

	"github.com/suapapa/go_hangul/hangul"
	"github.com/suapapa/go_hangul/keyboard"
)

type Composer struct {
	layout keyboard.Layout
	lead   rune
	vowel  rune
	tail   rune
	done   []rune
}

func New(layoutName string) (*Composer, error) {
	if layoutName == "" {
		return &Composer{layout: keyboard.Dubeolsik()}, nil
	}
	layout, ok := keyboard.ByName(layoutName)
	if !ok {
		return nil, fmt.Errorf("compose: unknown layout %q", layoutName)
	}
	return &Composer{layout: layout}, nil
}

// Key feeds one key press. Reports false when the key maps to no jamo, in
// which case the caller decides what the key means.
func (c *Composer) Key(r rune) bool {
	if jamo, ok := c.layout.ConsonantForKey(r); ok {
		c.consonant(jamo)
		return true
	}
	if jamo, ok := c.layout.VowelForKey(r); ok {
		c.vowelJamo(jamo)
		return true
	}
	return false
}

// Literal finishes the current syllable and appends r untouched.
func (c *Composer) Literal(r rune) {
	c.settle()
	c.done = append(c.done, r)
}

// Backspace drops the most recent jamo, or the last finished rune when
// nothing is in flight.
func (c *Composer) Backspace() {
	switch {
	case c.tail != 0:
		c.tail = 0
	case c.vowel != 0:
		c.vowel = 0
	case c.lead != 0:
		c.lead = 0
	case len(c.done) > 0:
		c.done = c.done[:len(c.done)-1]
	}
}

// Preedit renders everything typed so far, including the in-flight syllable.
func (c *Composer) Preedit() string {
	out := append([]rune(nil), c.done...)
	return string(appendSyllable(out, c.layout, c.lead, c.vowel, c.tail))
}

// Commit finishes composition and returns the full text, resetting state.
func (c *Composer) Commit() string {
	c.settle()
	text := string(c.done)
	c.done = c.done[:0]
	return text
}

func (c *Composer) consonant(jamo rune) {
	switch {
	case c.lead == 0:
		c.lead = jamo
	case c.vowel == 0:
		c.settle()
		c.lead = jamo
	case c.tail == 0:
		c.tail = jamo
	default:
		if combined, ok := c.layout.CombineFinal(c.tail, jamo); ok {
			c.tail = combined
			return
		}
		c.settle()
		c.lead = jamo
	}
}

func (c *Composer) vowelJamo(jamo rune) {
	if c.vowel == 0 {
		if c.lead == 0 {
			c.lead = c.layout.SilentLeading
		}
		c.vowel = jamo
		return
	}
	if c.tail == 0 {
		if combined, ok := c.layout.CombineMedial(c.vowel, jamo); ok {
			c.vowel = combined
			return
		}
		c.settle()
		c.lead = c.layout.SilentLeading
		c.vowel = jamo
		return
	}
	// A vowel after a final steals the final (or its second half) as the
	// next syllable's lead.
	carry := c.tail
	if first, second, ok := c.layout.DecomposeFinal(c.tail); ok {
		c.tail = first
		carry = second
	} else {
		c.tail = 0
	}
	c.settle()
	c.lead = carry
	c.vowel = jamo
}

// settle flushes the in-flight syllable into the finished text.
func (c *Composer) settle() {
	c.done = appendSyllable(c.done, c.layout, c.lead, c.vowel, c.tail)
	c.lead, c.vowel, c.tail = 0, 0, 0
}

func appendSyllable(out []rune, layout keyboard.Layout, lead, vowel, tail rune) []rune {
	if lead == 0 && vowel == 0 && tail == 0 {
		return out
	}
	if lead != 0 && vowel != 0 {
		if composed, ok := hangul.Compose(lead, vowel, tail); ok {
			return append(out, composed)
		}
	}
	for _, jamo := range []rune{lead, vowel, tail} {
		if jamo != 0 {
			out = append(out, jamo)
		}
	}
	return out
}
