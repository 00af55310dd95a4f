// Package deck models the working set of audio/text flashcard units.
// The deck owns the declared extra-field names; adding or removing a
// field mutates every card's extra values at the same index, so the
// "same width everywhere" invariant holds by construction instead of by
// per-card bookkeeping.
package deck

import (
	"errors"
	"fmt"

	"github.com/birkheadc/transcript-chopper/internal/audio"
)

// ErrFieldIndex is returned for an out-of-range extra-field index.
var ErrFieldIndex = errors.New("deck: extra field index out of range")

// Card pairs one text stub with one standalone audio blob plus the
// deck's extra-field values in declaration order.
type Card struct {
	Text  string
	Audio []byte
	Extra []string
}

// Deck is a transient working set: the source it was cut from, the
// declared extra-field names and the cards in creation order. It is
// built for export and discarded after archive generation.
type Deck struct {
	Source     audio.Source
	fieldNames []string
	cards      []Card
}

// New creates an empty deck for a source.
func New(src audio.Source) *Deck {
	return &Deck{Source: src}
}

// FieldNames returns a copy of the declared extra-field names.
func (d *Deck) FieldNames() []string {
	out := make([]string, len(d.fieldNames))
	copy(out, d.fieldNames)
	return out
}

// Cards returns the cards in creation order. The slice is shared; the
// caller must not grow or reorder it.
func (d *Deck) Cards() []Card {
	return d.cards
}

// Len returns the number of cards.
func (d *Deck) Len() int {
	return len(d.cards)
}

// AddCard appends a card, padding or truncating its extra values to the
// declared field width.
func (d *Deck) AddCard(text string, audioBlob []byte, extra ...string) {
	values := make([]string, len(d.fieldNames))
	copy(values, extra)
	d.cards = append(d.cards, Card{
		Text:  text,
		Audio: audioBlob,
		Extra: values,
	})
}

// RemoveCard deletes the card at index i. Out-of-range indexes are a
// no-op.
func (d *Deck) RemoveCard(i int) {
	if i < 0 || i >= len(d.cards) {
		return
	}
	d.cards = append(d.cards[:i], d.cards[i+1:]...)
}

// AddField declares a new extra field at the end of the field list and
// inserts an empty value at the same index in every card.
func (d *Deck) AddField(name string) {
	d.fieldNames = append(d.fieldNames, name)
	for i := range d.cards {
		d.cards[i].Extra = append(d.cards[i].Extra, "")
	}
}

// RemoveField drops the extra field at index i from the declaration and
// from every card in lockstep.
func (d *Deck) RemoveField(i int) error {
	if i < 0 || i >= len(d.fieldNames) {
		return fmt.Errorf("%w: %d of %d", ErrFieldIndex, i, len(d.fieldNames))
	}
	d.fieldNames = append(d.fieldNames[:i], d.fieldNames[i+1:]...)
	for c := range d.cards {
		d.cards[c].Extra = append(d.cards[c].Extra[:i], d.cards[c].Extra[i+1:]...)
	}
	return nil
}

// SetExtra sets one card's value for the extra field at index fi.
func (d *Deck) SetExtra(card, fi int, value string) error {
	if card < 0 || card >= len(d.cards) {
		return fmt.Errorf("%w: card %d of %d", ErrFieldIndex, card, len(d.cards))
	}
	if fi < 0 || fi >= len(d.fieldNames) {
		return fmt.Errorf("%w: %d of %d", ErrFieldIndex, fi, len(d.fieldNames))
	}
	d.cards[card].Extra[fi] = value
	return nil
}
