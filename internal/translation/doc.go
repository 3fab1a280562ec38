// Package translation produces the translated overlay of game and company
// metadata through a chat completion model.
//
// The entity is reduced to its translatable text (names, storyline,
// summary, description) before prompting; ids are kept so the answer can be
// mapped back onto nested entities.
package translation
