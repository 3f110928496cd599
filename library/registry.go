// registry.go - Per-movie character registry: character-id -> character
// variant, export-name -> character-id, and the class-object -> (movie,
// character-id) reverse map AVM2 symbol-linking needs, grounded in Ruffle's
// core/src/library.rs MovieLibrary/CharacterId tables, re-expressed
// against this module's own display/value/timeline types the way the
// prior debug_cpu_*.go files each re-express one shared register
// model per CPU.
package library

import (
	"flashcore/display"
	"flashcore/value"
)

// CharacterKind discriminates the asset variants a movie's library can
// hold.
type CharacterKind uint8

const (
	CharacterShape CharacterKind = iota
	CharacterBitmap
	CharacterSound
	CharacterFont
	CharacterMovieClip
	CharacterButton
)

// Character is one library entry: the decoded asset plus enough metadata
// to instantiate a DisplayObject from it. The concrete asset payload
// (bitmap pixels, sound samples, glyph outlines) is produced by the SWF
// parser collaborator and stored here as an opaque handle;
// this package never interprets the bytes itself.
type Character struct {
	ID int
	Kind CharacterKind
	Handle any // e.g. *BitmapHandle, *SoundHandle, *MovieClipTemplate

	// LinkedClass is non-nil when this character is symbol-linked to an
	// AVM2 class: placing it on the timeline
	// constructs that class instead of the bare built-in DisplayObject.
	LinkedClass *value.Class
}

// MovieClipTemplate is the authored timeline data a MovieClip character
// carries: its frame count and frame tags, shared by every instance
// placed from this character.
type MovieClipTemplate struct {
	TotalFrames int
	FrameLabels map[string]int
	// Frames is opaque here; the timeline package owns the FrameTag type
	// and builds its own Clip from this template plus the registry.
	Frames any
}

// Registry holds one movie's characters, export names, and the reverse
// class-link map. A Player may own several; nothing here is process-global,
// matching "no ambient singletons".
type Registry struct {
	characters map[int]*Character
	exports map[string]int // export name -> character id

	// classLink reverses LinkedClass -> (characterID), used when AVM2
	// code does `new LinkedSymbol()` directly rather than via timeline
	// placement.
	classLink map[*value.Class]int

	// instanceNodes records every display.Node passed to TrackInstance for
	// a given character id, so callers (e.g. the debug inspector) can
	// enumerate instances of a symbol. It holds ordinary pointers and never
	// removes an entry, so a tracked node stays reachable as long as the
	// registry does.
	instanceNodes map[int][]*display.Node
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
 characters: make(map[int]*Character),
 exports: make(map[string]int),
 classLink: make(map[*value.Class]int),
 instanceNodes: make(map[int][]*display.Node),
	}
}

// Define registers a character, replacing any prior definition at the
// same id.
func (r *Registry) Define(c *Character) {
	r.characters[c.ID] = c
	if c.LinkedClass != nil {
 r.classLink[c.LinkedClass] = c.ID
	}
}

// Character looks up a character by id.
func (r *Registry) Character(id int) (*Character, bool) {
	c, ok := r.characters[id]
	return c, ok
}

// Export records an export-name -> character-id mapping (the SWF
// ExportAssets tag).
func (r *Registry) Export(name string, id int) { r.exports[name] = id }

// Resolve looks up a character by its export name.
func (r *Registry) Resolve(name string) (*Character, bool) {
	id, ok := r.exports[name]
	if !ok {
 return nil, false
	}
	return r.Character(id)
}

// CharacterForClass answers the reverse-map query AVM2's `new Foo()`
// construction path needs when Foo is symbol-linked: given the class
// object, find the character (and therefore the authored timeline/asset)
// it is linked to.
func (r *Registry) CharacterForClass(c *value.Class) (*Character, bool) {
	id, ok := r.classLink[c]
	if !ok {
 return nil, false
	}
	return r.Character(id)
}

// TrackInstance records that node was constructed from character id,
// for inspector enumeration.
func (r *Registry) TrackInstance(id int, node *display.Node) {
	r.instanceNodes[id] = append(r.instanceNodes[id], node)
}

// Instances returns every node tracked against character id.
func (r *Registry) Instances(id int) []*display.Node {
	return r.instanceNodes[id]
}
