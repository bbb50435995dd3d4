// Package chunk reads and writes chunk files.
//
// A Reader validates the header and loads the offset index once, then serves
// concurrent GetChunk calls. Each call issues one positioned read for the
// chunk's byte range and decodes every stream in file order. Nothing is
// cached between calls.
//
// A Writer produces files in the same layout and is mostly used to build
// datasets and test fixtures.
package chunk
