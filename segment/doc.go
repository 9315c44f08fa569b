// Package segment splits a script's instruction stream into command blocks.
//
// Separator patterns mark where a block starts. Each block is then
// classified by the first template that matches anywhere inside it; the
// template's captured opcodes cut the block into sectors, some of which
// carry text (dialogue, speaker name, choice). Blocks matching no template
// form a single non-text sector.
//
// Patterns are matched over opcodes, one element per instruction, so a
// match can never start inside an operand.
package segment
