// Package disasm renders parsed scripts for people and tools.
//
// Four views are produced:
//
//   - a listing with one line per instruction (Disassemble)
//   - a flat bilingual file of every string operand (ExportStrings)
//   - a bilingual translation file with one record per text block
//     (ExportTranslation), the input of the rebuild package
//   - a structural dump of blocks, sectors and instructions in JSON, YAML
//     or CBOR (NewDump, Dump.Encode)
//
// The translation and dump views need a segmented script.
package disasm
