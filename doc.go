// Package gsiscript extracts and reinserts the text of MES bytecode scripts.
//
// MES is the compiled script format of a visual-novel engine: a pair of
// offset tables followed by a flat stream of one-byte opcodes with
// fixed-shape operands. Dialogue, speaker names and choices are string
// operands interleaved with control flow.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	gsiscript/           Root package with the StringCodec interface
//	├── mes/             Opcode table, instruction model, parse, encode, validate
//	├── textcodec/       Compressed and plain string decoding, target encoding
//	├── segment/         Opcode pattern matcher and command block segmentation
//	├── disasm/          Disassembly listing, string and translation export, dumps
//	├── rebuild/         Translation file parser and text substitution
//	├── errors/          Structured error types for debugging
//	├── testbed/         End-to-end pipeline tests over generated scripts
//	├── examples/basic/  Minimal library walkthrough
//	└── cmd/gsiscript/   Batch command-line tool and interactive block browser
//
// # Quick Start
//
// Export a translation file:
//
//	script, err := mes.Parse(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	segment.Segment(script)
//	err = disasm.ExportTranslation(w, script, textcodec.New())
//
// Rebuild from an edited file:
//
//	records, err := rebuild.ParseTranslation(r)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := rebuild.Rebuild(script, records, textcodec.New()); err != nil {
//	    log.Fatal(err)
//	}
//	out, err := mes.Encode(script)
//
// # Relocation
//
// Rebuilt text is longer or shorter than the original, so every address
// after it moves. Encode keeps the original address on each instruction,
// assigns new ones while writing, and rewrites all jump operands and the
// text-block table through the old-to-new address map.
//
// # Thread Safety
//
// A Script is not safe for concurrent use. Distinct scripts may be processed
// in parallel; the command-line tool does this per file.
package gsiscript
