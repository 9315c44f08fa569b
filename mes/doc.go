// Package mes provides parsing and encoding of MES bytecode scripts.
//
// A MES file is a small header followed by a flat code section:
//
//	u32 table0_count
//	u32 table1_count
//	u32 table0[table0_count]   // addresses of text-block starts (MESJ)
//	u32 table1[table1_count]   // reserved, always written empty
//	code                       // instructions until end of file
//
// All table values are little-endian. Four-byte instruction operands are
// stored big-endian, so a jump's operand reads "byte-swapped" compared to a
// table entry even though both name an offset into the code section.
//
// # Parsing
//
//	data, _ := os.ReadFile("SCENE01.MES")
//	script, err := mes.Parse(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Parse fails on any byte outside the instruction set and on any MESJ
// instruction whose address is missing from table0.
//
// # Blocks and sectors
//
// Command blocks are assigned by the segment package. Sectors do not copy
// instructions; they hold [Start, End) ranges into Script.Instructions, so a
// rebuild can replace the arena and the ranges together.
//
// # Encoding
//
//	out, err := mes.Encode(script)
//
// Encode writes every instruction, records its new address, and rewrites
// the target of every jump (JZ, JMP, JX2, SELJ) from the original address to
// the new one. A jump whose target is no longer the start of an instruction
// fails with a missing_jump_target error.
package mes
