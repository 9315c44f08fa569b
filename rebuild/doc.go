// Package rebuild puts translated text back into a parsed script.
//
// ParseTranslation reads the file written by disasm.ExportTranslation.
// Rebuild swaps every text sector for instructions encoding the record's
// text in the target encoding. Relocation happens when the result is
// written with mes.Encode:
//
//	records, err := rebuild.ParseTranslation(f)
//	if err != nil {
//	    return err
//	}
//	if err := rebuild.Rebuild(script, records, codec); err != nil {
//	    return err
//	}
//	out, err := mes.Encode(script)
//
// Rebuilt text is not compressed, so decoding a rebuilt file with the
// source codec does not give back the translated text.
package rebuild
