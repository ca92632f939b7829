package locdb

import (
	"encoding/binary"
	"fmt"
	"testing"
)

type row struct {
	id    int32
	order int32
	text  string
}

// buildFile encodes rows the way the game ships them. Header bytes between
// the magic and the index length are filled with a recognisable pattern.
func buildFile(tb testing.TB, rows []row) []byte {
	tb.Helper()

	buf := []byte(Magic)
	for len(buf) < IndexLengthOffset {
		buf = append(buf, byte(len(buf)))
	}
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(rows)*indexEntrySize))
	buf = append(buf, 0xAA, 0xAA, 0xAA, 0xAA, 0xBB, 0xBB, 0xBB, 0xBB)

	for _, r := range rows {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(r.id))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(r.order))
	}

	var block []byte
	for _, r := range rows {
		if r.text == "" {
			buf = binary.LittleEndian.AppendUint32(buf, 0)
			continue
		}
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(r.text)+1))
		block = append(block, r.text...)
		block = append(block, 0)
	}
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(block)))
	return append(buf, block...)
}

// fullSizeRows returns as many rows as the shipped file has, so the length
// table lands exactly on LengthTableOffset.
func fullSizeRows() []row {
	n := (LengthTableOffset - IndexTableOffset) / indexEntrySize
	rows := make([]row, n)
	for i := range rows {
		rows[i] = row{id: int32(1000 + 3*i), order: int32(i)}
		switch {
		case i%7 == 0:
			rows[i].text = ""
		case i%5 == 0:
			rows[i].text = fmt.Sprintf("Épée de feu n°%d", i)
		default:
			rows[i].text = fmt.Sprintf("line %d", i)
		}
	}
	return rows
}
