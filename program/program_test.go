package program

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JackCrumpLeys/textbook210-emulator/machine"
)

func TestRead(t *testing.T) {
	assert := assert.New(t)

	obj := []byte{0x30, 0x00, 0x12, 0x34, 0xAB, 0xCD}
	img, err := Read(bytes.NewReader(obj))
	assert.NoError(err)
	assert.Equal(machine.Word(0x3000), img.Origin)
	assert.Equal([]machine.Word{0x1234, 0xABCD}, img.Words)
}

func TestWalk(t *testing.T) {
	assert := assert.New(t)

	img := &Image{Origin: 0x3000, Words: []machine.Word{0xAAAA, 0xBBBB}}
	got := map[machine.Word]machine.Word{}
	for addr, w := range img.Walk() {
		got[addr] = w
	}
	assert.Equal(map[machine.Word]machine.Word{
		0x3000: 0xAAAA,
		0x3001: 0xBBBB,
	}, got)
}

func TestReadRejects(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		obj  []byte
		err  error
	}){
		{"empty", []byte{}, ErrImageEmpty},
		{"origin_only", []byte{0x30, 0x00}, ErrImageEmpty},
		{"odd_byte", []byte{0x30, 0x00, 0x12}, ErrImageTruncated},
	}

	for _, entry := range table {
		_, err := Read(bytes.NewReader(entry.obj))
		assert.ErrorIs(err, entry.err, entry.name)
	}
}

func TestReadSymbols(t *testing.T) {
	assert := assert.New(t)

	sym := strings.Join([]string{
		"// Symbol table",
		"// scope level 0:",
		"//	Symbol Name       Page Address",
		"//	-----------       ------------",
		"//	START             3000",
		"//	LOOP              3002",
		"//	DONE              300A",
		"",
	}, "\n")

	symbols, err := ReadSymbols(strings.NewReader(sym))
	assert.NoError(err)
	assert.Equal(map[string]machine.Word{
		"START": 0x3000,
		"LOOP":  0x3002,
		"DONE":  0x300A,
	}, symbols)
}

func TestReadSymbolsTolerant(t *testing.T) {
	assert := assert.New(t)

	symbols, err := ReadSymbols(strings.NewReader("not a symbol table\n"))
	assert.NoError(err)
	assert.Empty(symbols)
}
