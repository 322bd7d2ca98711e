// Package program loads machine code images and their symbol tables in the
// formats the lc3as toolchain emits.
package program

import (
	"bufio"
	"io"
	"iter"
	"os"
	"strconv"
	"strings"

	"github.com/JackCrumpLeys/textbook210-emulator/machine"
)

// Image is one loadable machine code image: a contiguous block of words
// placed at Origin. Symbols are display-only.
type Image struct {
	Origin  machine.Word
	Words   []machine.Word
	Symbols map[string]machine.Word
}

// Walk iterates over the image as address/word pairs. Addresses wrap at the
// top of the space, as a loader would wrap.
func (img *Image) Walk() iter.Seq2[machine.Word, machine.Word] {
	return func(yield func(machine.Word, machine.Word) bool) {
		for i, w := range img.Words {
			if !yield(img.Origin+machine.Word(i), w) {
				return
			}
		}
	}
}

// Read parses an object image: big-endian 16-bit words, the first of which
// is the load origin. An image with no words after the origin is an error,
// as is a trailing odd byte.
func Read(r io.Reader) (img *Image, err error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return
	}
	if len(raw)%2 != 0 {
		err = ErrImageTruncated
		return
	}
	if len(raw) < 4 {
		err = ErrImageEmpty
		return
	}

	words := make([]machine.Word, 0, len(raw)/2-1)
	for at := 2; at < len(raw); at += 2 {
		words = append(words, machine.Word(raw[at])<<8|machine.Word(raw[at+1]))
	}

	img = &Image{
		Origin:  machine.Word(raw[0])<<8 | machine.Word(raw[1]),
		Words:   words,
		Symbols: map[string]machine.Word{},
	}
	return
}

// ReadFile reads an object image from a file.
func ReadFile(name string) (img *Image, err error) {
	fp, err := os.Open(name)
	if err != nil {
		return
	}
	defer fp.Close()

	return Read(fp)
}

// ReadSymbols parses an lc3as symbol table: comment lines whose last field
// is a hex page address and whose first is the symbol name. Header and
// ruler lines are skipped; anything unparseable is ignored rather than an
// error, since symbols only serve display.
func ReadSymbols(r io.Reader) (symbols map[string]machine.Word, err error) {
	symbols = map[string]machine.Word{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		line = strings.TrimPrefix(line, "//")

		fields := strings.Fields(line)
		if len(fields) != 2 || strings.HasPrefix(fields[0], "-") {
			continue
		}
		addr, perr := strconv.ParseUint(fields[1], 16, 16)
		if perr != nil {
			continue
		}
		symbols[fields[0]] = machine.Word(addr)
	}
	err = scanner.Err()
	return
}

// ReadSymbolsFile reads a symbol table from a file.
func ReadSymbolsFile(name string) (symbols map[string]machine.Word, err error) {
	fp, err := os.Open(name)
	if err != nil {
		return
	}
	defer fp.Close()

	return ReadSymbols(fp)
}
