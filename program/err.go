package program

import (
	"errors"

	"github.com/JackCrumpLeys/textbook210-emulator/translate"
)

var f = translate.From

var (
	ErrImageEmpty     = errors.New(f("image empty"))
	ErrImageTruncated = errors.New(f("image truncated"))
)
