/*
Package xbouncing is a library for maintaining the logos used by the bouncing
logo animation. Logos are XBM images kept in a SQLite store, each optionally
paired with a mask of the same size used to shape the window.
*/
package xbouncing

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/xbouncing/xbm"
)

const (
	maskSuffix = "_mask"
	extension  = ".xbm"
)

var errMaskSize = errors.New("mask dimensions do not match the logo")

type Library struct {
	store  *Store
	logger *log.Logger
	limit  int
}

func New(store *Store, logger *log.Logger, limit int) *Library {
	return &Library{
		store:  store,
		logger: logger,
		limit:  limit,
	}
}

func logoName(file string) string {
	return strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
}

func (l *Library) parseFile(file string) (*logo, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lg, err := parseLogo(logoName(file), f, l.limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return lg, nil
}

// Import adds a single XBM file to the store, named after the file
func (l *Library) Import(file string) error {
	lg, err := l.parseFile(file)
	if err != nil {
		return err
	}
	defer lg.bitmap.Release()

	if _, err := l.store.add(lg); err != nil {
		return err
	}
	l.logger.Printf("Imported \"%s\" as \"%s\" (%dx%d)\n", file, lg.name, lg.bitmap.Width, lg.bitmap.Height)

	return nil
}

// Logo returns the named logo and its mask. If no mask is stored one with
// every pixel set is returned.
func (l *Library) Logo(name string) (*xbm.Bitmap, *xbm.Bitmap, error) {
	b, err := l.store.Find(name)
	if err != nil {
		return nil, nil, err
	}
	if b == nil {
		return nil, nil, fmt.Errorf("no logo named \"%s\"", name)
	}

	mask, err := l.store.Find(name + maskSuffix)
	if err != nil {
		return nil, nil, err
	}
	if mask == nil {
		l.logger.Printf("No mask for \"%s\", using an opaque one\n", name)
		full := make([]byte, b.Stride()*b.Height)
		for i := range full {
			full[i] = 0xff
		}
		if mask, err = xbm.NewBitmap(b.Width, b.Height, full); err != nil {
			return nil, nil, err
		}
	}

	if mask.Width != b.Width || mask.Height != b.Height {
		return nil, nil, errMaskSize
	}

	return b, mask, nil
}
