package xbouncing

import (
	"crypto/sha1"
	"database/sql"
	"fmt"
	"io"

	"github.com/bodgit/xbouncing/xbm"
	_ "github.com/mattn/go-sqlite3"
)

// Store is a SQLite database of parsed XBM images, keyed by name
type Store struct {
	db *sql.DB
}

// Entry describes one image held in a Store
type Entry struct {
	Name   string
	SHA1   string
	Width  int
	Height int
	Size   int
}

// Open opens or creates the store in file
func Open(file string) (*Store, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS bitmap (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE, sha1 TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, bits BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db: db,
	}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

type logo struct {
	name   string
	sha    string
	bitmap *xbm.Bitmap
}

func parseLogo(name string, r io.Reader, limit int) (*logo, error) {
	h := sha1.New()
	b := new(xbm.Bitmap)
	if _, _, err := xbm.LoadLimit(io.TeeReader(r, h), b, limit); err != nil {
		return nil, err
	}
	return &logo{
		name:   name,
		sha:    fmt.Sprintf("%X", h.Sum(nil)),
		bitmap: b,
	}, nil
}

// Import parses the XBM image read from r and stores it as name, returning
// its row id. Importing identical source under the same name again is a
// no-op, different source replaces the stored image.
func (s *Store) Import(name string, r io.Reader) (int64, error) {
	l, err := parseLogo(name, r, xbm.DefaultLimit)
	if err != nil {
		return 0, err
	}
	defer l.bitmap.Release()

	return s.add(l)
}

func (s *Store) add(l *logo) (int64, error) {
	var id int64
	var sha string
	switch err := s.db.QueryRow("SELECT id, sha1 FROM bitmap WHERE name = ?", l.name).Scan(&id, &sha); err {
	case sql.ErrNoRows:
		result, err := s.db.Exec("INSERT INTO bitmap (name, sha1, width, height, bits) VALUES (?, ?, ?, ?, ?)", l.name, l.sha, l.bitmap.Width, l.bitmap.Height, bits(l.bitmap))
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		if sha == l.sha {
			return id, nil
		}
		if _, err := s.db.Exec("UPDATE bitmap SET sha1 = ?, width = ?, height = ?, bits = ? WHERE id = ?", l.sha, l.bitmap.Width, l.bitmap.Height, bits(l.bitmap), id); err != nil {
			return 0, err
		}
		return id, nil
	default:
		return 0, err
	}
}

// bits never returns nil as the column is NOT NULL
func bits(b *xbm.Bitmap) []byte {
	return append([]byte{}, b.Bits()...)
}

// Find returns the image stored as name, or nil if there is none
func (s *Store) Find(name string) (*xbm.Bitmap, error) {
	var width, height int
	var b []byte
	switch err := s.db.QueryRow("SELECT width, height, bits FROM bitmap WHERE name = ?", name).Scan(&width, &height, &b); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return xbm.NewBitmap(width, height, b)
	default:
		return nil, err
	}
}

// List returns every stored image ordered by name
func (s *Store) List() ([]Entry, error) {
	rows, err := s.db.Query("SELECT name, sha1, width, height, length(bits) FROM bitmap ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.SHA1, &e.Width, &e.Height, &e.Size); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
