package document

import (
	"os"
	"sort"

	"go.trai.ch/zerr"

	"wgslsp/internal/source"
)

var (
	// ErrNotFound is returned when a location has no document and no file.
	ErrNotFound = zerr.New("document not found")
	// ErrNotClientOwned is returned when an edit targets a document the editor never opened.
	ErrNotClientOwned = zerr.New("document is not owned by the client")
)

// ReadFunc loads the bytes behind a file path.
type ReadFunc func(path string) ([]byte, error)

// Store is the text store: every known document keyed by location. It is
// not safe for concurrent use; the server mutates it from one goroutine.
type Store struct {
	docs map[source.Location]*Document
	read ReadFunc
}

// NewStore returns an empty store reading files with os.ReadFile.
func NewStore() *Store {
	return NewStoreWithReader(os.ReadFile)
}

// NewStoreWithReader returns an empty store that loads files through read.
func NewStoreWithReader(read ReadFunc) *Store {
	if read == nil {
		read = os.ReadFile
	}
	return &Store{docs: make(map[source.Location]*Document), read: read}
}

// Get returns the document for loc.
func (s *Store) Get(loc source.Location) (*Document, bool) {
	doc, ok := s.docs[loc]
	return doc, ok
}

// Text returns the current text of loc.
func (s *Store) Text(loc source.Location) (string, bool) {
	doc, ok := s.docs[loc]
	if !ok {
		return "", false
	}
	return doc.Text(), true
}

// Len returns the number of known documents.
func (s *Store) Len() int { return len(s.docs) }

// Locations returns every known location in sorted order.
func (s *Store) Locations() []source.Location {
	out := make([]source.Location, 0, len(s.docs))
	for loc := range s.docs {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Open registers text sent by the editor. The document becomes client-owned
// even if it was previously loaded from disk.
func (s *Store) Open(loc source.Location, text string, version int) *Document {
	doc := newClientDocument(loc, text, version)
	s.docs[loc] = doc
	return doc
}

// Change applies editor edits to a client-owned document.
func (s *Store) Change(loc source.Location, version int, changes []Change, enc source.Encoding) error {
	doc, ok := s.docs[loc]
	if !ok {
		return zerr.With(zerr.Wrap(ErrNotFound, "change"), "location", loc.String())
	}
	if doc.owner != ClientOwned {
		return zerr.With(zerr.Wrap(ErrNotClientOwned, "change"), "location", loc.String())
	}
	doc.apply(changes, enc)
	doc.Version = version
	return nil
}

// Close hands a document back to the server. The file may still be imported
// by other modules, so it stays known: the disk content is reloaded, and if
// that fails the last editor text is kept.
func (s *Store) Close(loc source.Location) error {
	doc, ok := s.docs[loc]
	if !ok {
		return zerr.With(zerr.Wrap(ErrNotFound, "close"), "location", loc.String())
	}
	text := doc.Text()
	if data, err := s.load(loc); err == nil {
		text = source.Decode(data)
	}
	doc.toServerOwned(text)
	return nil
}

// ServerOpen loads loc from disk as a server-owned document. Documents the
// editor currently owns are left untouched.
func (s *Store) ServerOpen(loc source.Location) (*Document, error) {
	if doc, ok := s.docs[loc]; ok && doc.owner == ClientOwned {
		return doc, nil
	}
	data, err := s.load(loc)
	if err != nil {
		return nil, err
	}
	doc := newServerDocument(loc, source.Decode(data))
	s.docs[loc] = doc
	return doc, nil
}

// ServerText registers text already read from disk as a server-owned
// document. Documents the editor owns are left untouched.
func (s *Store) ServerText(loc source.Location, text string) *Document {
	if doc, ok := s.docs[loc]; ok && doc.owner == ClientOwned {
		return doc
	}
	doc := newServerDocument(loc, text)
	s.docs[loc] = doc
	return doc
}

// EnsureDocument makes sure loc is known, loading it from disk if needed.
func (s *Store) EnsureDocument(loc source.Location) (*Document, error) {
	if doc, ok := s.docs[loc]; ok {
		return doc, nil
	}
	return s.ServerOpen(loc)
}

// Reload re-reads a server-owned document. It reports whether the text
// changed. Client-owned documents are never reloaded.
func (s *Store) Reload(loc source.Location) (bool, error) {
	doc, ok := s.docs[loc]
	if ok && doc.owner == ClientOwned {
		return false, nil
	}
	data, err := s.load(loc)
	if err != nil {
		return false, err
	}
	text := source.Decode(data)
	if ok && doc.text == text {
		return false, nil
	}
	s.docs[loc] = newServerDocument(loc, text)
	return true, nil
}

// Remove forgets a server-owned document whose file disappeared. It reports
// whether anything was removed.
func (s *Store) Remove(loc source.Location) bool {
	doc, ok := s.docs[loc]
	if !ok || doc.owner == ClientOwned {
		return false
	}
	delete(s.docs, loc)
	return true
}

func (s *Store) load(loc source.Location) ([]byte, error) {
	path := loc.Path()
	if path == "" {
		return nil, zerr.With(zerr.Wrap(ErrNotFound, "load"), "location", loc.String())
	}
	data, err := s.read(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "read document"), "path", path)
	}
	return data, nil
}
