package session

import "net/http"

// MemoryStore is a single-visitor in-memory Store for tests. It ignores the
// request entirely, which is fine for httptest clients that act as one
// visitor.
type MemoryStore struct {
	Data    Data
	flashes []Flash
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Get(*http.Request) *Data {
	d := m.Data
	return &d
}

func (m *MemoryStore) Save(_ *http.Request, _ http.ResponseWriter, d *Data) error {
	m.Data = *d
	return nil
}

func (m *MemoryStore) Clear(*http.Request, http.ResponseWriter) error {
	m.Data = Data{}
	m.flashes = nil
	return nil
}

func (m *MemoryStore) AddFlash(_ *http.Request, _ http.ResponseWriter, f Flash) {
	m.flashes = append(m.flashes, f)
}

func (m *MemoryStore) Flashes(*http.Request, http.ResponseWriter) []Flash {
	f := m.flashes
	m.flashes = nil
	return f
}
