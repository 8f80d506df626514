package session

import (
	"encoding/gob"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
)

const cookieName = "tienda-session"

// Register types for gob encoding (used by gorilla cookie sessions)
func init() {
	gob.Register(Data{})
	gob.Register(Flash{})
}

// CookieStore backs Store with a gorilla cookie session.
type CookieStore struct {
	store *sessions.CookieStore
}

type CookieOptions struct {
	Key    []byte
	Secure bool
	Domain string
}

func NewCookieStore(opts CookieOptions) *CookieStore {
	cs := sessions.NewCookieStore(opts.Key)
	cs.Options.HttpOnly = true
	cs.Options.Secure = opts.Secure
	cs.Options.SameSite = http.SameSiteLaxMode
	cs.Options.Path = "/"
	if opts.Domain != "" {
		cs.Options.Domain = opts.Domain
	}
	return &CookieStore{store: cs}
}

func (c *CookieStore) session(r *http.Request) *sessions.Session {
	// Get only errors on a corrupt cookie; treat that as a fresh session.
	s, err := c.store.Get(r, cookieName)
	if err != nil {
		slog.Debug("Discarding undecodable session cookie", "error", err)
	}
	return s
}

// save writes the session cookie, replacing any session cookie an earlier
// write in the same request already queued. Handlers may touch the session
// more than once per request (cart refresh, then flashes) and the browser
// should only ever see one Set-Cookie for it.
func (c *CookieStore) save(s *sessions.Session, r *http.Request, w http.ResponseWriter) error {
	header := w.Header()
	if existing := header.Values("Set-Cookie"); len(existing) > 0 {
		header.Del("Set-Cookie")
		for _, v := range existing {
			if !strings.HasPrefix(v, cookieName+"=") {
				header.Add("Set-Cookie", v)
			}
		}
	}
	return s.Save(r, w)
}

func (c *CookieStore) Get(r *http.Request) *Data {
	s := c.session(r)
	if v, ok := s.Values["data"].(Data); ok {
		return &v
	}
	return &Data{}
}

func (c *CookieStore) Save(r *http.Request, w http.ResponseWriter, d *Data) error {
	s := c.session(r)
	s.Values["data"] = *d
	return c.save(s, r, w)
}

func (c *CookieStore) Clear(r *http.Request, w http.ResponseWriter) error {
	s := c.session(r)
	for k := range s.Values {
		delete(s.Values, k)
	}
	s.Options.MaxAge = -1
	return c.save(s, r, w)
}

func (c *CookieStore) AddFlash(r *http.Request, w http.ResponseWriter, f Flash) {
	s := c.session(r)
	s.AddFlash(f)
	if err := c.save(s, r, w); err != nil {
		slog.Error("Failed to save session flash", "error", err)
	}
}

func (c *CookieStore) Flashes(r *http.Request, w http.ResponseWriter) []Flash {
	s := c.session(r)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	var flashes []Flash
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			flashes = append(flashes, f)
		}
	}
	// Flashes() consumed the messages; persist the drained session.
	if err := c.save(s, r, w); err != nil {
		slog.Error("Failed to save session after draining flashes", "error", err)
	}
	return flashes
}
