package feedback

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tdmenu/internal/model"
	"tdmenu/internal/tokens"
)

// SaveState tracks the attachment file of a menu session.
type SaveState int

const (
	Unsaved SaveState = iota
	Saving
	Saved
	SaveFailed
)

func (s SaveState) String() string {
	switch s {
	case Unsaved:
		return "unsaved"
	case Saving:
		return "saving"
	case Saved:
		return "saved"
	case SaveFailed:
		return "save failed"
	default:
		return "unknown"
	}
}

// Source hands out the current transcript snapshot. The menu never modifies it.
type Source interface {
	Transcript() model.Transcript
}

// StaticSource is a fixed transcript.
type StaticSource model.Transcript

// Transcript returns s.
func (s StaticSource) Transcript() model.Transcript { return model.Transcript(s) }

// SourceFunc adapts a function to Source.
type SourceFunc func() model.Transcript

// Transcript calls f.
func (f SourceFunc) Transcript() model.Transcript { return f() }

// SaveEvent describes a completed save attempt.
type SaveEvent struct {
	SessionID string
	Path      string
	Sentiment model.Sentiment
	State     SaveState
	Entries   int
	Tokens    int
	Err       error
	At        time.Time
}

// Option configures a Menu.
type Option func(*Menu)

// WithDir places the attachment file in dir instead of the system temp directory.
func WithDir(dir string) Option {
	return func(m *Menu) { m.dir = dir }
}

// WithPersister replaces the filesystem writer.
func WithPersister(p Persister) Option {
	return func(m *Menu) { m.persister = p }
}

// WithLogger sets the logger save failures are reported to. The default discards.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Menu) { m.logger = l }
}

// WithObserver registers fn to be called after every save attempt that is
// still current when it completes.
func WithObserver(fn func(SaveEvent)) Option {
	return func(m *Menu) { m.observer = fn }
}

// WithAsyncWrites moves writes to a single background writer. Pending writes
// coalesce so only the latest sentiment is written; call Flush to wait.
func WithAsyncWrites() Option {
	return func(m *Menu) { m.queue = newQueue() }
}

// Menu is the state behind a transcript debug menu: the sentiment the user
// picked and whether the feedback attachment for it is on disk. One Menu
// lives for one presentation of the menu and owns one attachment path.
//
// Save failures never surface as errors. They are logged and leave the menu
// in SaveFailed, which disables export until the next save succeeds.
type Menu struct {
	source    Source
	persister Persister
	logger    zerolog.Logger
	observer  func(SaveEvent)
	queue     *queue

	id   string
	dir  string
	path string

	// writeMu serializes writes to path in synchronous mode.
	writeMu sync.Mutex

	mu         sync.Mutex
	sentiment  model.Sentiment
	state      SaveState
	generation uint64
	closed     bool
}

// NewMenu starts a menu session over src. The attachment path is chosen here,
// as <dir>/<uuid>.json, and reused by every save of the session.
func NewMenu(src Source, opts ...Option) *Menu {
	m := &Menu{
		source:    src,
		persister: FileWriter{},
		logger:    zerolog.Nop(),
		id:        uuid.NewString(),
		dir:       os.TempDir(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.source == nil {
		m.source = StaticSource(nil)
	}
	m.path = filepath.Join(m.dir, m.id+".json")
	m.logger = m.logger.With().Str("session", m.id).Logger()
	return m
}

// SessionID identifies the menu session; it names the attachment file.
func (m *Menu) SessionID() string { return m.id }

// Path is the attachment location, whether or not it has been written.
func (m *Menu) Path() string { return m.path }

// Open saves the attachment for the current sentiment. Call it when the menu appears.
func (m *Menu) Open() SaveState {
	m.mu.Lock()
	s := m.sentiment
	m.mu.Unlock()
	return m.save(s)
}

// ToggleSentiment applies a press of the pressed sentiment button and saves
// the attachment for the resulting sentiment. A value that is not a button
// is ignored: nothing changes and nothing is saved.
func (m *Menu) ToggleSentiment(pressed model.Sentiment) SaveState {
	if !IsButton(pressed) {
		return m.State()
	}
	m.mu.Lock()
	next := Toggle(m.sentiment, pressed)
	m.sentiment = next
	m.mu.Unlock()
	return m.save(next)
}

// Sentiment is the current selection.
func (m *Menu) Sentiment() model.Sentiment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sentiment
}

// State is the save state of the current attachment.
func (m *Menu) State() SaveState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Saved reports whether the attachment for the current sentiment is on disk.
func (m *Menu) Saved() bool { return m.State() == Saved }

// CanExport reports whether the share action should be enabled.
func (m *Menu) CanExport() bool { return m.Saved() }

// ExportPath returns the attachment path when it is safe to share.
func (m *Menu) ExportPath() (string, bool) {
	if !m.Saved() {
		return "", false
	}
	return m.path, true
}

// Flush waits for queued writes. It returns immediately in synchronous mode.
func (m *Menu) Flush() {
	if m.queue != nil {
		m.queue.flush()
	}
}

// Close ends the session: queued writes finish, then the state is discarded.
// The attachment file stays where it is.
func (m *Menu) Close() {
	m.Flush()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.generation++
	m.state = Unsaved
	m.sentiment = model.SentimentNone
}

// save rebuilds the attachment from the current snapshot and writes it.
func (m *Menu) save(s model.Sentiment) SaveState {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return Unsaved
	}
	m.generation++
	gen := m.generation
	m.state = Saving
	m.mu.Unlock()

	snapshot := m.source.Transcript()
	ev := SaveEvent{
		SessionID: m.id,
		Path:      m.path,
		Sentiment: s,
		Entries:   len(snapshot),
		Tokens:    tokens.Total(snapshot),
	}

	blob, err := BuildAttachment(snapshot, s)
	if err != nil {
		return m.finish(gen, ev, err)
	}

	if m.queue != nil {
		m.queue.submit(func() { m.write(gen, ev, blob) })
		return Saving
	}
	return m.write(gen, ev, blob)
}

// write persists blob unless a newer save has started since it was built.
func (m *Menu) write(gen uint64, ev SaveEvent, blob []byte) SaveState {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	if !m.current(gen) {
		return m.State()
	}
	return m.finish(gen, ev, m.persister.Persist(blob, m.path))
}

func (m *Menu) current(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return gen == m.generation
}

// finish records the outcome of save generation gen. Outcomes of superseded
// generations are dropped.
func (m *Menu) finish(gen uint64, ev SaveEvent, err error) SaveState {
	m.mu.Lock()
	if gen != m.generation {
		state := m.state
		m.mu.Unlock()
		return state
	}
	if err != nil {
		m.state = SaveFailed
	} else {
		m.state = Saved
	}
	state := m.state
	m.mu.Unlock()

	if err != nil {
		m.logger.Error().Err(err).Str("path", m.path).Msg("Failed to save feedback attachment")
	} else {
		m.logger.Debug().Str("path", m.path).Str("sentiment", ev.Sentiment.String()).Msg("Saved feedback attachment")
	}

	if m.observer != nil {
		ev.State = state
		ev.Err = err
		ev.At = time.Now().UTC()
		m.observer(ev)
	}
	return state
}
