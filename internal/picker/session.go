// Package picker runs a country picker session: it builds the offered list,
// answers debounced searches and tracks the selection, publishing every
// change as an Event.
//
// All list computation and selection bookkeeping happens on one worker
// goroutine per session, so the events of a session are totally ordered.
package picker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hightemp/countrykit/internal/config"
	"github.com/hightemp/countrykit/internal/countries"
	"github.com/hightemp/countrykit/internal/inclusion"
	"github.com/hightemp/countrykit/internal/search"
	"github.com/hightemp/countrykit/internal/sorting"
)

// ErrSelectionLimit is reported when a selection would exceed MaxSelection.
var ErrSelectionLimit = errors.New("selection limit reached")

// Config describes what a session offers.
type Config struct {
	Rules  inclusion.Rules
	Sort   sorting.Policy
	Search search.Policy

	// Debounce is the quiet period before a search runs. Zero means
	// config.DefaultDebounce; a negative value disables debouncing.
	Debounce time.Duration

	ShowWorldwide bool
	ShowUnknown   bool

	AllowsMultipleSelection bool
	// MaxSelection caps a multiple selection. Zero means no cap.
	MaxSelection int
}

// SectionKind identifies a block of the list.
type SectionKind int

const (
	// SectionSpecial holds the Worldwide and Unknown entries.
	SectionSpecial SectionKind = iota
	// SectionCountries holds the catalog countries.
	SectionCountries
)

func (k SectionKind) String() string {
	switch k {
	case SectionSpecial:
		return "special"
	case SectionCountries:
		return "countries"
	default:
		panic(fmt.Sprintf("picker: invalid section %d", int(k)))
	}
}

// Section is an ordered block of results.
type Section struct {
	Kind    SectionKind
	Results []search.Result
}

// EventKind identifies an Event.
type EventKind int

const (
	Loaded EventKind = iota
	Searched
	Selected
	Deselected
	SelectionRejected
)

func (k EventKind) String() string {
	switch k {
	case Loaded:
		return "loaded"
	case Searched:
		return "searched"
	case Selected:
		return "selected"
	case Deselected:
		return "deselected"
	case SelectionRejected:
		return "selection_rejected"
	default:
		panic(fmt.Sprintf("picker: invalid event %d", int(k)))
	}
}

// Event is published on the session channel.
type Event struct {
	Kind    EventKind
	Session string

	// Set by Loaded and Searched.
	Query      string
	SearchMode bool
	Sections   []Section

	// Set by selection events.
	Country   countries.Country
	Selection []countries.Country
	Err       error
}

// Session is one picker. Start it before calling the other methods.
type Session struct {
	id      string
	catalog *countries.Catalog
	cfg     Config
	engine  *search.Engine
	logger  *slog.Logger

	jobs    chan func(context.Context)
	events  chan Event
	done    chan struct{}
	stopped chan struct{}
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu           sync.Mutex
	started      bool
	closed       bool
	timer        *time.Timer
	cancelSearch context.CancelFunc
	selection    []countries.Country

	// Owned by the worker.
	loaded   bool
	cache    *search.Cache
	specials []countries.Country
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithEngine sets the search engine. The default searches in the catalog
// language.
func WithEngine(e *search.Engine) Option {
	return func(s *Session) { s.engine = e }
}

// New creates a session over catalog. A zero cfg.Rules.Options offers
// inclusion.Default.
func New(catalog *countries.Catalog, cfg Config, opts ...Option) *Session {
	if cfg.Rules.Options == 0 {
		cfg.Rules.Options = inclusion.Default
	}
	if cfg.Debounce == 0 {
		cfg.Debounce = config.DefaultDebounce
	}
	if cfg.Sort == nil {
		cfg.Sort = sorting.ByLocalizedName(catalog.Language())
	}

	s := &Session{
		id:      uuid.NewString(),
		catalog: catalog,
		cfg:     cfg,
		logger:  slog.Default(),
		jobs:    make(chan func(context.Context), config.PickerQueueSize),
		events:  make(chan Event, config.PickerQueueSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = search.New(catalog.Language(), search.WithLogger(s.logger))
	}
	s.logger = s.logger.With("session", s.id)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Events returns the channel events are published on. It is closed by Close.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Start launches the worker and queues the initial load. The worker stops
// when ctx is cancelled or Close is called; calls made after that are
// dropped.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.closed {
		s.mu.Unlock()
		return
	}
	s.started = true
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run(ctx)
	s.enqueue(s.ensureLoaded)
}

func (s *Session) run(ctx context.Context) {
	defer s.wg.Done()
	defer close(s.events)
	defer close(s.stopped)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case job := <-s.jobs:
			job(ctx)
		}
	}
}

func (s *Session) enqueue(job func(context.Context)) {
	select {
	case s.jobs <- job:
	case <-s.done:
	case <-s.stopped:
	}
}

func (s *Session) emit(ctx context.Context, ev Event) {
	ev.Session = s.id
	select {
	case s.events <- ev:
	case <-ctx.Done():
	case <-s.done:
	}
}

// ensureLoaded builds the offered list and publishes Loaded the first time
// it runs. Jobs queued ahead of the initial load call it first.
func (s *Session) ensureLoaded(ctx context.Context) {
	if s.loaded {
		return
	}
	s.loaded = true
	start := time.Now()

	list := s.cfg.Rules.Apply(s.catalog.List())
	sorting.Sort(list, s.cfg.Sort)

	s.specials = s.specials[:0]
	if s.cfg.ShowWorldwide {
		s.specials = append(s.specials, s.catalog.Worldwide())
	}
	if s.cfg.ShowUnknown {
		s.specials = append(s.specials, s.catalog.Unknown())
	}
	s.cache = search.NewCache(s.engine, list, config.DefaultSearchCacheSize, config.DefaultSearchCacheTTL)

	out := s.cache.Filter("", s.cfg.Search)
	s.logger.Debug("picker list loaded", "countries", len(list), "duration", time.Since(start))
	s.emit(ctx, Event{Kind: Loaded, SearchMode: false, Sections: s.sections("", out)})
}

func (s *Session) sections(query string, out search.Outcome) []Section {
	var sections []Section
	if len(s.specials) > 0 {
		special := s.engine.Filter(query, s.specials, s.cfg.Search)
		if len(special.Results) > 0 {
			sections = append(sections, Section{Kind: SectionSpecial, Results: special.Results})
		}
	}
	return append(sections, Section{Kind: SectionCountries, Results: out.Results})
}

// Search runs query once no other Search call arrived for the debounce
// period. A newer query cancels one that has not been applied yet. A query
// issued before Start runs after the initial load.
func (s *Session) Search(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	if s.timer != nil {
		s.timer.Stop()
	}
	if s.cancelSearch != nil {
		s.cancelSearch()
	}
	qctx, cancel := context.WithCancel(context.Background())
	s.cancelSearch = cancel

	job := func(ctx context.Context) {
		if qctx.Err() != nil {
			s.logger.Debug("search superseded", "query", query)
			return
		}
		s.ensureLoaded(ctx)
		out := s.cache.Filter(query, s.cfg.Search)
		if qctx.Err() != nil {
			return
		}
		s.emit(ctx, Event{Kind: Searched, Query: query, SearchMode: out.SearchMode, Sections: s.sections(query, out)})
	}

	if s.cfg.Debounce < 0 {
		go s.enqueue(job)
		return
	}
	s.timer = time.AfterFunc(s.cfg.Debounce, func() { s.enqueue(job) })
}

// Select adds c to the selection. Without multiple selection it replaces
// the current one.
func (s *Session) Select(c countries.Country) {
	s.enqueue(func(ctx context.Context) {
		s.ensureLoaded(ctx)
		s.mu.Lock()
		for _, sel := range s.selection {
			if sel.Alpha2Code == c.Alpha2Code {
				s.mu.Unlock()
				return
			}
		}
		switch {
		case !s.cfg.AllowsMultipleSelection:
			s.selection = []countries.Country{c}
		case s.cfg.MaxSelection > 0 && len(s.selection) >= s.cfg.MaxSelection:
			selection := s.selectionLocked()
			s.mu.Unlock()
			s.logger.Debug("selection rejected", "country", c.Alpha2Code, "max", s.cfg.MaxSelection)
			s.emit(ctx, Event{Kind: SelectionRejected, Country: c, Selection: selection, Err: ErrSelectionLimit})
			return
		default:
			s.selection = append(s.selection, c)
		}
		selection := s.selectionLocked()
		s.mu.Unlock()
		s.emit(ctx, Event{Kind: Selected, Country: c, Selection: selection})
	})
}

// Deselect removes c from the selection.
func (s *Session) Deselect(c countries.Country) {
	s.enqueue(func(ctx context.Context) {
		s.ensureLoaded(ctx)
		s.mu.Lock()
		i := -1
		for j, sel := range s.selection {
			if sel.Alpha2Code == c.Alpha2Code {
				i = j
				break
			}
		}
		if i < 0 {
			s.mu.Unlock()
			return
		}
		s.selection = append(s.selection[:i:i], s.selection[i+1:]...)
		selection := s.selectionLocked()
		s.mu.Unlock()
		s.emit(ctx, Event{Kind: Deselected, Country: c, Selection: selection})
	})
}

// Selection returns the current selection.
func (s *Session) Selection() []countries.Country {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectionLocked()
}

func (s *Session) selectionLocked() []countries.Country {
	return append([]countries.Country(nil), s.selection...)
}

// Close stops the worker and closes the event channel. Pending searches are
// dropped.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	started := s.started
	if s.timer != nil {
		s.timer.Stop()
	}
	if s.cancelSearch != nil {
		s.cancelSearch()
	}
	close(s.done)
	if started {
		s.cancel()
	}
	s.mu.Unlock()

	if started {
		s.wg.Wait()
	} else {
		close(s.events)
	}
	s.logger.Debug("picker session closed")
}
