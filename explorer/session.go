package explorer

import (
	"context"
	"sync"
	"time"

	"github.com/Liberdus/token-bridge-go/coordinator"
	"github.com/Liberdus/token-bridge-go/notify"
	"github.com/bep/debounce"
	"github.com/pkg/errors"
	logger "github.com/sirupsen/logrus"
)

const DefaultDebounce = 500 * time.Millisecond

// ErrStaleResult is returned by a fetch whose result was superseded by a
// newer request before it arrived.
var ErrStaleResult = errors.New("stale search result dropped")

type Fetcher interface {
	ListTransactions(ctx context.Context, params *coordinator.ListParams) (*coordinator.TransactionPage, error)
}

// Snapshot is the state rendered by a transaction list view.
type Snapshot struct {
	Search       Search                    `json:"search"`
	Pager        Pager                     `json:"pager"`
	Transactions []coordinator.Transaction `json:"transactions"`
	Loading      bool                      `json:"loading"`
	// validation or fetch error of the latest request
	Err error `json:"-"`
}

func (s Snapshot) HasPrev() bool { return s.Pager.HasPrev() }
func (s Snapshot) HasNext() bool { return s.Pager.HasNext() }

// Session drives a paginated transaction search. Typing is debounced,
// page changes fetch at once and only the latest request may update the
// snapshot.
type Session struct {
	fetcher   Fetcher
	notifier  notify.Notifier
	debounced func(func())

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	seq      uint64
	snap     Snapshot
	onUpdate func(Snapshot)
}

func NewSession(ctx context.Context, fetcher Fetcher, notifier notify.Notifier, wait time.Duration) *Session {
	if wait <= 0 {
		wait = DefaultDebounce
	}
	if notifier == nil {
		notifier = notify.Discard{}
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Session{
		fetcher:   fetcher,
		notifier:  notifier,
		debounced: debounce.New(wait),
		ctx:       ctx,
		cancel:    cancel,
		snap:      Snapshot{Search: Search{Mode: ModeTxID, Page: 1}, Pager: Pager{Page: 1}},
	}
}

// OnUpdate registers fn to be called after every snapshot change.
func (s *Session) OnUpdate(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = fn
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// SetMode switches the search field. The query is cleared and the first
// page is fetched after the debounce delay.
func (s *Session) SetMode(mode SearchMode) {
	s.SetSearch(mode, "")
}

// SetQuery updates the query text, resets to page 1 and schedules a
// debounced fetch. An invalid query is recorded in the snapshot and not
// sent.
func (s *Session) SetQuery(q string) {
	s.mu.Lock()
	mode := s.snap.Search.Mode
	s.mu.Unlock()
	s.SetSearch(mode, q)
}

func (s *Session) SetSearch(mode SearchMode, q string) {
	s.mu.Lock()
	s.seq++
	s.snap.Search = Search{Mode: mode, Query: q, Page: 1}
	// the page count of the previous search says nothing about this one
	s.snap.Pager = Pager{Page: 1}
	s.snap.Transactions = nil
	err := ValidateQuery(mode, q)
	s.snap.Err = err
	s.snap.Loading = err == nil
	snap, fn := s.snap, s.onUpdate
	s.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
	if err != nil {
		return
	}

	s.debounced(func() {
		if s.ctx.Err() != nil {
			return
		}
		if _, err := s.Refresh(s.ctx); err != nil && !errors.Is(err, ErrStaleResult) {
			logger.WithField("mode", mode).Debugf("debounced search failed: %v", err)
		}
	})
}

// Refresh fetches the current search and page right away.
func (s *Session) Refresh(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	search := s.snap.Search
	s.mu.Unlock()
	return s.fetch(ctx, search)
}

// NextPage fetches the following page. It does nothing when the current
// page is the last one.
func (s *Session) NextPage(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	if !s.snap.Pager.HasNext() {
		snap := s.snap
		s.mu.Unlock()
		return snap, nil
	}
	search := s.snap.Search
	search.Page = s.snap.Pager.Next().Page
	s.mu.Unlock()
	return s.fetch(ctx, search)
}

// PrevPage fetches the preceding page. It does nothing on page 1.
func (s *Session) PrevPage(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	if !s.snap.Pager.HasPrev() {
		snap := s.snap
		s.mu.Unlock()
		return snap, nil
	}
	search := s.snap.Search
	search.Page = s.snap.Pager.Prev().Page
	s.mu.Unlock()
	return s.fetch(ctx, search)
}

func (s *Session) fetch(ctx context.Context, search Search) (Snapshot, error) {
	params, err := search.Params()

	s.mu.Lock()
	s.seq++
	seq := s.seq
	if err != nil {
		s.snap.Err = err
		s.snap.Loading = false
		snap := s.snap
		s.mu.Unlock()
		return snap, err
	}
	s.snap.Loading = true
	s.mu.Unlock()

	logger.WithFields(logger.Fields{
		"mode":  search.Mode,
		"query": search.Query,
		"page":  params.Page,
		"seq":   seq,
	}).Debug("fetching transactions")

	page, err := s.fetcher.ListTransactions(ctx, params)

	s.mu.Lock()
	if seq != s.seq {
		snap := s.snap
		s.mu.Unlock()
		logger.WithField("seq", seq).Debug("dropping stale search result")
		return snap, ErrStaleResult
	}
	s.snap.Loading = false
	if err != nil {
		s.snap.Err = err
	} else {
		s.snap.Search = search
		s.snap.Search.Page = page.Page
		s.snap.Pager = Pager{Page: page.Page, TotalPages: page.TotalPages}
		s.snap.Transactions = page.Transactions
		s.snap.Err = nil
	}
	snap, fn := s.snap, s.onUpdate
	s.mu.Unlock()

	if err != nil {
		s.notifier.Notify(notify.Error(errors.Wrap(err, "failed to fetch transactions")))
	}
	if fn != nil {
		fn(snap)
	}
	return snap, err
}

// Close stops pending debounced fetches and cancels requests in flight.
func (s *Session) Close() {
	s.cancel()
}
