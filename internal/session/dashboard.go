package session

import (
	"context"
	"io"
	"sync"
	"time"

	"fjacquet/finance-dashboard/internal/categorizer"
	"fjacquet/finance-dashboard/internal/logging"
	"fjacquet/finance-dashboard/internal/parser"
)

// KeywordLoader fetches the keyword table.
type KeywordLoader interface {
	Load(ctx context.Context) (categorizer.KeywordMap, error)
}

// ParserFactory builds a parser for a keyword table.
type ParserFactory interface {
	NewParser(keywords categorizer.KeywordMap) parser.Parser
}

// Dashboard owns the State and serializes uploads: the keyword table is loaded
// and the file parsed under one lock, so the last upload to complete is the
// one shown.
type Dashboard struct {
	uploadMu sync.Mutex
	mu       sync.RWMutex
	state    State
	seq      uint64

	keywords KeywordLoader
	parsers  ParserFactory
	now      func() time.Time
	logger   logging.Logger
}

// NewDashboard creates a Dashboard in the initial state.
func NewDashboard(initial State, keywords KeywordLoader, parsers ParserFactory, logger logging.Logger) *Dashboard {
	return &Dashboard{
		state:    initial,
		keywords: keywords,
		parsers:  parsers,
		now:      time.Now,
		logger:   logging.OrDefault(logger),
	}
}

// SetClock replaces time.Now for notice timestamps.
func (d *Dashboard) SetClock(now func() time.Time) {
	d.now = now
}

// State returns the current state.
func (d *Dashboard) State() State {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// Dispatch applies ev and returns the resulting state.
func (d *Dashboard) Dispatch(ev Event) State {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = Reduce(d.state, ev)
	return d.state
}

// Upload loads the keyword table, parses r and installs the result. A keyword
// table that cannot be loaded degrades to an empty one; a rejected file leaves
// the previous transactions in place and returns the error.
func (d *Dashboard) Upload(ctx context.Context, r io.Reader, source string) error {
	d.uploadMu.Lock()
	defer d.uploadMu.Unlock()

	d.seq++
	seq := d.seq
	log := d.logger.WithFields(
		logging.Field{Key: logging.FieldUploadSeq, Value: seq},
		logging.Field{Key: logging.FieldSource, Value: source})

	keywords, err := d.keywords.Load(ctx)
	if err != nil {
		log.WithError(err).Warn("Continuing upload without category keywords")
		keywords = categorizer.KeywordMap{}
	}

	txs, err := d.parsers.NewParser(keywords).Parse(r, source)
	if err != nil {
		log.WithError(err).Error("Upload rejected")
		d.Dispatch(UploadFailed{Err: err, Seq: seq, At: d.now()})
		return err
	}

	d.Dispatch(Uploaded{Transactions: txs, Source: source, Seq: seq, At: d.now()})
	log.Info("Upload complete", logging.Field{Key: logging.FieldCount, Value: len(txs)})
	return nil
}
