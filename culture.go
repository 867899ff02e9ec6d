package globalization

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// CulturePersister stores the chosen culture outside the process, e.g. in a
// config file or a cookie backed session.
type CulturePersister interface {
	// LoadCulture returns the stored culture or "" when nothing was stored.
	LoadCulture() (string, error)
	SaveCulture(culture string) error
}

// CultureService owns the process wide current culture and the supported set.
// The first supported culture is the default.
type CultureService struct {
	supported []string
	index     map[string]struct{}
	current   atomic.Pointer[string]

	logger    *zap.Logger
	metrics   *Metrics
	persister CulturePersister

	// emit serializes store+notify so subscribers observe changes in write order.
	emit   sync.Mutex
	mu     sync.RWMutex
	subs   []cultureSubscriber
	nextID atomic.Uint64
}

type cultureSubscriber struct {
	id uint64
	fn func(string)
}

type CultureOption func(*CultureService)

func WithCultureLogger(logger *zap.Logger) CultureOption {
	return func(s *CultureService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithCultureMetrics(metrics *Metrics) CultureOption {
	return func(s *CultureService) {
		s.metrics = metrics
	}
}

// WithCulturePersistence restores the initial culture from p and saves every change to it.
func WithCulturePersistence(p CulturePersister) CultureOption {
	return func(s *CultureService) {
		s.persister = p
	}
}

func NewCultureService(supported []string, opts ...CultureOption) (*CultureService, error) {
	cultures := normalizeCultures(supported)
	if len(cultures) == 0 {
		return nil, ErrNoCultures
	}

	s := &CultureService{
		supported: cultures,
		index:     make(map[string]struct{}, len(cultures)),
		logger:    zap.NewNop(),
	}
	for _, culture := range cultures {
		s.index[culture] = struct{}{}
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	initial := cultures[0]
	if s.persister != nil {
		stored, err := s.persister.LoadCulture()
		switch {
		case err != nil:
			s.logger.Warn("load persisted culture", zap.Error(err))
		case stored == "":
		case s.IsSupported(stored):
			initial = canonicalLocale(stored)
		default:
			s.logger.Warn("persisted culture not supported, using default",
				zap.String("culture", stored),
				zap.String("default", initial),
			)
		}
	}
	s.current.Store(&initial)

	return s, nil
}

func (s *CultureService) CurrentCulture() string {
	return *s.current.Load()
}

// SupportedCultures returns a copy of the supported list in configuration order.
func (s *CultureService) SupportedCultures() []string {
	return append([]string(nil), s.supported...)
}

func (s *CultureService) IsSupported(culture string) bool {
	_, ok := s.index[canonicalLocale(culture)]
	return ok
}

// SetCulture replaces the current culture and notifies subscribers.
// Setting the current culture again still notifies.
func (s *CultureService) SetCulture(culture string) error {
	canonical := canonicalLocale(culture)
	if _, ok := s.index[canonical]; !ok {
		return &UnsupportedCultureError{Culture: culture, Supported: s.SupportedCultures()}
	}

	s.emit.Lock()
	defer s.emit.Unlock()

	s.current.Store(&canonical)
	s.metrics.cultureChanged(canonical)
	s.logger.Info("culture changed", zap.String("culture", canonical))

	if s.persister != nil {
		if err := s.persister.SaveCulture(canonical); err != nil {
			s.logger.Warn("persist culture", zap.String("culture", canonical), zap.Error(err))
		}
	}

	s.mu.RLock()
	subs := append([]cultureSubscriber(nil), s.subs...)
	s.mu.RUnlock()

	for _, sub := range subs {
		sub.fn(canonical)
	}
	return nil
}

// Subscribe registers fn to be called synchronously after every successful
// SetCulture. fn must not call SetCulture. The returned func unsubscribes.
func (s *CultureService) Subscribe(fn func(culture string)) func() {
	if fn == nil {
		return func() {}
	}
	id := s.nextID.Add(1)

	s.mu.Lock()
	s.subs = append(s.subs, cultureSubscriber{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.unsubscribe(id) })
	}
}

func (s *CultureService) unsubscribe(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// Changes streams every culture set after the call returns. Past changes are
// not replayed. Slow readers never block SetCulture: each stream queues
// pending values. The channel closes when ctx is done.
func (s *CultureService) Changes(ctx context.Context) <-chan string {
	in := make(chan string)
	out := make(chan string)
	done := make(chan struct{})

	unsubscribe := s.Subscribe(func(culture string) {
		select {
		case in <- culture:
		case <-done:
		}
	})

	go func() {
		defer close(out)
		defer unsubscribe()
		defer close(done)

		var pending []string
		for {
			var send chan string
			var next string
			if len(pending) > 0 {
				send = out
				next = pending[0]
			}

			select {
			case <-ctx.Done():
				return
			case culture := <-in:
				pending = append(pending, culture)
			case send <- next:
				pending = pending[1:]
			}
		}
	}()

	return out
}
