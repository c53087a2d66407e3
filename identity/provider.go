package identity

import (
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/warp/paycheck/generic"
)

// State is the provider's view of who is signed in. Err holds the reason
// the most recent sign-in failed, if it did.
type State struct {
	SignedIn bool
	Identity Identity
	Err      error
}

// Provider tracks the signed-in identity of a long-lived client.
//
// SignIn and SignOut return immediately. Their outcome is only visible as
// a state change, delivered to subscribers and readable through State. If
// several operations overlap, the one started last wins.
type Provider struct {
	verifier *Verifier
	log      logrus.FieldLogger

	mu     sync.Mutex
	state  State
	seq    int
	nextID int
	subs   map[int]func(State)
	wg     sync.WaitGroup
}

// NewProvider starts signed out. A nil verifier rejects every sign-in.
func NewProvider(verifier *Verifier, log logrus.FieldLogger) *Provider {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Provider{
		verifier: verifier,
		log:      log,
		state:    State{Identity: Anonymous},
		subs:     make(map[int]func(State)),
	}
}

// State returns the current state.
func (p *Provider) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// UserID returns the signed-in user, or the anonymous user.
func (p *Provider) UserID() generic.UserID {
	return p.State().Identity.ID
}

// Subscribe registers fn for every state change.
func (p *Provider) Subscribe(fn func(State)) (unsubscribe func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextID
	p.nextID++
	p.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			delete(p.subs, id)
		})
	}
}

// SignIn verifies token in the background.
func (p *Provider) SignIn(token string) {
	seq := p.begin()
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		if p.verifier == nil {
			p.finish(seq, State{Identity: Anonymous, Err: generic.ErrUnauthorized})
			return
		}
		id, err := p.verifier.Verify(token)
		if err != nil {
			p.log.WithError(err).Warn("sign-in rejected")
			p.finish(seq, State{Identity: Anonymous, Err: err})
			return
		}
		p.log.WithField("user", id.ID).Info("signed in")
		p.finish(seq, State{SignedIn: true, Identity: id})
	}()
}

// SignOut returns to the anonymous identity in the background.
func (p *Provider) SignOut() {
	seq := p.begin()
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.finish(seq, State{Identity: Anonymous})
	}()
}

// Wait blocks until every started SignIn/SignOut has settled.
func (p *Provider) Wait() {
	p.wg.Wait()
}

func (p *Provider) begin() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	return p.seq
}

// finish applies next unless a later operation has started since seq.
func (p *Provider) finish(seq int, next State) {
	p.mu.Lock()
	if seq != p.seq {
		p.mu.Unlock()
		return
	}
	p.state = next
	subs := make([]func(State), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}
