// Package ledger tracks per-identity conversation state and guarantees
// at-most-once credential issuance. Conversation state is volatile; the
// issuance decision is durable through the persistence pipeline, with
// the store's unique index as the cross-process backstop.
package ledger

import (
	"context"
	"errors"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/intakeworks/storygate/internal/credentials"
	"github.com/intakeworks/storygate/internal/evaluation"
	"github.com/intakeworks/storygate/internal/scoring"
)

// State is a conversation phase for one identity.
type State string

const (
	StateInitial  State = "INITIAL"
	StateAwaiting State = "AWAITING_SUBMISSION"
	StateIssued   State = "ISSUED"
)

const stripeCount = 64

// CredentialStore reads previously issued credentials for hydration.
type CredentialStore interface {
	GetByIdentity(ctx context.Context, identityHash string) (credentials.Credential, error)
}

// Persister durably records an issued credential.
type Persister interface {
	Persist(ctx context.Context, c credentials.Credential) error
}

type session struct {
	state       State
	submissions int
	credential  *credentials.Credential
	hydrated    bool
}

// Ledger serializes all per-identity decisions through striped locks.
type Ledger struct {
	stripes [stripeCount]sync.Mutex

	mu       sync.Mutex
	sessions map[string]*session

	store           CredentialStore
	persister       Persister
	classifier      *scoring.Classifier
	eventID         string
	decisionTimeout time.Duration
	logger          *slog.Logger
	now             func() time.Time
}

// New creates a Ledger.
func New(store CredentialStore, persister Persister, classifier *scoring.Classifier, eventID string, decisionTimeout time.Duration, logger *slog.Logger) *Ledger {
	return &Ledger{
		sessions:        make(map[string]*session),
		store:           store,
		persister:       persister,
		classifier:      classifier,
		eventID:         eventID,
		decisionTimeout: decisionTimeout,
		logger:          logger.With("system", "ledger"),
		now:             time.Now,
	}
}

func (l *Ledger) stripe(identityHash string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(identityHash))
	return &l.stripes[h.Sum32()%stripeCount]
}

// lockedSession acquires the identity's stripe and returns its hydrated
// session. The caller must call unlock when done.
func (l *Ledger) lockedSession(ctx context.Context, identityHash string) (*session, func()) {
	stripe := l.stripe(identityHash)
	stripe.Lock()

	l.mu.Lock()
	s, ok := l.sessions[identityHash]
	if !ok {
		s = &session{state: StateInitial}
		l.sessions[identityHash] = s
	}
	l.mu.Unlock()

	l.hydrate(ctx, identityHash, s)
	return s, stripe.Unlock
}

// hydrate restores ISSUED state from the credential store after a process
// restart. A store read failure is logged and retried on the next access;
// the unique index still prevents duplicate issuance in the meantime.
func (l *Ledger) hydrate(ctx context.Context, identityHash string, s *session) {
	if s.hydrated {
		return
	}

	existing, err := l.store.GetByIdentity(ctx, identityHash)
	switch {
	case err == nil:
		s.state = StateIssued
		s.credential = &existing
		s.hydrated = true
	case errors.Is(err, credentials.ErrNotFound):
		s.hydrated = true
	default:
		l.logger.Warn("session hydration failed", "identity", identityHash, "error", err)
	}
}

// GetState returns the identity's conversation state.
func (l *Ledger) GetState(ctx context.Context, identityHash string) State {
	s, unlock := l.lockedSession(ctx, identityHash)
	defer unlock()
	return s.state
}

// SetState transitions the identity's conversation state. Transitions
// away from ISSUED are refused.
func (l *Ledger) SetState(ctx context.Context, identityHash string, state State) {
	s, unlock := l.lockedSession(ctx, identityHash)
	defer unlock()
	if s.state == StateIssued {
		return
	}
	s.state = state
}

// IncrementSubmissionCount counts one submission attempt and returns the
// new total.
func (l *Ledger) IncrementSubmissionCount(ctx context.Context, identityHash string) int {
	s, unlock := l.lockedSession(ctx, identityHash)
	defer unlock()
	s.submissions++
	return s.submissions
}

// SubmissionCount returns the identity's submission attempt total.
func (l *Ledger) SubmissionCount(ctx context.Context, identityHash string) int {
	s, unlock := l.lockedSession(ctx, identityHash)
	defer unlock()
	return s.submissions
}

// GetCredential returns the identity's issued credential, if any.
func (l *Ledger) GetCredential(ctx context.Context, identityHash string) (credentials.Credential, bool) {
	s, unlock := l.lockedSession(ctx, identityHash)
	defer unlock()
	if s.credential == nil {
		return credentials.Credential{}, false
	}
	return *s.credential, true
}

// HasIssued reports whether the identity already holds a credential.
func (l *Ledger) HasIssued(ctx context.Context, identityHash string) bool {
	_, ok := l.GetCredential(ctx, identityHash)
	return ok
}

// TryIssue issues a credential for the identity exactly once. A second
// call returns the original credential with alreadyIssued true. Once the
// critical section is entered the decision runs to completion under its
// own deadline, detached from caller cancellation; a primary-store
// failure leaves the session unchanged so the submission can be retried.
func (l *Ledger) TryIssue(ctx context.Context, identityHash, submission string, result evaluation.Result) (credentials.Credential, bool, error) {
	s, unlock := l.lockedSession(ctx, identityHash)
	defer unlock()

	if s.credential != nil {
		return *s.credential, true, nil
	}

	decisionCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.decisionTimeout)
	defer cancel()

	tier := l.classifier.Classify(result.Score)
	credential := credentials.Credential{
		ID:           uuid.New(),
		IdentityHash: identityHash,
		Code:         credentials.GenerateCode(l.eventID, tier, identityHash, l.now()),
		Tier:         tier,
		Score:        result.Score,
		ScoreSource:  string(result.Source),
		Submission:   submission,
		IssuedAt:     l.now(),
	}

	err := l.persister.Persist(decisionCtx, credential)
	switch {
	case err == nil:
		s.state = StateIssued
		s.credential = &credential
		l.logger.Info("credential issued", "identity", identityHash, "tier", tier, "source", result.Source)
		return credential, false, nil

	case errors.Is(err, credentials.ErrAlreadyIssued):
		// Another process won the race; adopt its credential.
		existing, getErr := l.store.GetByIdentity(decisionCtx, identityHash)
		if getErr != nil {
			return credentials.Credential{}, true, getErr
		}
		s.state = StateIssued
		s.credential = &existing
		return existing, true, nil

	default:
		return credentials.Credential{}, false, err
	}
}
