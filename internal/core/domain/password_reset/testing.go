package passwordreset

import (
	"context"
	"fmt"
	"passreset/internal/core/domain/user"
	"sync"
	"time"
)

type FakeTokenCodec struct {
	Tokens      []RawToken
	ReturnError bool
	generated   int
	lock        sync.Mutex
}

// NewFakeTokenCodec hands out the given tokens in order, then "token-<n>".
func NewFakeTokenCodec(tokens ...string) *FakeTokenCodec {
	codec := &FakeTokenCodec{}
	for _, t := range tokens {
		codec.Tokens = append(codec.Tokens, RawToken(t))
	}
	return codec
}

func (c *FakeTokenCodec) Generate() (RawToken, error) {
	if c.ReturnError {
		return RawToken(""), fmt.Errorf("could not generate token")
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	c.generated++
	if c.generated <= len(c.Tokens) {
		return c.Tokens[c.generated-1], nil
	}
	return RawToken(fmt.Sprintf("token-%d", c.generated)), nil
}

func (c *FakeTokenCodec) Digest(token RawToken) Digest {
	return Digest("digest:" + string(token))
}

type FakeRepository struct {
	Tokens      map[Digest]ResetToken
	SaveError   error
	GetError    error
	DeleteError error
	lock        sync.Mutex
}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{Tokens: make(map[Digest]ResetToken)}
}

func (r *FakeRepository) Save(ctx context.Context, input CreateInput) error {
	if r.SaveError != nil {
		return r.SaveError
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.Tokens[input.Digest]; ok {
		return fmt.Errorf("digest %s already exists", input.Digest)
	}
	r.Tokens[input.Digest] = ResetToken{
		UserID:    input.UserID,
		Digest:    input.Digest,
		TouchedAt: input.TouchedAt,
	}
	return nil
}

func (r *FakeRepository) GetByDigest(ctx context.Context, digest Digest) (t ResetToken, err error) {
	if r.GetError != nil {
		return t, r.GetError
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	t, ok := r.Tokens[digest]
	if !ok {
		return t, ErrTokenNotFound
	}
	return t, nil
}

func (r *FakeRepository) DeleteAllForUser(ctx context.Context, userID user.ID) error {
	if r.DeleteError != nil {
		return r.DeleteError
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for digest, t := range r.Tokens {
		if t.UserID == userID {
			delete(r.Tokens, digest)
		}
	}
	return nil
}

func (r *FakeRepository) DeleteTouchedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if r.DeleteError != nil {
		return 0, r.DeleteError
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	var deleted int64
	for digest, t := range r.Tokens {
		if t.TouchedAt.Before(cutoff) {
			delete(r.Tokens, digest)
			deleted++
		}
	}
	return deleted, nil
}

func (r *FakeRepository) Count() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.Tokens)
}

func (r *FakeRepository) CountForUser(userID user.ID) int {
	r.lock.Lock()
	defer r.lock.Unlock()
	count := 0
	for _, t := range r.Tokens {
		if t.UserID == userID {
			count++
		}
	}
	return count
}

type FakeEmailSender struct {
	Sent        []Email
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeEmailSender() *FakeEmailSender {
	return &FakeEmailSender{}
}

func (s *FakeEmailSender) SendPasswordResetEmail(ctx context.Context, email Email) error {
	if s.ReturnError {
		return fmt.Errorf("could not send password reset email")
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Sent = append(s.Sent, email)
	return nil
}

func (s *FakeEmailSender) SentCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.Sent)
}

func (s *FakeEmailSender) LastSent() Email {
	s.lock.Lock()
	defer s.lock.Unlock()
	l := len(s.Sent)
	if l == 0 {
		panic("Sent count is 0.")
	}
	return s.Sent[l-1]
}

type FakeAuditRecord struct {
	Event Event
	Actor string
	Msg   string
}

type FakeAuditor struct {
	Records []FakeAuditRecord
	lock    sync.Mutex
}

func NewFakeAuditor() *FakeAuditor {
	return &FakeAuditor{}
}

func (a *FakeAuditor) Record(ctx context.Context, event Event, actor string, msg string) {
	a.lock.Lock()
	defer a.lock.Unlock()
	a.Records = append(a.Records, FakeAuditRecord{Event: event, Actor: actor, Msg: msg})
}

func (a *FakeAuditor) Events() []Event {
	a.lock.Lock()
	defer a.lock.Unlock()
	events := make([]Event, 0, len(a.Records))
	for _, r := range a.Records {
		events = append(events, r.Event)
	}
	return events
}
