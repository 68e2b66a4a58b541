package chatsync

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"nexus_chat_service/internal/chat/domain"

	"github.com/cucumber/godog"
)

type stubPersister struct {
	result *domain.Message
	err    error
}

func (p *stubPersister) InsertMessage(_ context.Context, msg *domain.Message) (*domain.Message, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.result == nil {
		return msg, nil
	}
	return p.result, nil
}

func (p *stubPersister) InsertSharedItems(context.Context, []domain.SharedItem) error {
	return nil
}

type stubProfiles map[string]*domain.Profile

func (p stubProfiles) FetchProfile(_ context.Context, userID string) (*domain.Profile, error) {
	if v, ok := p[userID]; ok {
		return v, nil
	}
	return nil, errors.New("profile not found")
}

type reconciliationFeature struct {
	session  *Session
	feed     *fakeFeed
	clock    *clock
	persist  *stubPersister
	profiles stubProfiles
	hookErr  error
}

func (f *reconciliationFeature) signedIn(user, team string) error {
	s, err := NewSession(domain.NewScope(team, ""), domain.Profile{UserID: user, Name: user}, f.persist, f.feed,
		WithClock(f.clock.Now),
		WithIDGenerator(sequentialIDs()),
		WithProfiles(f.profiles),
		WithSendErrorHook(func(err error) { f.hookErr = err }),
	)
	if err != nil {
		return err
	}
	f.session = s
	return s.Start(context.Background())
}

func (f *reconciliationFeature) feedSubscribed() error {
	f.feed.lifecycle(LifecycleSubscribed, nil)
	return nil
}

func (f *reconciliationFeature) sendsAndServerAssigns(user, text, id string) error {
	f.persist.result = &domain.Message{
		ID:        id,
		TeamID:    f.session.Scope().TeamID,
		SenderID:  user,
		Content:   strPtr(text),
		CreatedAt: f.clock.Now().Add(time.Second),
	}
	_, err := f.session.Send(context.Background(), SendRequest{Content: text})
	return err
}

func (f *reconciliationFeature) sendsAndServerRejects(_, text string) error {
	f.persist.err = errors.New("row level security")
	if _, err := f.session.Send(context.Background(), SendRequest{Content: text}); !errors.Is(err, ErrWriteFailed) {
		return fmt.Errorf("expected ErrWriteFailed, got %v", err)
	}
	return nil
}

func (f *reconciliationFeature) feedDelivers(id, user, text string, seconds int) error {
	at := t0.Add(time.Duration(seconds) * time.Second)
	f.clock.Set(at)
	f.feed.emit(insertEvent(domain.Message{
		ID:        id,
		TeamID:    f.session.Scope().TeamID,
		SenderID:  user,
		Content:   strPtr(text),
		CreatedAt: at,
	}))
	return nil
}

func (f *reconciliationFeature) hasDisplayName(user, name string) error {
	f.profiles[user] = &domain.Profile{UserID: user, Name: name}
	return nil
}

func (f *reconciliationFeature) conversationHas(n int) error {
	if got := len(f.session.Messages()); got != n {
		return fmt.Errorf("expected %d messages, got %d", n, got)
	}
	return nil
}

func (f *reconciliationFeature) message(pos int) (domain.Message, error) {
	msgs := f.session.Messages()
	if pos < 1 || pos > len(msgs) {
		return domain.Message{}, fmt.Errorf("no message %d in %v", pos, ids(msgs))
	}
	return msgs[pos-1], nil
}

func (f *reconciliationFeature) messageConfirmed(pos int, id string) error {
	m, err := f.message(pos)
	if err != nil {
		return err
	}
	if m.ID != id || m.Pending {
		return fmt.Errorf("message %d: id=%s pending=%v", pos, m.ID, m.Pending)
	}
	return nil
}

func (f *reconciliationFeature) messageSentBy(pos int, name string) error {
	m, err := f.message(pos)
	if err != nil {
		return err
	}
	if m.SenderName != name {
		return fmt.Errorf("message %d: sender name %q", pos, m.SenderName)
	}
	return nil
}

func (f *reconciliationFeature) sendErrorReported() error {
	if !errors.Is(f.hookErr, ErrWriteFailed) {
		return fmt.Errorf("send error hook got %v", f.hookErr)
	}
	return nil
}

func (f *reconciliationFeature) feedFails() error {
	f.feed.lifecycle(LifecycleError, errors.New("connection reset"))
	return nil
}

func (f *reconciliationFeature) feedReconnects() error {
	f.feed.lifecycle(LifecycleConnecting, nil)
	f.feed.lifecycle(LifecycleSubscribed, nil)
	return nil
}

func (f *reconciliationFeature) statusIs(want string) error {
	if got := f.session.Status(); string(got) != want {
		return fmt.Errorf("status %s, want %s", got, want)
	}
	return nil
}

func InitializeReconciliationScenario(ctx *godog.ScenarioContext) {
	f := &reconciliationFeature{}
	ctx.Before(func(c context.Context, _ *godog.Scenario) (context.Context, error) {
		*f = reconciliationFeature{
			feed:     &fakeFeed{},
			clock:    &clock{now: t0},
			persist:  &stubPersister{},
			profiles: stubProfiles{},
		}
		return c, nil
	})
	ctx.After(func(c context.Context, _ *godog.Scenario, err error) (context.Context, error) {
		if f.session != nil {
			_ = f.session.Close()
		}
		return c, err
	})

	ctx.Step(`^"([^"]*)" is signed in to team "([^"]*)"$`, f.signedIn)
	ctx.Step(`^the change feed is subscribed$`, f.feedSubscribed)
	ctx.Step(`^"([^"]*)" sends "([^"]*)" and the server assigns "([^"]*)"$`, f.sendsAndServerAssigns)
	ctx.Step(`^"([^"]*)" sends "([^"]*)" and the server rejects it$`, f.sendsAndServerRejects)
	ctx.Step(`^the feed delivers "([^"]*)" from "([^"]*)" with text "([^"]*)" (\d+) seconds later$`, f.feedDelivers)
	ctx.Step(`^"([^"]*)" has display name "([^"]*)"$`, f.hasDisplayName)
	ctx.Step(`^the conversation has (\d+) messages?$`, f.conversationHas)
	ctx.Step(`^message (\d+) has id "([^"]*)" and is confirmed$`, f.messageConfirmed)
	ctx.Step(`^message (\d+) is shown as sent by "([^"]*)"$`, f.messageSentBy)
	ctx.Step(`^the send error is reported$`, f.sendErrorReported)
	ctx.Step(`^the change feed fails$`, f.feedFails)
	ctx.Step(`^the change feed reconnects$`, f.feedReconnects)
	ctx.Step(`^the status is "([^"]*)"$`, f.statusIs)
}

func TestReconciliationFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeReconciliationScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
