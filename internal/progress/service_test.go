package progress_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/quizdoc/quizdoc/internal/apperr"
	"github.com/quizdoc/quizdoc/internal/progress"
)

type fakeSessionStore struct {
	sessions map[string]*progress.Session
	topics   map[string]progress.TopicProgress // template per topic id
	nextID   int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: map[string]*progress.Session{},
		topics:   map[string]progress.TopicProgress{},
	}
}

func (f *fakeSessionStore) addTopic(id, name string, pages int) {
	f.topics[id] = progress.TopicProgress{TopicID: id, Name: name, Pages: pages}
}

func (f *fakeSessionStore) ListSessions(_ context.Context, userID string) ([]progress.Session, error) {
	var out []progress.Session
	for _, s := range f.sessions {
		if s.UserID == userID {
			cp := *s
			cp.Topics = append([]progress.TopicProgress(nil), s.Topics...)
			out = append(out, cp)
		}
	}
	return out, nil
}

func (f *fakeSessionStore) GetSession(_ context.Context, id, userID string) (*progress.Session, error) {
	s, ok := f.sessions[id]
	if !ok || s.UserID != userID {
		return nil, apperr.NotFound("learning session not found")
	}
	cp := *s
	cp.Topics = append([]progress.TopicProgress(nil), s.Topics...)
	return &cp, nil
}

func (f *fakeSessionStore) CreateSession(_ context.Context, userID string, topicIDs []string) (*progress.Session, error) {
	f.nextID++
	s := &progress.Session{ID: fmt.Sprintf("sess-%d", f.nextID), UserID: userID}
	for _, id := range topicIDs {
		tpl, ok := f.topics[id]
		if !ok {
			return nil, apperr.NotFound("topic %s not found", id)
		}
		tpl.CurrentPage = 1
		s.Topics = append(s.Topics, tpl)
	}
	f.sessions[s.ID] = s
	cp := *s
	cp.Topics = append([]progress.TopicProgress(nil), s.Topics...)
	return &cp, nil
}

func (f *fakeSessionStore) UpdateCurrentPage(_ context.Context, sessionID, topicID string, page int) error {
	s, ok := f.sessions[sessionID]
	if !ok {
		return apperr.NotFound("learning session not found")
	}
	for i := range s.Topics {
		if s.Topics[i].TopicID == topicID {
			s.Topics[i].CurrentPage = page
			return nil
		}
	}
	return apperr.NotFound("topic not part of this learning session")
}

func (f *fakeSessionStore) DeleteSession(_ context.Context, id, userID string) error {
	s, ok := f.sessions[id]
	if !ok || s.UserID != userID {
		return apperr.NotFound("learning session not found")
	}
	delete(f.sessions, id)
	return nil
}

func TestCreateOrGetExactTopicSetIdentity(t *testing.T) {
	store := newFakeSessionStore()
	store.addTopic("t1", "anatomy", 10)
	store.addTopic("t2", "physiology", 20)
	store.addTopic("t3", "pharmacology", 30)
	svc := progress.NewService(store, nil)
	ctx := context.Background()

	first, created, err := svc.CreateOrGet(ctx, "u1", []string{"t1", "t2"})
	if err != nil || !created {
		t.Fatalf("first create: created=%v err=%v", created, err)
	}

	// Same set in a different order resolves to the same session.
	again, created, err := svc.CreateOrGet(ctx, "u1", []string{"t2", "t1"})
	if err != nil {
		t.Fatal(err)
	}
	if created || again.ID != first.ID {
		t.Fatalf("expected reuse of %s, got %s created=%v", first.ID, again.ID, created)
	}

	// A superset is a different identity.
	other, created, err := svc.CreateOrGet(ctx, "u1", []string{"t1", "t2", "t3"})
	if err != nil || !created {
		t.Fatalf("superset create: created=%v err=%v", created, err)
	}
	if other.ID == first.ID {
		t.Fatal("superset reused existing session")
	}
}

func TestCreateOrGetRequiresTopics(t *testing.T) {
	svc := progress.NewService(newFakeSessionStore(), nil)
	_, _, err := svc.CreateOrGet(context.Background(), "u1", nil)
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateOrGetScopedToUser(t *testing.T) {
	store := newFakeSessionStore()
	store.addTopic("t1", "anatomy", 10)
	svc := progress.NewService(store, nil)
	ctx := context.Background()

	a, _, _ := svc.CreateOrGet(ctx, "u1", []string{"t1"})
	b, created, err := svc.CreateOrGet(ctx, "u2", []string{"t1"})
	if err != nil || !created {
		t.Fatalf("expected new session for second user, created=%v err=%v", created, err)
	}
	if a.ID == b.ID {
		t.Fatal("sessions shared across users")
	}
}

func TestUpdatePageClampsToDocument(t *testing.T) {
	store := newFakeSessionStore()
	store.addTopic("t1", "anatomy", 10)
	svc := progress.NewService(store, nil)
	ctx := context.Background()

	sess, _, _ := svc.CreateOrGet(ctx, "u1", []string{"t1"})

	if err := svc.UpdatePage(ctx, sess.ID, "u1", "t1", 99); err != nil {
		t.Fatal(err)
	}
	got, _ := svc.Get(ctx, sess.ID, "u1")
	if got.Topics[0].CurrentPage != 10 {
		t.Fatalf("expected clamp to 10, got %d", got.Topics[0].CurrentPage)
	}

	if err := svc.UpdatePage(ctx, sess.ID, "u1", "t1", -3); err != nil {
		t.Fatal(err)
	}
	got, _ = svc.Get(ctx, sess.ID, "u1")
	if got.Topics[0].CurrentPage != 1 {
		t.Fatalf("expected clamp to 1, got %d", got.Topics[0].CurrentPage)
	}
}

func TestUpdatePageUnknownTopic(t *testing.T) {
	store := newFakeSessionStore()
	store.addTopic("t1", "anatomy", 10)
	svc := progress.NewService(store, nil)
	ctx := context.Background()

	sess, _, _ := svc.CreateOrGet(ctx, "u1", []string{"t1"})
	err := svc.UpdatePage(ctx, sess.ID, "u1", "t9", 5)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestOverallProgressSequentialReading(t *testing.T) {
	sess := &progress.Session{Topics: []progress.TopicProgress{
		{TopicID: "a", Pages: 10, CurrentPage: 10},
		{TopicID: "b", Pages: 10, CurrentPage: 5},
		{TopicID: "c", Pages: 10, CurrentPage: 7},
	}}
	// Finished topic counts whole, first unfinished counts its page,
	// anything after it counts nothing.
	if got := progress.Overall(sess); got != 50 {
		t.Fatalf("expected 50, got %d", got)
	}
}

func TestOverallProgressComplete(t *testing.T) {
	sess := &progress.Session{Topics: []progress.TopicProgress{
		{TopicID: "a", Pages: 10, CurrentPage: 10},
		{TopicID: "b", Pages: 30, CurrentPage: 30},
	}}
	if got := progress.Overall(sess); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
}

func TestOverallProgressEmpty(t *testing.T) {
	if got := progress.Overall(&progress.Session{}); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestResetRequiresFullRead(t *testing.T) {
	store := newFakeSessionStore()
	store.addTopic("t1", "anatomy", 10)
	svc := progress.NewService(store, nil)
	ctx := context.Background()

	sess, _, _ := svc.CreateOrGet(ctx, "u1", []string{"t1"})

	if err := svc.Reset(ctx, sess.ID, "u1"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error on partial read, got %v", err)
	}

	if err := svc.UpdatePage(ctx, sess.ID, "u1", "t1", 10); err != nil {
		t.Fatal(err)
	}
	if err := svc.Reset(ctx, sess.ID, "u1"); err != nil {
		t.Fatalf("reset after full read: %v", err)
	}
	if _, err := svc.Get(ctx, sess.ID, "u1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected session gone, got %v", err)
	}
}
