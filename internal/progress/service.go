package progress

import (
	"context"
	"encoding/base64"
	"io"
	"log"
	"math"
	"sort"

	"github.com/quizdoc/quizdoc/internal/apperr"
	"github.com/quizdoc/quizdoc/internal/storage"
)

// Service owns learning-session identity and progress computation.
type Service struct {
	store Store
	blobs storage.BlobStore
}

func NewService(store Store, blobs storage.BlobStore) *Service {
	return &Service{store: store, blobs: blobs}
}

// sameTopicSet reports whether a session holds exactly the requested
// topic-id set, independent of order.
func sameTopicSet(s Session, topicIDs []string) bool {
	if len(s.Topics) != len(topicIDs) {
		return false
	}
	have := make(map[string]bool, len(s.Topics))
	for _, tp := range s.Topics {
		have[tp.TopicID] = true
	}
	for _, id := range topicIDs {
		if !have[id] {
			return false
		}
	}
	return true
}

// CreateOrGet returns the existing session holding exactly topicIDs, or
// creates a new one with every counter reset to page 1. The returned bool
// is true when a new session was created.
func (s *Service) CreateOrGet(ctx context.Context, userID string, topicIDs []string) (*Session, bool, error) {
	if len(topicIDs) == 0 {
		return nil, false, apperr.Validation("topics are required")
	}
	existing, err := s.store.ListSessions(ctx, userID)
	if err != nil {
		return nil, false, apperr.Storage(err)
	}
	for i := range existing {
		if sameTopicSet(existing[i], topicIDs) {
			return &existing[i], false, nil
		}
	}
	sess, err := s.store.CreateSession(ctx, userID, topicIDs)
	if err != nil {
		return nil, false, err
	}
	return sess, true, nil
}

func (s *Service) Get(ctx context.Context, id, userID string) (*Session, error) {
	return s.store.GetSession(ctx, id, userID)
}

func (s *Service) List(ctx context.Context, userID string) ([]Session, error) {
	return s.store.ListSessions(ctx, userID)
}

// Documents inlines each topic's PDF as base64, best effort: a failed
// fetch yields a nil entry for that topic rather than failing the whole
// request.
func (s *Service) Documents(ctx context.Context, sess *Session) []TopicPDF {
	out := make([]TopicPDF, 0, len(sess.Topics))
	for _, tp := range sess.Topics {
		entry := TopicPDF{TopicID: tp.TopicID}
		if tp.DocfileName != "" {
			if rc, err := s.blobs.Get(ctx, tp.DocfileName); err == nil {
				raw, rerr := io.ReadAll(rc)
				rc.Close()
				if rerr == nil {
					enc := base64.StdEncoding.EncodeToString(raw)
					entry.PDF = &enc
				} else {
					log.Printf("read document %s: %v", tp.DocfileName, rerr)
				}
			} else {
				log.Printf("fetch document %s: %v", tp.DocfileName, err)
			}
		}
		out = append(out, entry)
	}
	return out
}

// UpdatePage persists the reader's position in one topic, clamped to the
// topic's page count.
func (s *Service) UpdatePage(ctx context.Context, sessionID, userID, topicID string, page int) error {
	sess, err := s.store.GetSession(ctx, sessionID, userID)
	if err != nil {
		return err
	}
	var found *TopicProgress
	for i := range sess.Topics {
		if sess.Topics[i].TopicID == topicID {
			found = &sess.Topics[i]
			break
		}
	}
	if found == nil {
		return apperr.NotFound("topic not part of this learning session")
	}
	if page < 1 {
		page = 1
	}
	if found.Pages > 0 && page > found.Pages {
		page = found.Pages
	}
	if err := s.store.UpdateCurrentPage(ctx, sessionID, topicID, page); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// Overall computes percentage complete across the session. Topics are
// ordered by id: fully read topics contribute their whole page count, the
// first unfinished topic contributes its current page, later topics
// contribute nothing.
func Overall(sess *Session) int {
	topics := append([]TopicProgress(nil), sess.Topics...)
	sort.Slice(topics, func(i, j int) bool { return topics[i].TopicID < topics[j].TopicID })

	totalPages := 0
	completed := 0
	inProgressSeen := false
	for _, tp := range topics {
		totalPages += tp.Pages
		switch {
		case tp.Pages > 0 && tp.CurrentPage >= tp.Pages:
			completed += tp.Pages
		case !inProgressSeen:
			completed += tp.CurrentPage
			inProgressSeen = true
		}
	}
	if totalPages == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(totalPages) * 100))
}

// Reset deletes the whole session, cascading its per-topic rows. Only a
// fully read session may be reset.
func (s *Service) Reset(ctx context.Context, sessionID, userID string) error {
	sess, err := s.store.GetSession(ctx, sessionID, userID)
	if err != nil {
		return err
	}
	if len(sess.Topics) == 0 {
		return apperr.Validation("no topics found to delete")
	}
	if Overall(sess) < 100 {
		return apperr.Validation("session is not fully read yet")
	}
	if err := s.store.DeleteSession(ctx, sessionID, userID); err != nil {
		return apperr.Storage(err)
	}
	return nil
}
