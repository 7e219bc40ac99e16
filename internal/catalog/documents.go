package catalog

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/quizdoc/quizdoc/internal/apperr"
)

// documentKey is the blob key for a topic's PDF. One document per topic;
// re-upload overwrites.
func documentKey(topicID string) string {
	return fmt.Sprintf("%s-document.pdf", topicID)
}

// UploadDocument stores a base64 PDF for the topic and records its page
// count.
func (s *Service) UploadDocument(ctx context.Context, topicID, encoded string) (*Topic, error) {
	t, err := s.store.GetTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, apperr.Validation("document is not valid base64")
	}
	if !bytes.HasPrefix(raw, []byte("%PDF")) {
		return nil, apperr.Validation("document is not a PDF")
	}
	pages, err := api.PageCount(bytes.NewReader(raw), nil)
	if err != nil {
		return nil, apperr.Validation("could not read PDF structure")
	}

	key := documentKey(topicID)
	if _, err := s.blobs.Put(ctx, key, bytes.NewReader(raw), int64(len(raw)), "application/pdf"); err != nil {
		return nil, apperr.Storage(err)
	}
	t.DocfileName = key
	t.Pages = pages
	t.UpdatedAt = time.Now().Unix()
	if err := s.store.UpdateTopic(ctx, t); err != nil {
		return nil, apperr.Storage(err)
	}
	return t, nil
}

// GetDocument returns the topic's PDF inlined as base64.
func (s *Service) GetDocument(ctx context.Context, topicID string) (*Document, error) {
	t, err := s.store.GetTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if t.DocfileName == "" {
		return nil, apperr.NotFound("topic has no document")
	}
	rc, err := s.blobs.Get(ctx, t.DocfileName)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return &Document{
		TopicID: t.ID,
		Name:    t.Name,
		Pages:   t.Pages,
		PDF:     base64.StdEncoding.EncodeToString(raw),
	}, nil
}
