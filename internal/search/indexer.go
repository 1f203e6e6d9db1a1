package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/bchaput/rest-shop/internal/events"
)

// Indexer mirrors product change events into the search index. It is an
// events.Sink: best-effort, failures are logged by the broadcaster.
type Indexer struct {
	ES    *elasticsearch.Client
	Index string
}

func (i *Indexer) Name() string { return "elasticsearch" }

func (i *Indexer) Deliver(ctx context.Context, ev events.Event) error {
	if ev.Op == events.OpDelete {
		res, err := i.ES.Delete(i.Index, ev.Key,
			i.ES.Delete.WithContext(ctx),
		)
		if err != nil {
			return fmt.Errorf("es delete: %w", err)
		}
		defer res.Body.Close()
		// deleting an unindexed document is not a failure
		if res.IsError() && res.StatusCode != http.StatusNotFound {
			return fmt.Errorf("es delete: %s", res.Status())
		}
		return nil
	}

	body, err := json.Marshal(ev.Data)
	if err != nil {
		return fmt.Errorf("es index: marshal: %w", err)
	}
	res, err := i.ES.Index(i.Index, bytes.NewReader(body),
		i.ES.Index.WithDocumentID(ev.Key),
		i.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("es index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}
