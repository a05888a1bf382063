// api/audit/repository.go
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/aegis/api/logging"
)

const auditIndex = "aegis-audit-events"

type Repository interface {
	Record(ctx context.Context, event Event) error
	QueryEvents(ctx context.Context, from, to time.Time, actor, objectID string) ([]Event, error)
}

type ElasticsearchRepository struct {
	esClient *elasticsearch.Client
}

// NewElasticsearchRepository creates a new repository with a given Elasticsearch client URL.
func NewElasticsearchRepository(esURL string) (*ElasticsearchRepository, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{esURL},
	}
	esClient, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &ElasticsearchRepository{esClient: esClient}, nil
}

// Record indexes an audit event in Elasticsearch.
func (r *ElasticsearchRepository) Record(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      auditIndex,
		DocumentID: uuid.NewString(),
		Body:       strings.NewReader(string(data)),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, r.esClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing document: %s", res.String())
	}

	return nil
}

// QueryEvents searches audit events within a time frame, optionally filtered by actor and object ID.
func (r *ElasticsearchRepository) QueryEvents(ctx context.Context, from, to time.Time, actor, objectID string) ([]Event, error) {
	must := []interface{}{
		map[string]interface{}{
			"range": map[string]interface{}{
				"timestamp": map[string]interface{}{
					"gte": from.Format(time.RFC3339),
					"lte": to.Format(time.RFC3339),
				},
			},
		},
	}

	if actor != "" {
		must = append(must, map[string]interface{}{
			"match": map[string]interface{}{
				"actor": actor,
			},
		})
	}

	if objectID != "" {
		must = append(must, map[string]interface{}{
			"match": map[string]interface{}{
				"object_id": objectID,
			},
		})
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": must,
			},
		},
	}

	var buf strings.Builder
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, err
	}

	res, err := r.esClient.Search(
		r.esClient.Search.WithContext(ctx),
		r.esClient.Search.WithIndex(auditIndex),
		r.esClient.Search.WithBody(strings.NewReader(buf.String())),
		r.esClient.Search.WithPretty(),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error searching documents: %s", res.String())
	}

	var rmap map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&rmap); err != nil {
		return nil, err
	}

	hits := rmap["hits"].(map[string]interface{})["hits"].([]interface{})
	events := make([]Event, len(hits))
	for i, hit := range hits {
		source := hit.(map[string]interface{})["_source"]
		data, _ := json.Marshal(source)
		json.Unmarshal(data, &events[i])
	}

	return events, nil
}

// ZapRepository writes audit events to the structured log. It backs the
// audit trail in deployments without an Elasticsearch cluster; querying is
// not supported there.
type ZapRepository struct{}

func NewZapRepository() *ZapRepository {
	return &ZapRepository{}
}

func (r *ZapRepository) Record(_ context.Context, event Event) error {
	fields := []zap.Field{
		zap.Time("timestamp", event.Timestamp),
		zap.String("actor", event.Actor),
		zap.String("action", event.Action),
	}
	if event.ObjectID != "" {
		fields = append(fields,
			zap.String("objectType", event.ObjectType),
			zap.String("objectID", event.ObjectID))
	}
	if event.AclID != 0 {
		fields = append(fields, zap.Int64("aclID", event.AclID))
	}
	if event.Granted != nil {
		fields = append(fields, zap.Bool("granted", *event.Granted))
	}
	logger.Info("Audit event", fields...)
	return nil
}

func (r *ZapRepository) QueryEvents(context.Context, time.Time, time.Time, string, string) ([]Event, error) {
	return nil, fmt.Errorf("audit queries require the elasticsearch repository")
}

var (
	_ Repository = (*ElasticsearchRepository)(nil)
	_ Repository = (*ZapRepository)(nil)
)
