// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

package qdrant

import (
	"context"
	"fmt"
	"strings"
	"time"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

// Client implements VectorStore over the Qdrant gRPC API.
type Client struct {
	conn        *grpc.ClientConn
	collections pb.CollectionsClient
	points      pb.PointsClient
	apiKey      string
	timeout     time.Duration
}

// NewClient dials Qdrant. url may carry an http:// or https:// scheme;
// without one, TLS is used for Qdrant Cloud hosts.
func NewClient(url, apiKey string) (*Client, error) {
	target, useTLS := dialTarget(url)

	creds := insecure.NewCredentials()
	if useTLS {
		creds = credentials.NewTLS(nil)
	}

	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Qdrant: %w", err)
	}

	return &Client{
		conn:        conn,
		collections: pb.NewCollectionsClient(conn),
		points:      pb.NewPointsClient(conn),
		apiKey:      apiKey,
		timeout:     30 * time.Second,
	}, nil
}

func dialTarget(url string) (string, bool) {
	switch {
	case strings.HasPrefix(url, "https://"):
		return strings.TrimPrefix(url, "https://"), true
	case strings.HasPrefix(url, "http://"):
		return strings.TrimPrefix(url, "http://"), false
	default:
		lower := strings.ToLower(url)
		return url, strings.Contains(lower, "cloud") || strings.Contains(lower, ".qdrant.io")
	}
}

// Close closes the gRPC connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) ctxWithAuth(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, c.timeout)
	if c.apiKey != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "api-key", c.apiKey)
	}
	return ctx, cancel
}

// EnsureCollection creates a cosine collection of the given dimension
// unless one with that name already exists.
func (c *Client) EnsureCollection(ctx context.Context, name string, dimension int) error {
	authCtx, cancel := c.ctxWithAuth(ctx)
	defer cancel()

	resp, err := c.collections.List(authCtx, &pb.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	for _, col := range resp.Collections {
		if col.Name == name {
			return nil
		}
	}

	_, err = c.collections.Create(authCtx, &pb.CreateCollection{
		CollectionName: name,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(dimension),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create collection %s: %w", name, err)
	}
	return nil
}

// UpsertIssues writes issue points with their payload.
func (c *Client) UpsertIssues(ctx context.Context, collection string, points []*IssuePoint) error {
	if len(points) == 0 {
		return nil
	}

	authCtx, cancel := c.ctxWithAuth(ctx)
	defer cancel()

	qPoints := make([]*pb.PointStruct, len(points))
	for i, p := range points {
		qPoints[i] = &pb.PointStruct{
			Id:      &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: p.ID}},
			Vectors: &pb.Vectors{VectorsOptions: &pb.Vectors_Vector{Vector: &pb.Vector{Data: p.Vector}}},
			Payload: issuePayload(p),
		}
	}

	_, err := c.points.Upsert(authCtx, &pb.UpsertPoints{
		CollectionName: collection,
		Points:         qPoints,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert issues: %w", err)
	}
	return nil
}

// SearchIssues finds indexed issues of org/repo nearest to vector.
func (c *Client) SearchIssues(ctx context.Context, collection, org, repo string, vector []float32, limit int, threshold float64) ([]*IssueHit, error) {
	authCtx, cancel := c.ctxWithAuth(ctx)
	defer cancel()

	scoreThreshold := float32(threshold)
	resp, err := c.points.Search(authCtx, &pb.SearchPoints{
		CollectionName: collection,
		Vector:         vector,
		Limit:          uint64(limit),
		ScoreThreshold: &scoreThreshold,
		Filter: &pb.Filter{
			Must: []*pb.Condition{keywordCondition(fieldOrg, org), keywordCondition(fieldRepo, repo)},
		},
		WithPayload: &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search issues: %w", err)
	}

	hits := make([]*IssueHit, 0, len(resp.Result))
	for _, point := range resp.Result {
		hits = append(hits, issueHit(point.Payload, point.Score))
	}
	return hits, nil
}

func keywordCondition(key, value string) *pb.Condition {
	return &pb.Condition{
		ConditionOneOf: &pb.Condition_Field{
			Field: &pb.FieldCondition{
				Key:   key,
				Match: &pb.Match{MatchValue: &pb.Match_Keyword{Keyword: value}},
			},
		},
	}
}

func issuePayload(p *IssuePoint) map[string]*pb.Value {
	return map[string]*pb.Value{
		fieldOrg:    toQdrantValue(p.Org),
		fieldRepo:   toQdrantValue(p.Repo),
		fieldNumber: toQdrantValue(p.Number),
		fieldTitle:  toQdrantValue(p.Title),
		fieldURL:    toQdrantValue(p.URL),
		fieldState:  toQdrantValue(p.State),
	}
}

func issueHit(payload map[string]*pb.Value, score float32) *IssueHit {
	hit := &IssueHit{Score: score}
	if n, ok := fromQdrantValue(payload[fieldNumber]).(int64); ok {
		hit.Number = int(n)
	}
	hit.Title, _ = fromQdrantValue(payload[fieldTitle]).(string)
	hit.URL, _ = fromQdrantValue(payload[fieldURL]).(string)
	hit.State, _ = fromQdrantValue(payload[fieldState]).(string)
	return hit
}

func toQdrantValue(v interface{}) *pb.Value {
	switch val := v.(type) {
	case string:
		return &pb.Value{Kind: &pb.Value_StringValue{StringValue: val}}
	case int:
		return &pb.Value{Kind: &pb.Value_IntegerValue{IntegerValue: int64(val)}}
	case int64:
		return &pb.Value{Kind: &pb.Value_IntegerValue{IntegerValue: val}}
	case float64:
		return &pb.Value{Kind: &pb.Value_DoubleValue{DoubleValue: val}}
	case bool:
		return &pb.Value{Kind: &pb.Value_BoolValue{BoolValue: val}}
	default:
		return &pb.Value{Kind: &pb.Value_StringValue{StringValue: fmt.Sprintf("%v", val)}}
	}
}

func fromQdrantValue(v *pb.Value) interface{} {
	if v == nil {
		return nil
	}
	switch k := v.Kind.(type) {
	case *pb.Value_StringValue:
		return k.StringValue
	case *pb.Value_IntegerValue:
		return k.IntegerValue
	case *pb.Value_DoubleValue:
		return k.DoubleValue
	case *pb.Value_BoolValue:
		return k.BoolValue
	default:
		return nil
	}
}
