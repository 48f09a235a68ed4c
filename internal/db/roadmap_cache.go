package db

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hmrguez/QRiosity/internal/learning"
)

type CacheClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// roadmapItem mirrors the cache table. ExpiresAt is the table's TTL
// attribute.
type roadmapItem struct {
	PK        string `dynamodbav:"PK"`
	Topic     string `dynamodbav:"Topic"`
	Payload   string `dynamodbav:"Payload"`
	CreatedAt int64  `dynamodbav:"CreatedAt"`
	ExpiresAt int64  `dynamodbav:"ExpiresAt"`
}

// RoadmapCache stores generated roadmaps per normalized topic.
type RoadmapCache struct {
	ddb   CacheClient
	table string
	ttl   time.Duration
	now   func() time.Time
}

func NewRoadmapCache(ddb CacheClient, table string, ttl time.Duration) *RoadmapCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RoadmapCache{ddb: ddb, table: table, ttl: ttl, now: time.Now}
}

func NormalizeTopic(topic string) string {
	return strings.Join(strings.Fields(strings.ToLower(topic)), " ")
}

func RoadmapPK(topic string) string {
	sum := sha256.Sum256([]byte(NormalizeTopic(topic)))
	return "ROADMAP#" + hex.EncodeToString(sum[:])
}

// Get returns (roadmap, true) on a live hit. Expired items that DynamoDB has
// not swept yet count as misses.
func (c *RoadmapCache) Get(ctx context.Context, topic string) (*learning.Roadmap, bool, error) {
	out, err := c.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.table),
		Key: map[string]ddbtypes.AttributeValue{
			"PK": &ddbtypes.AttributeValueMemberS{Value: RoadmapPK(topic)},
		},
	})
	if err != nil {
		return nil, false, fmt.Errorf("cache GetItem: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, false, nil
	}

	var item roadmapItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, false, nil
	}
	if item.ExpiresAt > 0 && item.ExpiresAt <= c.now().UTC().Unix() {
		return nil, false, nil
	}

	// payloads that no longer satisfy the roadmap contract count as misses
	r, err := learning.ParseRoadmap(item.Payload)
	if err != nil {
		return nil, false, nil
	}
	return &r, true, nil
}

func (c *RoadmapCache) Put(ctx context.Context, topic string, r learning.Roadmap) error {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal roadmap: %w", err)
	}

	now := c.now().UTC()
	av, err := attributevalue.MarshalMap(roadmapItem{
		PK:        RoadmapPK(topic),
		Topic:     NormalizeTopic(topic),
		Payload:   string(b),
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(c.ttl).Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshal cache item: %w", err)
	}

	_, err = c.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.table),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("cache PutItem: %w", err)
	}
	return nil
}
