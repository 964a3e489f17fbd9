package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"ventureshield/internal/model"
)

// ReportCache handles Redis operations for enriched analysis results
type ReportCache interface {
	SetReport(ctx context.Context, digest string, result *model.AnalysisResult) error
	GetReport(ctx context.Context, digest string) (*model.AnalysisResult, error)
	DeleteReport(ctx context.Context, digest string) error
}

type reportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache creates a new report cache
func NewReportCache(client *redis.Client, ttl time.Duration) ReportCache {
	return &reportCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *reportCache) key(digest string) string {
	return fmt.Sprintf("analysis:%s", digest)
}

func (c *reportCache) SetReport(ctx context.Context, digest string, result *model.AnalysisResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(digest), data, c.ttl).Err()
}

func (c *reportCache) GetReport(ctx context.Context, digest string) (*model.AnalysisResult, error) {
	data, err := c.client.Get(ctx, c.key(digest)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var result model.AnalysisResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *reportCache) DeleteReport(ctx context.Context, digest string) error {
	return c.client.Del(ctx, c.key(digest)).Err()
}

// SubmissionDigest hashes the canonical form of a submission.
// Answer order, multi-choice order and overwritten duplicates do not
// change the digest.
func SubmissionDigest(sub *model.Submission) (string, error) {
	latest := make(map[string]model.Answer, len(sub.Answers))
	for _, a := range sub.Answers {
		latest[a.QuestionID] = a
	}

	answers := make([]model.Answer, 0, len(latest))
	for _, a := range latest {
		if multi, ok := a.Value.(model.MultiChoiceValue); ok {
			sorted := append(model.MultiChoiceValue{}, multi...)
			sort.Strings(sorted)
			a.Value = sorted
		}
		answers = append(answers, a)
	}
	sort.Slice(answers, func(i, j int) bool { return answers[i].QuestionID < answers[j].QuestionID })

	data, err := json.Marshal(model.Submission{CompanyContext: sub.CompanyContext, Answers: answers})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
