package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-analytics-service/internal/domain"
)

// ResponseStore keeps responses in Redis.
// Documents are stored as: HSET responses:{quizID} {responseID} {response JSON}
// Submission order as:     ZADD responses:{quizID}:order {submittedAt unix ms} {responseID}
type ResponseStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseStore returns a store whose keys expire ttl after the last
// write; a non-positive ttl keeps them forever.
func NewResponseStore(client *redis.Client, ttl time.Duration) *ResponseStore {
	return &ResponseStore{client: client, ttl: ttl}
}

func (s *ResponseStore) Save(ctx context.Context, response domain.Response) error {
	data, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	docs, order := responsesKey(response.QuizID), orderKey(response.QuizID)

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, docs, response.ID, data)
		pipe.ZAddNX(ctx, order, redis.Z{Score: float64(response.SubmittedAt.UnixMilli()), Member: response.ID})
		if s.ttl > 0 {
			pipe.Expire(ctx, docs, s.ttl)
			pipe.Expire(ctx, order, s.ttl)
		}
		return nil
	})
	return err
}

func (s *ResponseStore) Get(ctx context.Context, quizID, responseID string) (domain.Response, error) {
	data, err := s.client.HGet(ctx, responsesKey(quizID), responseID).Bytes()
	if isMiss(err) {
		return domain.Response{}, domain.ErrResponseNotFound
	}
	if err != nil {
		return domain.Response{}, err
	}
	return decodeResponse(data)
}

func (s *ResponseStore) List(ctx context.Context, quizID string) ([]domain.Response, error) {
	ids, err := s.client.ZRange(ctx, orderKey(quizID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.Response{}, nil
	}
	values, err := s.client.HMGet(ctx, responsesKey(quizID), ids...).Result()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Response, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// index entry without a document, left behind by a partial delete
			continue
		}
		response, err := decodeResponse([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("response %s: %w", ids[i], err)
		}
		out = append(out, response)
	}
	return out, nil
}

func (s *ResponseStore) Delete(ctx context.Context, quizID, responseID string) error {
	var removed *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.HDel(ctx, responsesKey(quizID), responseID)
		pipe.ZRem(ctx, orderKey(quizID), responseID)
		return nil
	})
	if err != nil {
		return err
	}
	if removed.Val() == 0 {
		return domain.ErrResponseNotFound
	}
	return nil
}

func decodeResponse(data []byte) (domain.Response, error) {
	var response domain.Response
	if err := json.Unmarshal(data, &response); err != nil {
		return domain.Response{}, fmt.Errorf("decode response: %w", err)
	}
	return response, nil
}

func responsesKey(quizID string) string {
	return "responses:" + quizID
}

func orderKey(quizID string) string {
	return "responses:" + quizID + ":order"
}
