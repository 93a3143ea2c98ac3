package redis

import (
	"NutriVision/internal/entity"
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const analysisKeyPrefix = "analysis:"

var ErrAnalysisNotFound = errors.New("analysis not found")

type IRedis interface {
	SetAnalysis(ctx context.Context, id string, result *entity.AnalysisResult, expiration time.Duration) error
	GetAnalysis(ctx context.Context, id string) (*entity.AnalysisResult, error)
	DeleteAnalysis(ctx context.Context, id string) error
	Close() error
}

type Config struct {
	Address  string
	Password string
	DB       int
}

type redisClient struct {
	client *redis.Client
	log    *logrus.Logger
}

// New connects to the store described by cfg. An unreachable server is only
// logged; commands fail until it comes up.
func New(cfg Config, log *logrus.Logger) IRedis {
	log.Infof("Connecting to Redis at %s...", cfg.Address)

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Errorf("Failed to connect to Redis: %v", err)
	} else {
		log.Info("Successfully connected to Redis")
	}

	return NewWithClient(client, log)
}

func NewWithClient(client *redis.Client, log *logrus.Logger) IRedis {
	return &redisClient{client: client, log: log}
}

func analysisKey(id string) string {
	return analysisKeyPrefix + id
}

func (r *redisClient) SetAnalysis(ctx context.Context, id string, result *entity.AnalysisResult, expiration time.Duration) error {
	payload, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode analysis %s: %w", id, err)
	}

	r.log.Debugf("Storing analysis %s with expiration %v", id, expiration)
	if err := r.client.Set(ctx, analysisKey(id), payload, expiration).Err(); err != nil {
		r.log.Errorf("Error storing analysis %s: %v", id, err)
		return err
	}
	return nil
}

func (r *redisClient) GetAnalysis(ctx context.Context, id string) (*entity.AnalysisResult, error) {
	val, err := r.client.Get(ctx, analysisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		r.log.Debugf("Analysis not found for key %s", id)
		return nil, ErrAnalysisNotFound
	} else if err != nil {
		r.log.Errorf("Error getting analysis %s: %v", id, err)
		return nil, err
	}

	var result entity.AnalysisResult
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(val, &result); err != nil {
		return nil, fmt.Errorf("decode analysis %s: %w", id, err)
	}
	return &result, nil
}

func (r *redisClient) DeleteAnalysis(ctx context.Context, id string) error {
	result, err := r.client.Del(ctx, analysisKey(id)).Result()
	if err != nil {
		r.log.Errorf("Error deleting analysis %s: %v", id, err)
		return err
	}

	if result == 0 {
		r.log.Debugf("Analysis %s not found for deletion", id)
		return ErrAnalysisNotFound
	}

	r.log.Debugf("Deleted analysis %s", id)
	return nil
}

func (r *redisClient) Close() error {
	return r.client.Close()
}
