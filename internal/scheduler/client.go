package scheduler

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"brigadas_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const (
	// repairDelay leaves room for in-flight retries on the same pair to settle.
	repairDelay      = 30 * time.Second
	repairMaxRetry   = 10
	noticeMaxRetry   = 5
	repairUniqueness = 10 * time.Minute
)

type Client struct {
	client *asynq.Client
	queue  string
}

// RepairScheduler queues reconciliation of a brigade/report pair.
type RepairScheduler interface {
	EnqueueAssignmentRepair(ctx context.Context, brigadeID, reportID string) error
}

// NoticeScheduler queues the e-mail sent to a brigade lead on assignment.
type NoticeScheduler interface {
	EnqueueAssignmentNotice(ctx context.Context, payload AssignmentNoticePayload) error
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Client) EnqueueAssignmentRepair(ctx context.Context, brigadeID, reportID string) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewAssignmentRepairTask(AssignmentRepairPayload{BrigadeID: brigadeID, ReportID: reportID})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.ProcessIn(repairDelay),
		asynq.MaxRetry(repairMaxRetry),
		asynq.Unique(repairUniqueness),
	)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	return err
}

func (c *Client) EnqueueAssignmentNotice(ctx context.Context, payload AssignmentNoticePayload) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewAssignmentNoticeTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.MaxRetry(noticeMaxRetry))
	return err
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
