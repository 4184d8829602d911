package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"
	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"

	"talio/internal/domain"
	"talio/internal/events"
)

// Enqueuer is the part of an azqueue client the journal writes to.
type Enqueuer interface {
	EnqueueMessage(ctx context.Context, content string, o *azqueue.EnqueueMessageOptions) (azqueue.EnqueueMessagesResponse, error)
}

// NewQueueClient opens the journal queue with retries for transient failures.
func NewQueueClient(connStr, queue string) (*azqueue.QueueClient, error) {
	opts := azqueue.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    3,
				TryTimeout:    time.Second * 30,
				RetryDelay:    time.Second * 1,
				MaxRetryDelay: time.Second * 10,
				StatusCodes:   []int{408, 429, 500, 502, 503, 504},
			},
		},
	}
	return azqueue.NewQueueClientFromConnectionString(connStr, queue, &opts)
}

type entry struct {
	Board   int64           `json:"board"`
	Subject string          `json:"subject,omitempty"`
	At      time.Time       `json:"at"`
	Event   json.RawMessage `json:"event"`
}

// Journal appends every event of every board to a queue. Delivery is best
// effort: a failed enqueue is logged and never fails the patch.
type Journal struct {
	queue   Enqueuer
	logger  *log.Logger
	timeout time.Duration
	now     func() time.Time
	obs     *events.Observer
}

func New(queue Enqueuer, logger *log.Logger) *Journal {
	if logger == nil {
		logger = log.StandardLogger()
	}
	j := &Journal{queue: queue, logger: logger, timeout: 5 * time.Second, now: time.Now}
	j.obs = events.NewObserver(j)
	return j
}

// Observer is the identity to subscribe for every board.
func (j *Journal) Observer() domain.BoardObserver { return j.obs }

func (j *Journal) Send(e events.Event) error {
	msg, err := j.encode(e)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	if _, err := j.queue.EnqueueMessage(ctx, msg, nil); err != nil {
		j.logger.WithError(err).WithFields(log.Fields{"type": e.Type(), "board": e.Board()}).Error("journal enqueue failed")
	}
	return nil
}

func (j *Journal) encode(e events.Event) (string, error) {
	payload, err := events.Marshal(e)
	if err != nil {
		return "", err
	}
	ent := entry{Board: e.Board(), At: j.now().UTC(), Event: payload}
	kind, id, err := events.Subject(e)
	if err != nil {
		return "", err
	}
	if kind != "" {
		ent.Subject = fmt.Sprintf("%s:%d", kind, id)
	}
	data, err := sonic.Marshal(ent)
	if err != nil {
		return "", fmt.Errorf("encode journal entry: %w", err)
	}
	return string(data), nil
}
