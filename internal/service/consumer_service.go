package service

import (
	"context"
	"encoding/json"

	"github.com/sgeraldes/hidock-next-sub000/internal/dto"
	"github.com/sgeraldes/hidock-next-sub000/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const moduleConsumer = "CONSUMER"

// MessageTypeQueueState tags queue snapshots pushed to live clients.
const MessageTypeQueueState = "download:state"

// Broadcaster delivers a typed message to every connected observer.
type Broadcaster interface {
	Broadcast(messageType string, data interface{})
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub      *gochannel.GoChannel
	topicName   string
	broadcaster Broadcaster
	logger      logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	broadcaster Broadcaster,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:      pubSub,
		topicName:   topicName,
		broadcaster: broadcaster,
		logger:      log,
	}
}

// Consume forwards queue snapshots to the broadcaster until ctx is done.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var state dto.DownloadQueueState
	if err := json.Unmarshal(msg.Payload, &state); err != nil {
		cs.logger.Error(moduleConsumer, "Failed to unmarshal queue state", map[string]interface{}{"error": err.Error()})
		// Malformed snapshots are dropped; a newer one always follows.
		msg.Ack()
		return
	}

	cs.broadcaster.Broadcast(MessageTypeQueueState, state)
	msg.Ack()
}
