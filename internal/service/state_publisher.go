package service

import (
	"context"
	"encoding/json"

	"github.com/sgeraldes/hidock-next-sub000/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IStatePublisher broadcasts download queue snapshots to observers.
type IStatePublisher interface {
	PublishQueueState(ctx context.Context, state *dto.DownloadQueueState) error
}

type statePublisher struct {
	pubSub    *gochannel.GoChannel
	topicName string
}

func NewStatePublisher(topicName string, pubSub *gochannel.GoChannel) IStatePublisher {
	return &statePublisher{
		pubSub:    pubSub,
		topicName: topicName,
	}
}

func (p *statePublisher) PublishQueueState(ctx context.Context, state *dto.DownloadQueueState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return p.pubSub.Publish(p.topicName, msg)
}
