package handler

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"testing"
	"video-stream/dto"
	"video-stream/pkg/rabbitmq"
)

type fakeProcess struct {
	err  error
	msgs []dto.JobMessage
}

func (f *fakeProcess) Process(ctx context.Context, msg dto.JobMessage) error {
	f.msgs = append(f.msgs, msg)
	return f.err
}

func TestJobHandler(t *testing.T) {
	msg := dto.JobMessage{JobId: uuid.New(), VideoId: "v"}
	body, _ := json.Marshal(msg)

	svc := &fakeProcess{}
	deps := ServiceDependencies{ProcessService: svc}
	if err := JobHandler(context.Background(), amqp.Delivery{Body: body}, deps); err != nil {
		t.Fatalf("JobHandler returned error %v", err)
	}
	if len(svc.msgs) != 1 || svc.msgs[0] != msg {
		t.Errorf("processed %+v", svc.msgs)
	}

	svc.err = errors.New("archive offline")
	err := JobHandler(context.Background(), amqp.Delivery{Body: body}, deps)
	if !errors.Is(err, rabbitmq.ErrRequeue) {
		t.Errorf("error = %v, want requeue", err)
	}
}

func TestJobHandlerBadPayload(t *testing.T) {
	svc := &fakeProcess{}
	err := JobHandler(context.Background(), amqp.Delivery{Body: []byte("{")}, ServiceDependencies{ProcessService: svc})
	if err == nil || errors.Is(err, rabbitmq.ErrRequeue) {
		t.Errorf("error = %v, want a non-requeue error", err)
	}
	if len(svc.msgs) != 0 {
		t.Error("bad payload reached the service")
	}
}

func TestLocalJobHandler(t *testing.T) {
	svc := &fakeProcess{}
	h := LocalJobHandler(ServiceDependencies{ProcessService: svc})
	if err := h(context.Background(), dto.JobMessage{VideoId: "x"}); err != nil {
		t.Fatal(err)
	}
	if len(svc.msgs) != 1 {
		t.Errorf("processed %d messages, want 1", len(svc.msgs))
	}
}
