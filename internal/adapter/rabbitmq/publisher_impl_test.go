package rabbitmq

import (
	"encoding/json"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/user/apartment-scraper/internal/entity"
)

func TestRoutingKey(t *testing.T) {
	ok := entity.Succeeded(entity.PropertyRecord{URL: "https://example.com/a"})
	failed := entity.Failed(entity.ErrorRecord{URL: "https://example.com/b", Error: "boom"})

	if got := RoutingKey(ok); got != RoutingKeyScraped {
		t.Errorf("RoutingKey(success) = %q", got)
	}
	if got := RoutingKey(failed); got != RoutingKeyFailed {
		t.Errorf("RoutingKey(failure) = %q", got)
	}
}

func TestNewMessage(t *testing.T) {
	result := entity.Failed(entity.ErrorRecord{URL: "https://example.com/b", Error: "navigation failed"})

	msg, err := newMessage("run-1", result)
	if err != nil {
		t.Fatal(err)
	}

	if msg.ContentType != "application/json" || msg.DeliveryMode != amqp.Persistent {
		t.Errorf("content type %q, delivery mode %d", msg.ContentType, msg.DeliveryMode)
	}
	if msg.CorrelationId != "run-1" || msg.MessageId == "" {
		t.Errorf("correlation id %q, message id %q", msg.CorrelationId, msg.MessageId)
	}

	var decoded entity.ScrapeResult
	if err := json.Unmarshal(msg.Body, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.OK() || decoded.URL() != "https://example.com/b" {
		t.Errorf("decoded body %+v", decoded)
	}
}
