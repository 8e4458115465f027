package sink

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/synthaml/amlsim/internal/sim"
)

// kafkaBatchSize bounds how many events are published per write.
const kafkaBatchSize = 100

// txEvent is the JSON shape published to Kafka, one event per transaction.
type txEvent struct {
	RunID      string  `json:"run_id"`
	Step       int64   `json:"step"`
	Type       string  `json:"type"`
	Amount     float64 `json:"amount"`
	Orig       string  `json:"orig"`
	OrigBefore float64 `json:"orig_before"`
	OrigAfter  float64 `json:"orig_after"`
	Bene       string  `json:"bene"`
	BeneBefore float64 `json:"bene_before"`
	BeneAfter  float64 `json:"bene_after"`
	IsSAR      bool    `json:"is_sar"`
	AlertID    int64   `json:"alert_id"`
}

// KafkaSink publishes transaction events as JSON, keyed by originator so
// that one account's transactions land on one partition in order. Publish
// errors are logged and dropped.
type KafkaSink struct {
	writer *kafka.Writer
	log    *slog.Logger
	runID  string
	buf    []kafka.Message
}

// NewKafkaSink creates a sink publishing to the given brokers and topic.
func NewKafkaSink(brokers []string, topic, runID string, log *slog.Logger) *KafkaSink {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
	return &KafkaSink{
		writer: writer,
		log:    log,
		runID:  runID,
		buf:    make([]kafka.Message, 0, kafkaBatchSize),
	}
}

// Record implements sim.TransactionSink.
func (s *KafkaSink) Record(tx sim.Transaction) {
	data, err := json.Marshal(txEvent{
		RunID:      s.runID,
		Step:       tx.Step,
		Type:       tx.Type,
		Amount:     tx.Amount,
		Orig:       tx.OrigID,
		OrigBefore: tx.OrigBefore,
		OrigAfter:  tx.OrigAfter,
		Bene:       tx.BeneID,
		BeneBefore: tx.BeneBefore,
		BeneAfter:  tx.BeneAfter,
		IsSAR:      tx.IsSAR,
		AlertID:    tx.AlertID,
	})
	if err != nil {
		s.log.Error("marshaling transaction event", "error", err)
		return
	}
	s.buf = append(s.buf, kafka.Message{
		Key:   []byte(tx.OrigID),
		Value: data,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "run_id", Value: []byte(s.runID)},
		},
	})
	if len(s.buf) >= kafkaBatchSize {
		s.publish()
	}
}

func (s *KafkaSink) publish() {
	if len(s.buf) == 0 {
		return
	}
	if err := s.writer.WriteMessages(context.Background(), s.buf...); err != nil {
		s.log.Error("publishing transaction events", "error", err, "count", len(s.buf))
	}
	s.buf = s.buf[:0]
}

// Flush implements Flusher.
func (s *KafkaSink) Flush() error {
	s.publish()
	return nil
}

// Close publishes remaining events and closes the writer.
func (s *KafkaSink) Close() error {
	s.publish()
	return s.writer.Close()
}
