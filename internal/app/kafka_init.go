package app

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/dualtech/ordenes-api/internal/messaging/kafka"
)

// parseBrokerList разбирает список брокеров из KAFKA_BROKERS,
// отбрасывая пустые элементы и лишние пробелы.
func parseBrokerList(brokers string) []string {
	parts := strings.Split(brokers, ",")
	list := make([]string, 0, len(parts))
	for _, part := range parts {
		if addr := strings.TrimSpace(part); addr != "" {
			list = append(list, addr)
		}
	}
	return list
}

// initKafkaProducer инициализирует Kafka producer, когда задан список брокеров.
// Недоступный брокер не валит сервис: события остаются в outbox до следующего
// запуска с работающей Kafka.
func initKafkaProducer(brokers string, logger *log.Entry) (*kafka.Producer, error) {
	brokerList := parseBrokerList(brokers)
	if len(brokerList) == 0 {
		return nil, nil
	}

	producer, err := kafka.NewProducer(brokerList)
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		return nil, err
	}

	logger.WithField("brokers", brokerList).Info("kafka producer initialized")
	return producer, nil
}

// closeKafka закрывает Kafka producer если он не nil.
func closeKafka(producer *kafka.Producer, logger *log.Entry) {
	if producer == nil {
		return
	}

	if err := producer.Close(); err != nil {
		logger.WithError(err).Warn("failed to close kafka producer")
		return
	}
	logger.Info("kafka producer closed")
}
