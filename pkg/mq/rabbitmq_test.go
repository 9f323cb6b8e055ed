package mq_test

import (
	"testing"
	"time"

	"github.com/Behyna/sms-services/messagegateway/pkg/mq"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
)

func TestTopology_QueueArgs(t *testing.T) {
	tests := []struct {
		name     string
		topology mq.Topology
		expected amqp.Table
	}{
		{name: "no ttl", topology: mq.Topology{Queue: "rpc"}, expected: nil},
		{name: "negative ttl", topology: mq.Topology{Queue: "rpc", RequestTTL: -time.Second}, expected: nil},
		{
			name:     "ttl in milliseconds",
			topology: mq.Topology{Queue: "rpc", RequestTTL: 30 * time.Second},
			expected: amqp.Table{"x-message-ttl": int64(30000)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := tt.topology.QueueArgs()
			assert.Equal(t, tt.expected, args)
			if args != nil {
				assert.NoError(t, args.Validate())
			}
		})
	}
}
