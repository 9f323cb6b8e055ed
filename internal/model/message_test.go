package model_test

import (
	"sync"
	"testing"

	"github.com/Behyna/sms-services/messagegateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestMessageClientIDIndexIncludesDeleteToken(t *testing.T) {
	s, err := schema.Parse(&model.Message{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	idx := s.LookIndex("idx_client_msg_from")
	require.NotNil(t, idx)
	assert.Equal(t, "UNIQUE", idx.Class)

	var columns []string
	for _, f := range idx.Fields {
		columns = append(columns, f.DBName)
	}
	assert.Equal(t, []string{"client_message_id", "from_msisdn", "delete_token"}, columns)
}
