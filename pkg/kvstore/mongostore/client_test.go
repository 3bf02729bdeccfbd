package mongostore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/wavesync/pkg/kvstore/mongostore"
)

func TestConnect_InvalidURI(t *testing.T) {
	_, err := mongostore.Connect(context.Background(), mongostore.Config{
		ConnectionURL: "not-a-mongo-uri",
		RetryAttempts: 1,
	})
	assert.ErrorIs(t, err, mongostore.ErrFailedToConnect)
}
