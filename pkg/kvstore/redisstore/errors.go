package redisstore

import "errors"

var (
	ErrFailedToParseConnString = errors.New("redisstore: failed to parse redis connection string")
	ErrRedisNotReady           = errors.New("redisstore: redis did not become ready within the given time period")
)
