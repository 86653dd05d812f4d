// Package redis provides Redis client initialization with connection retry
// and health checking, backing the redisstore session backend and any
// future cross-process cache use.
package redis
