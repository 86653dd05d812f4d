// Package redisstore implements session.Store on Redis, for deployments
// that want session expiry enforced natively via key TTLs.
package redisstore
