package config

import (
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	// Either a single address or a seed list of host:port addresses
	Addrs           []string `validate:"required"`
	DB              int      `validate:"gte=0,lte=16"`
	Password        string
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	PoolSize        int
	MinIdleConns    int
	PoolTimeout     time.Duration
	MasterName      string
}

func (rc RedisConfig) AsUniversalOptions() *redis.UniversalOptions {
	return &redis.UniversalOptions{
		Addrs:           rc.Addrs,
		DB:              rc.DB,
		Password:        rc.Password,
		MaxRetries:      rc.MaxRetries,
		MinRetryBackoff: rc.MinRetryBackoff,
		MaxRetryBackoff: rc.MaxRetryBackoff,
		DialTimeout:     rc.DialTimeout,
		ReadTimeout:     rc.ReadTimeout,
		WriteTimeout:    rc.WriteTimeout,
		PoolSize:        rc.PoolSize,
		MinIdleConns:    rc.MinIdleConns,
		PoolTimeout:     rc.PoolTimeout,
		MasterName:      rc.MasterName,
	}
}
