package lock

// Config holds the Redis connection used for pass locks.
type Config struct {
	// Address is host:port of the Redis server. Empty disables locking.
	Address string `mapstructure:"address" default:""`
	// Password authenticates against Redis.
	Password string `mapstructure:"password" default:""`
	// DB selects the Redis database.
	DB int `mapstructure:"db" default:"0"`
	// LockTTLSeconds is the lease duration of a pass lock.
	LockTTLSeconds int `mapstructure:"lock_ttl_seconds" default:"300" validate:"gt=0"`
}
