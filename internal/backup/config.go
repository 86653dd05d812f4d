package backup

import "time"

// Config configures the optional off-box S3 mirror. An empty Bucket
// disables mirroring entirely (New returns a no-op Mirror).
type Config struct {
	Bucket         string        `env:"BACKUP_S3_BUCKET"`
	Region         string        `env:"BACKUP_S3_REGION"`
	AccessKeyID    string        `env:"BACKUP_S3_ACCESS_KEY_ID"`
	SecretKey      string        `env:"BACKUP_S3_SECRET_KEY"`
	Endpoint       string        `env:"BACKUP_S3_ENDPOINT"`
	ForcePathStyle bool          `env:"BACKUP_S3_FORCE_PATH_STYLE" envDefault:"false"`
	Prefix         string        `env:"BACKUP_S3_PREFIX" envDefault:"editorhost"`
	Interval       time.Duration `env:"BACKUP_INTERVAL" envDefault:"5m"`
}

func (c Config) enabled() bool {
	return c.Bucket != "" && c.Region != ""
}
