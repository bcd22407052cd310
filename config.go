package sigil

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sigil-net/sigil/pkg/locator"
)

type Config struct {
	Paths                     []string // absolute paths; at the moment only the first path is used
	MinimumFreeGB             int
	DefaultBase               locator.Base // alphabet for URLs produced by the store
	GarbageCollectionInterval time.Duration
	Logger                    *logrus.Logger
}

func (c *Config) applyDefaults() {
	if c.Logger == nil {
		c.Logger = defaultLogger()
	}
	if c.GarbageCollectionInterval <= 0 {
		c.GarbageCollectionInterval = 5 * time.Minute
	}
	if c.DefaultBase < locator.Base32z || c.DefaultBase > locator.Base64 {
		c.DefaultBase = locator.DefaultBase
	}
}

func defaultLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	log.SetLevel(logrus.InfoLevel)
	return log
}
